package enums

// SortKey is the closed set of orderings the listing endpoints accept.
// Unknown inputs collapse to SortUnsorted rather than failing the request.
type SortKey string

const (
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortNameAsc   SortKey = "name-asc"
	SortNameDesc  SortKey = "name-desc"
	SortUnsorted  SortKey = ""
)

// ParseSortKey maps raw query input onto the closed SortKey set.
func ParseSortKey(value string) SortKey {
	switch SortKey(value) {
	case SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc:
		return SortKey(value)
	default:
		return SortUnsorted
	}
}

// OrderClause returns the SQL ORDER BY expression for the key, or "" when unsorted.
func (k SortKey) OrderClause() string {
	switch k {
	case SortPriceAsc:
		return "price ASC"
	case SortPriceDesc:
		return "price DESC"
	case SortNameAsc:
		return "name ASC"
	case SortNameDesc:
		return "name DESC"
	default:
		return ""
	}
}
