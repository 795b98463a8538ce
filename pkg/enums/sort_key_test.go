package enums

import "testing"

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in   string
		want SortKey
	}{
		{"price-asc", SortPriceAsc},
		{"price-desc", SortPriceDesc},
		{"name-asc", SortNameAsc},
		{"name-desc", SortNameDesc},
		{"", SortUnsorted},
		{"rating-desc", SortUnsorted},
		{"PRICE-ASC", SortUnsorted},
	}
	for _, tc := range tests {
		if got := ParseSortKey(tc.in); got != tc.want {
			t.Fatalf("ParseSortKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestOrderClause(t *testing.T) {
	if clause := SortNameDesc.OrderClause(); clause != "name DESC" {
		t.Fatalf("unexpected clause %q", clause)
	}
	if clause := SortUnsorted.OrderClause(); clause != "" {
		t.Fatalf("unsorted must produce no clause, got %q", clause)
	}
}
