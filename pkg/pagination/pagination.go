package pagination

const (
	// DefaultSize is the standard page size when one is not provided.
	DefaultSize = 10
	// MaxSize caps how many rows any listing query can request.
	MaxSize = 100
)

// Params holds zero-based page/size inputs from controllers.
type Params struct {
	Page int
	Size int
}

// Normalize clamps the params into the accepted range.
func (p Params) Normalize() Params {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultSize
	}
	if p.Size > MaxSize {
		p.Size = MaxSize
	}
	return p
}

// Offset returns the row offset for the normalized params.
func (p Params) Offset() int {
	n := p.Normalize()
	return n.Page * n.Size
}

// Page wraps one page of results together with the totals the clients need to
// drive their own paging controls.
type Page[T any] struct {
	Content       []T   `json:"content"`
	PageNumber    int   `json:"page"`
	PageSize      int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
}

// NewPage assembles a Page from a slice and the total row count.
func NewPage[T any](content []T, params Params, total int64) Page[T] {
	n := params.Normalize()
	pages := int(total) / n.Size
	if int(total)%n.Size != 0 {
		pages++
	}
	if content == nil {
		content = []T{}
	}
	return Page[T]{
		Content:       content,
		PageNumber:    n.Page,
		PageSize:      n.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}
