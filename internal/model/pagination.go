package model

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Page is a 1-based page request
type Page struct {
	Number int
	Limit  int
}

// Offset returns the number of rows to skip
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// Sort names a whitelisted column and a direction
type Sort struct {
	Field string
	Desc  bool
}

// Pagination describes a page of a listing
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	Total       int  `json:"-"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

// NewPagination builds the pagination block for a page over total rows
func NewPagination(p Page, total int) Pagination {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{
		CurrentPage: p.Number,
		TotalPages:  totalPages,
		Total:       total,
		HasNext:     p.Number*p.Limit < total,
		HasPrev:     p.Number > 1,
	}
}

// Render returns the pagination as a JSON object whose total is named totalKey
// (e.g. "totalStores"), matching the listing it belongs to.
func (p Pagination) Render(totalKey string) map[string]any {
	return map[string]any{
		"currentPage": p.CurrentPage,
		"totalPages":  p.TotalPages,
		totalKey:      p.Total,
		"hasNext":     p.HasNext,
		"hasPrev":     p.HasPrev,
	}
}
