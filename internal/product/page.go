package product

// Pagination limits. Page sizes are clamped, never rejected.
const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// Page is the paginated search envelope. A zero-match search yields a
// well-formed envelope with an empty product list.
type Page struct {
	Products    []Product `json:"products"`
	TotalCount  int       `json:"totalCount"`
	CurrentPage int       `json:"currentPage"`
	PageSize    int       `json:"pageSize"`
	TotalPages  int       `json:"totalPages"`
	HasNext     bool      `json:"hasNext"`
	HasPrev     bool      `json:"hasPrev"`
}

// NewPage assembles the envelope for one result page. Pages are 1-indexed.
func NewPage(products []Product, totalCount, page, pageSize int) *Page {
	if products == nil {
		products = []Product{}
	}

	totalPages := 0
	if totalCount > 0 {
		totalPages = (totalCount + pageSize - 1) / pageSize
	}

	return &Page{
		Products:    products,
		TotalCount:  totalCount,
		CurrentPage: page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrev:     page > 1 && totalCount > 0,
	}
}

// ClampPage normalizes pagination input: pages below 1 become 1, page
// sizes are clamped into [1, MaxPageSize], and a zero or negative size
// falls back to the default.
func ClampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}
