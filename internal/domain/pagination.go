package domain

// Page selects one page of a listing. Number is 1-based.
type Page struct {
	Number int
	Size   int
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// NewPage normalizes page parameters coming from a query string.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Pagination describes where a page sits in the full listing.
type Pagination struct {
	TotalRecords int  `json:"total_records"`
	CurrentPage  int  `json:"current_page"`
	TotalPages   int  `json:"total_pages"`
	NextPage     *int `json:"next_page"`
	PrevPage     *int `json:"prev_page"`
}

// NewPagination computes the page links for total records.
func NewPagination(total int, page Page) Pagination {
	pages := 0
	if page.Size > 0 {
		pages = (total + page.Size - 1) / page.Size
	}
	p := Pagination{
		TotalRecords: total,
		CurrentPage:  page.Number,
		TotalPages:   pages,
	}
	if page.Number < pages {
		next := page.Number + 1
		p.NextPage = &next
	}
	if page.Number > 1 {
		prev := page.Number - 1
		p.PrevPage = &prev
	}
	return p
}

// PageResult is the envelope of every paginated listing.
type PageResult[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}
