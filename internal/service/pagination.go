package service

// DefaultPerPage is the admin list page size.
const DefaultPerPage = 50

// Pagination describes one page of a change list.
type Pagination struct {
	Page     int
	PerPage  int
	Total    int64
	NumPages int
}

// NewPagination clamps page into the valid range for total rows.
func NewPagination(page, perPage int, total int64) Pagination {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	numPages := int((total + int64(perPage) - 1) / int64(perPage))
	if numPages < 1 {
		numPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > numPages {
		page = numPages
	}
	return Pagination{Page: page, PerPage: perPage, Total: total, NumPages: numPages}
}

// Offset is the number of rows before the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

func (p Pagination) HasPrev() bool { return p.Page > 1 }
func (p Pagination) HasNext() bool { return p.Page < p.NumPages }
func (p Pagination) Prev() int     { return p.Page - 1 }
func (p Pagination) Next() int     { return p.Page + 1 }
