// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"
)

// DefaultLimit is the page size used when the caller sends none.
const DefaultLimit = 10

// MaxLimit caps the page size a caller may request.
const MaxLimit = 100

// Params holds parsed page/limit query values (1-based page).
type Params struct {
	Page  int
	Limit int
}

// Parse reads the "page" and "limit" query parameters, falling back to
// page 1 / DefaultLimit for missing or invalid values.
func Parse(r *http.Request) Params {
	p := Params{Page: 1, Limit: DefaultLimit}
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			p.Page = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			p.Limit = n
			if p.Limit > MaxLimit {
				p.Limit = MaxLimit
			}
		}
	}
	return p
}

// Skip returns the number of documents to skip for this page.
func (p Params) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

// TotalPages computes the page count for a total row count.
func (p Params) TotalPages(total int64) int64 {
	if total == 0 {
		return 0
	}
	limit := int64(p.Limit)
	return (total + limit - 1) / limit
}
