package generics

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gazebo-web/gz-go/v7"
	"github.com/jinzhu/gorm"
)

const (
	// DefaultLimit is the page size used when the request has no limit.
	DefaultLimit int64 = 10
	// MaxLimit is the largest accepted page size.
	MaxLimit int64 = 100
)

// Page is the pagination metadata included in listing results.
type Page struct {
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int64 `json:"totalPages"`
}

// NewPageRequest reads the "page" and "limit" query parameters.
// Both are optional and must be positive when present.
func NewPageRequest(r *http.Request) (*gz.PaginationRequest, *gz.ErrMsg) {
	page, em := readPositive(r, "page", 1)
	if em != nil {
		return nil, em
	}
	limit, em := readPositive(r, "limit", DefaultLimit)
	if em != nil {
		return nil, em
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return &gz.PaginationRequest{
		Page:    page,
		PerPage: limit,
		URL:     r.URL.String(),
	}, nil
}

func readPositive(r *http.Request, name string, def int64) (int64, *gz.ErrMsg) {
	str := r.URL.Query().Get(name)
	if str == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(str, 10, 64)
	if err != nil || v < 1 {
		return 0, gz.NewErrorMessageWithArgs(gz.ErrorInvalidPaginationRequest, err,
			[]string{name + " must be a positive integer"})
	}
	return v, nil
}

// Paginate runs the given query for the requested page. A page beyond the last
// one is not an error: result is left empty, PageFound is false and the total
// count is still reported.
func Paginate(q *gorm.DB, result interface{}, p *gz.PaginationRequest) (*gz.PaginationResult, error) {
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, err
	}
	pagination := &gz.PaginationResult{
		Page:       p.Page,
		PerPage:    p.PerPage,
		URL:        p.URL,
		QueryCount: count,
	}
	offset, ok := pageOffset(p.Page, p.PerPage)
	if !ok || (p.Page > 1 && offset >= count) {
		return pagination, nil
	}
	if err := q.Limit(p.PerPage).Offset(offset).Find(result).Error; err != nil {
		return nil, err
	}
	pagination.PageFound = true
	return pagination, nil
}

// pageOffset returns the row offset of a page. It is false when the offset
// does not fit in an int64.
func pageOffset(page, limit int64) (int64, bool) {
	if page < 1 || limit < 1 || page-1 > math.MaxInt64/limit {
		return 0, false
	}
	return (page - 1) * limit, true
}

// NewPage builds the pagination metadata for a paginated query result.
func NewPage(p *gz.PaginationResult) Page {
	return PageOf(p.Page, p.PerPage, p.QueryCount)
}

// PageOf computes the pagination metadata for the given page, limit and count.
func PageOf(page, limit, count int64) Page {
	var pages int64
	if limit > 0 {
		pages = (count + limit - 1) / limit
	}
	return Page{
		Page:       page,
		Limit:      limit,
		TotalCount: count,
		TotalPages: pages,
	}
}

// EmptyPage is the metadata reported when a listing failed softly.
func EmptyPage(p *gz.PaginationRequest) Page {
	return PageOf(p.Page, p.PerPage, 0)
}
