package moviedb

import (
	"net/url"
	"strconv"
)

// PageInfo carries the paging metadata every canonical list response ends
// with. The math invariants between its fields are enforced at the response
// boundary, see validate.go.
type PageInfo struct {
	TotalCount  int  `json:"totalCount" validate:"min=0"`
	PageNumber  int  `json:"pageNumber" validate:"min=1"`
	PageSize    int  `json:"pageSize" validate:"min=1"`
	TotalPages  int  `json:"totalPages" validate:"min=0"`
	HasPrevious bool `json:"hasPrevious"`
	HasNext     bool `json:"hasNext"`
}

// MoviePage is one page of movies plus paging metadata
type MoviePage struct {
	Items []Movie `json:"items" validate:"dive"`
	PageInfo
}

// PersonPage is one page of actors, directors or people plus paging metadata
type PersonPage struct {
	Items []Person `json:"items" validate:"dive"`
	PageInfo
}

// GenrePage is one page of genres plus paging metadata
type GenrePage struct {
	Items []Genre `json:"items" validate:"dive"`
	PageInfo
}

// PageCount returns how many pages totalCount items span at pageSize per page.
func PageCount(totalCount, pageSize int) int {
	if totalCount <= 0 || pageSize <= 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}

// NewPageInfo computes consistent paging metadata for a known page position
// and total. Used to normalize legacy envelopes that only carry a count.
func NewPageInfo(pageNumber, pageSize, totalCount int) PageInfo {
	totalPages := PageCount(totalCount, pageSize)
	return PageInfo{
		TotalCount:  totalCount,
		PageNumber:  pageNumber,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		HasPrevious: pageNumber > 1,
		HasNext:     pageNumber < totalPages,
	}
}

// normalizePage applies the service defaults to a caller-supplied page position.
func normalizePage(page, pageSize, defaultSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultSize
	}
	return page, pageSize
}

// pageParams builds the paging query the backend expects.
func pageParams(page, pageSize, defaultSize int) url.Values {
	page, pageSize = normalizePage(page, pageSize, defaultSize)
	params := url.Values{}
	params.Set("pageNumber", strconv.Itoa(page))
	params.Set("pageSize", strconv.Itoa(pageSize))
	return params
}
