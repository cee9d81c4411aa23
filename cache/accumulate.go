package cache

import (
	"net/url"
	"strconv"
	"sync"
)

// Accumulator merges paginated results for infinite scrolling. Consecutive
// pages append in order as long as the query's base parameters stay the
// same; changing any of them (or refetching page 1) resets the accumulated
// list.
type Accumulator struct {
	mu       sync.Mutex
	base     string
	lastPage int
	items    []any
}

// Add merges one fetched page into the accumulated list and returns a copy
// of the result. params is the full query including pageNumber.
func (a *Accumulator) Add(params url.Values, pageItems []any) []any {
	page := 1
	if raw := params.Get("pageNumber"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}

	stripped := url.Values{}
	for key, values := range params {
		if key == "pageNumber" {
			continue
		}
		stripped[key] = values
	}
	base := stripped.Encode()

	a.mu.Lock()
	defer a.mu.Unlock()

	switch {
	case base != a.base || page == 1:
		// New query, or a refresh from the top.
		a.base = base
		a.lastPage = page
		a.items = append([]any(nil), pageItems...)
	case page == a.lastPage+1:
		a.lastPage = page
		a.items = append(a.items, pageItems...)
	case page > a.lastPage+1:
		// The caller jumped ahead; restart from what they gave us.
		a.lastPage = page
		a.items = append([]any(nil), pageItems...)
	default:
		// An already-merged page, keep what we have.
	}

	return a.snapshot()
}

// Items returns a copy of the accumulated list.
func (a *Accumulator) Items() []any {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot()
}

// Reset empties the accumulator.
func (a *Accumulator) Reset() {
	a.mu.Lock()
	a.base = ""
	a.lastPage = 0
	a.items = nil
	a.mu.Unlock()
}

func (a *Accumulator) snapshot() []any {
	out := make([]any, len(a.items))
	copy(out, a.items)
	return out
}
