package cache

import (
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func scrollParams(page int, term string) url.Values {
	params := url.Values{}
	params.Set("pageNumber", strconv.Itoa(page))
	params.Set("pageSize", "10")
	if term != "" {
		params.Set("SearchTerm", term)
	}
	return params
}

func TestAccumulatorMergesConsecutivePages(t *testing.T) {
	var acc Accumulator

	got := acc.Add(scrollParams(1, "war"), []any{"a", "b"})
	assert.Equal(t, []any{"a", "b"}, got)

	got = acc.Add(scrollParams(2, "war"), []any{"c", "d", "e"})
	assert.Len(t, got, 5, "accumulated length is the sum of both pages")
	assert.Equal(t, []any{"a", "b", "c", "d", "e"}, got, "page 1 items stay ahead of page 2 items")
}

func TestAccumulatorResetsOnBaseParamChange(t *testing.T) {
	var acc Accumulator

	acc.Add(scrollParams(1, "war"), []any{"a", "b"})
	acc.Add(scrollParams(2, "war"), []any{"c"})

	got := acc.Add(scrollParams(1, "peace"), []any{"x"})
	assert.Equal(t, []any{"x"}, got, "a changed filter resets to the new first page")
}

func TestAccumulatorResetsOnFreshFirstPage(t *testing.T) {
	var acc Accumulator

	acc.Add(scrollParams(1, "war"), []any{"a"})
	acc.Add(scrollParams(2, "war"), []any{"b"})

	// Pull-to-refresh: same query, page 1 again.
	got := acc.Add(scrollParams(1, "war"), []any{"a2"})
	assert.Equal(t, []any{"a2"}, got)
}

func TestAccumulatorIgnoresReplayedPage(t *testing.T) {
	var acc Accumulator

	acc.Add(scrollParams(1, ""), []any{"a"})
	acc.Add(scrollParams(2, ""), []any{"b"})

	got := acc.Add(scrollParams(2, ""), []any{"b"})
	assert.Equal(t, []any{"a", "b"}, got, "an already-merged page must not duplicate items")
}

func TestAccumulatorRestartsOnPageJump(t *testing.T) {
	var acc Accumulator

	acc.Add(scrollParams(1, ""), []any{"a"})

	got := acc.Add(scrollParams(4, ""), []any{"z"})
	assert.Equal(t, []any{"z"}, got)
}

func TestAccumulatorReset(t *testing.T) {
	var acc Accumulator

	acc.Add(scrollParams(1, ""), []any{"a"})
	acc.Reset()
	assert.Empty(t, acc.Items())
}
