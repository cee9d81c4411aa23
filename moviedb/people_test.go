package moviedb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeopleList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/movies/people", r.URL.Path)
		assert.Equal(t, "20", r.URL.Query().Get("pageSize"), "people listings default to the larger page size")
		json.NewEncoder(w).Encode(PersonPage{
			Items:    []Person{{ID: 1, Name: "Akira Kurosawa"}},
			PageInfo: NewPageInfo(1, 20, 1),
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	page, err := client.People().List(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Akira Kurosawa", page.Items[0].Name)
}

func TestPeoplePopularNormalizesLegacyEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/movies/people/popular", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("pageNumber"))
		json.NewEncoder(w).Encode(map[string]any{
			"results": []Person{
				{ID: 5, Name: "Toshiro Mifune"},
				{ID: 6, Name: "Setsuko Hara"},
			},
			"totalCount": 45,
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	page, err := client.People().Popular(context.Background(), 2, 20)
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	assert.Equal(t, 45, page.TotalCount)
	assert.Equal(t, 2, page.PageNumber)
	assert.Equal(t, 20, page.PageSize)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasPrevious)
	assert.True(t, page.HasNext)
}

func TestPeopleSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/movies/people/search", r.URL.Path)
		assert.Equal(t, "mifune", r.URL.Query().Get("SearchTerm"))
		json.NewEncoder(w).Encode(map[string]any{
			"results":    []Person{{ID: 5, Name: "Toshiro Mifune"}},
			"totalCount": 1,
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	page, err := client.People().Search(context.Background(), "mifune", 1, 20)
	require.NoError(t, err)

	require.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.TotalPages)
	assert.False(t, page.HasNext)
}
