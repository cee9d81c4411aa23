package moviedb

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func moviePage(pageNumber, pageSize int, movies ...Movie) MoviePage {
	return MoviePage{
		Items:    movies,
		PageInfo: NewPageInfo(pageNumber, pageSize, len(movies)),
	}
}

func TestMovieList(t *testing.T) {
	t.Run("forwards paging parameters", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/movies", r.URL.Path)
			assert.Equal(t, "2", r.URL.Query().Get("pageNumber"))
			assert.Equal(t, "5", r.URL.Query().Get("pageSize"))
			json.NewEncoder(w).Encode(MoviePage{
				Items: []Movie{
					{ID: 6, Title: "Alien"},
					{ID: 7, Title: "Blade Runner"},
				},
				PageInfo: PageInfo{
					TotalCount:  7,
					PageNumber:  2,
					PageSize:    5,
					TotalPages:  2,
					HasPrevious: true,
					HasNext:     false,
				},
			})
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		page, err := client.Movies().List(context.Background(), 2, 5)
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.Equal(t, "Alien", page.Items[0].Title)
		assert.Equal(t, 7, page.TotalCount)
		assert.False(t, page.HasNext)
	})

	t.Run("applies defaults", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "1", r.URL.Query().Get("pageNumber"))
			assert.Equal(t, "10", r.URL.Query().Get("pageSize"))
			json.NewEncoder(w).Encode(emptyMoviePage())
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		_, err := client.Movies().List(context.Background(), 0, 0)
		require.NoError(t, err)
	})
}

func TestMovieGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/movies/42", r.URL.Path)
		json.NewEncoder(w).Encode(Movie{
			ID:          42,
			Title:       "Heat",
			ReleaseYear: 1995,
			Runtime:     170,
			Director:    "Michael Mann",
			Genres:      []string{"Crime", "Thriller"},
			Actors:      []string{"Al Pacino", "Robert De Niro"},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	movie, err := client.Movies().Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "Heat", movie.Title)
	assert.Equal(t, 1995, movie.ReleaseYear)
	assert.Equal(t, []string{"Crime", "Thriller"}, movie.Genres)
}

func TestMovieCreate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/movies", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in MovieInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "Ran", in.Title)
		assert.Equal(t, 1985, in.ReleaseYear)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Movie{ID: 11, Title: in.Title, ReleaseYear: in.ReleaseYear})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	movie, err := client.Movies().Create(context.Background(), MovieInput{Title: "Ran", ReleaseYear: 1985})
	require.NoError(t, err)
	assert.Equal(t, 11, movie.ID)
	assert.Equal(t, "Ran", movie.Title)
}

func TestMovieUpdate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/movies/11", r.URL.Path)

		// Partial update: only the fields that were set may appear.
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "plot")
		assert.NotContains(t, body, "title")
		assert.NotContains(t, body, "releaseYear")

		json.NewEncoder(w).Encode(Movie{ID: 11, Title: "Ran", Plot: "updated"})
	}))
	defer server.Close()

	plot := "updated"
	client := newTestClient(t, server.URL)
	movie, err := client.Movies().Update(context.Background(), 11, MovieUpdate{Plot: &plot})
	require.NoError(t, err)
	assert.Equal(t, "updated", movie.Plot)
}

func TestMovieDelete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/movies/11", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	require.NoError(t, client.Movies().Delete(context.Background(), 11))
}

func TestMovieSearch(t *testing.T) {
	t.Run("serializes all facets", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/movies/search", r.URL.Path)
			query := r.URL.Query()
			assert.Equal(t, "crime", query.Get("SearchTerm"))
			assert.Equal(t, "1995", query.Get("ReleaseYear"))
			assert.Equal(t, "title", query.Get("SortBy"))
			assert.Equal(t, "desc", query.Get("SortOrder"))
			assert.Equal(t, []string{"3", "7"}, query["GenreIds"], "each genre id must be its own parameter")
			json.NewEncoder(w).Encode(emptyMoviePage())
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		_, err := client.Movies().Search(context.Background(), SearchParams{
			Term:        "crime",
			ReleaseYear: 1995,
			GenreIDs:    []int{3, 7},
			SortBy:      "title",
			SortOrder:   "desc",
		})
		require.NoError(t, err)
	})

	t.Run("omits empty facets", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query := r.URL.Query()
			assert.False(t, query.Has("SearchTerm"))
			assert.False(t, query.Has("ReleaseYear"))
			assert.False(t, query.Has("GenreIds"))
			assert.Equal(t, "1", query.Get("pageNumber"))
			assert.Equal(t, "10", query.Get("pageSize"))
			json.NewEncoder(w).Encode(emptyMoviePage())
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		_, err := client.Movies().Search(context.Background(), SearchParams{})
		require.NoError(t, err)
	})
}

func TestMoviesByRelation(t *testing.T) {
	t.Run("by actor", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/movies/actor/9", r.URL.Path)
			json.NewEncoder(w).Encode(moviePage(1, 10, Movie{ID: 1, Title: "Casino"}))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		page, err := client.Movies().ByActor(context.Background(), 9, 1, 10)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Casino", page.Items[0].Title)
	})

	t.Run("by genre", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/movies/genre/3", r.URL.Path)
			json.NewEncoder(w).Encode(moviePage(1, 10, Movie{ID: 2, Title: "Goodfellas"}))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		page, err := client.Movies().ByGenre(context.Background(), 3, 1, 10)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
	})
}

func TestResponseValidation(t *testing.T) {
	t.Run("missing required field", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Title is required; this payload must be rejected.
			w.Write([]byte(`{"items":[{"id":1}],"totalCount":1,"pageNumber":1,"pageSize":10,"totalPages":1,"hasPrevious":false,"hasNext":false}`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		_, err := client.Movies().List(context.Background(), 1, 10)
		require.Error(t, err)

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.NotEmpty(t, vErr.Fields)

		var apiErr *APIError
		assert.False(t, errors.As(err, &apiErr), "schema failures must stay distinct from transport errors")
	})

	t.Run("inconsistent paging metadata", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// totalPages disagrees with ceil(totalCount/pageSize).
			w.Write([]byte(`{"items":[],"totalCount":25,"pageNumber":1,"pageSize":10,"totalPages":2,"hasPrevious":false,"hasNext":true}`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		_, err := client.Movies().List(context.Background(), 1, 10)
		require.Error(t, err)

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"items": [`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		_, err := client.Movies().List(context.Background(), 1, 10)
		require.Error(t, err)

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
	})
}
