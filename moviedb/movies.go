package moviedb

import (
	"context"
	"fmt"
	"strconv"
)

// defaultPageSize is the page size used when the caller does not ask for one.
const defaultPageSize = 10

// MovieService provides CRUD and search operations for catalog movies
type MovieService struct {
	client *Client
}

// SearchParams narrows a movie search. Zero values are omitted from the query.
type SearchParams struct {
	Term        string
	ReleaseYear int
	GenreIDs    []int
	SortBy      string
	SortOrder   string
	Page        int
	PageSize    int
}

// List retrieves one page of movies
func (s *MovieService) List(ctx context.Context, page, pageSize int) (*MoviePage, error) {
	params := pageParams(page, pageSize, defaultPageSize)

	var out MoviePage
	if err := s.client.get(ctx, "/movies", params, &out); err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	return &out, nil
}

// Get retrieves a single movie by id
func (s *MovieService) Get(ctx context.Context, id int) (*Movie, error) {
	var out Movie
	if err := s.client.get(ctx, fmt.Sprintf("/movies/%d", id), nil, &out); err != nil {
		return nil, fmt.Errorf("failed to get movie %d: %w", id, err)
	}
	return &out, nil
}

// Create adds a movie to the catalog and returns the server's copy
func (s *MovieService) Create(ctx context.Context, in MovieInput) (*Movie, error) {
	var out Movie
	if err := s.client.post(ctx, "/movies", in, &out); err != nil {
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}
	return &out, nil
}

// Update applies a partial update to a movie
func (s *MovieService) Update(ctx context.Context, id int, in MovieUpdate) (*Movie, error) {
	var out Movie
	if err := s.client.put(ctx, fmt.Sprintf("/movies/%d", id), in, &out); err != nil {
		return nil, fmt.Errorf("failed to update movie %d: %w", id, err)
	}
	return &out, nil
}

// Delete removes a movie from the catalog
func (s *MovieService) Delete(ctx context.Context, id int) error {
	if err := s.client.delete(ctx, fmt.Sprintf("/movies/%d", id)); err != nil {
		return fmt.Errorf("failed to delete movie %d: %w", id, err)
	}
	return nil
}

// Search queries movies by free text and filter facets. Genre ids are
// serialized as one GenreIds parameter per id; the backend does not accept
// a delimited list.
func (s *MovieService) Search(ctx context.Context, p SearchParams) (*MoviePage, error) {
	params := pageParams(p.Page, p.PageSize, defaultPageSize)
	if p.Term != "" {
		params.Set("SearchTerm", p.Term)
	}
	if p.ReleaseYear > 0 {
		params.Set("ReleaseYear", strconv.Itoa(p.ReleaseYear))
	}
	for _, id := range p.GenreIDs {
		params.Add("GenreIds", strconv.Itoa(id))
	}
	if p.SortBy != "" {
		params.Set("SortBy", p.SortBy)
	}
	if p.SortOrder != "" {
		params.Set("SortOrder", p.SortOrder)
	}

	var out MoviePage
	if err := s.client.get(ctx, "/movies/search", params, &out); err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}
	return &out, nil
}

// ByActor retrieves the movies featuring an actor
func (s *MovieService) ByActor(ctx context.Context, actorID, page, pageSize int) (*MoviePage, error) {
	params := pageParams(page, pageSize, defaultPageSize)

	var out MoviePage
	if err := s.client.get(ctx, fmt.Sprintf("/movies/actor/%d", actorID), params, &out); err != nil {
		return nil, fmt.Errorf("failed to list movies for actor %d: %w", actorID, err)
	}
	return &out, nil
}

// ByGenre retrieves the movies in a genre
func (s *MovieService) ByGenre(ctx context.Context, genreID, page, pageSize int) (*MoviePage, error) {
	params := pageParams(page, pageSize, defaultPageSize)

	var out MoviePage
	if err := s.client.get(ctx, fmt.Sprintf("/movies/genre/%d", genreID), params, &out); err != nil {
		return nil, fmt.Errorf("failed to list movies for genre %d: %w", genreID, err)
	}
	return &out, nil
}
