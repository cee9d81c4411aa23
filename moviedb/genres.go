package moviedb

import (
	"context"
	"fmt"
)

// GenreService provides CRUD operations for genres
type GenreService struct {
	client *Client
}

// List retrieves one page of genres
func (s *GenreService) List(ctx context.Context, page, pageSize int) (*GenrePage, error) {
	params := pageParams(page, pageSize, defaultPageSize)

	var out GenrePage
	if err := s.client.get(ctx, "/genres", params, &out); err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	return &out, nil
}

// Get retrieves a single genre by id
func (s *GenreService) Get(ctx context.Context, id int) (*Genre, error) {
	var out Genre
	if err := s.client.get(ctx, fmt.Sprintf("/genres/%d", id), nil, &out); err != nil {
		return nil, fmt.Errorf("failed to get genre %d: %w", id, err)
	}
	return &out, nil
}

// Create adds a genre and returns the server's copy
func (s *GenreService) Create(ctx context.Context, in GenreInput) (*Genre, error) {
	var out Genre
	if err := s.client.post(ctx, "/genres", in, &out); err != nil {
		return nil, fmt.Errorf("failed to create genre: %w", err)
	}
	return &out, nil
}

// Update applies a partial update to a genre
func (s *GenreService) Update(ctx context.Context, id int, in GenreUpdate) (*Genre, error) {
	var out Genre
	if err := s.client.put(ctx, fmt.Sprintf("/genres/%d", id), in, &out); err != nil {
		return nil, fmt.Errorf("failed to update genre %d: %w", id, err)
	}
	return &out, nil
}

// Delete removes a genre
func (s *GenreService) Delete(ctx context.Context, id int) error {
	if err := s.client.delete(ctx, fmt.Sprintf("/genres/%d", id)); err != nil {
		return fmt.Errorf("failed to delete genre %d: %w", id, err)
	}
	return nil
}
