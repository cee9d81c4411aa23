package moviedb

import (
	"context"
	"fmt"
)

// DirectorService provides CRUD operations for directors
type DirectorService struct {
	client *Client
}

// List retrieves one page of directors
func (s *DirectorService) List(ctx context.Context, page, pageSize int) (*PersonPage, error) {
	params := pageParams(page, pageSize, defaultPageSize)

	var out PersonPage
	if err := s.client.get(ctx, "/directors", params, &out); err != nil {
		return nil, fmt.Errorf("failed to list directors: %w", err)
	}
	return &out, nil
}

// Get retrieves a single director by id
func (s *DirectorService) Get(ctx context.Context, id int) (*Person, error) {
	var out Person
	if err := s.client.get(ctx, fmt.Sprintf("/directors/%d", id), nil, &out); err != nil {
		return nil, fmt.Errorf("failed to get director %d: %w", id, err)
	}
	return &out, nil
}

// Create adds a director and returns the server's copy
func (s *DirectorService) Create(ctx context.Context, in PersonInput) (*Person, error) {
	var out Person
	if err := s.client.post(ctx, "/directors", in, &out); err != nil {
		return nil, fmt.Errorf("failed to create director: %w", err)
	}
	return &out, nil
}

// Update applies a partial update to a director
func (s *DirectorService) Update(ctx context.Context, id int, in PersonUpdate) (*Person, error) {
	var out Person
	if err := s.client.put(ctx, fmt.Sprintf("/directors/%d", id), in, &out); err != nil {
		return nil, fmt.Errorf("failed to update director %d: %w", id, err)
	}
	return &out, nil
}

// Delete removes a director
func (s *DirectorService) Delete(ctx context.Context, id int) error {
	if err := s.client.delete(ctx, fmt.Sprintf("/directors/%d", id)); err != nil {
		return fmt.Errorf("failed to delete director %d: %w", id, err)
	}
	return nil
}
