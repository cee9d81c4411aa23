package moviedb

import (
	"context"
	"fmt"
)

// ActorService provides CRUD operations for actors
type ActorService struct {
	client *Client
}

// List retrieves one page of actors
func (s *ActorService) List(ctx context.Context, page, pageSize int) (*PersonPage, error) {
	params := pageParams(page, pageSize, defaultPageSize)

	var out PersonPage
	if err := s.client.get(ctx, "/actors", params, &out); err != nil {
		return nil, fmt.Errorf("failed to list actors: %w", err)
	}
	return &out, nil
}

// Get retrieves a single actor by id
func (s *ActorService) Get(ctx context.Context, id int) (*Person, error) {
	var out Person
	if err := s.client.get(ctx, fmt.Sprintf("/actors/%d", id), nil, &out); err != nil {
		return nil, fmt.Errorf("failed to get actor %d: %w", id, err)
	}
	return &out, nil
}

// Create adds an actor and returns the server's copy
func (s *ActorService) Create(ctx context.Context, in PersonInput) (*Person, error) {
	var out Person
	if err := s.client.post(ctx, "/actors", in, &out); err != nil {
		return nil, fmt.Errorf("failed to create actor: %w", err)
	}
	return &out, nil
}

// Update applies a partial update to an actor
func (s *ActorService) Update(ctx context.Context, id int, in PersonUpdate) (*Person, error) {
	var out Person
	if err := s.client.put(ctx, fmt.Sprintf("/actors/%d", id), in, &out); err != nil {
		return nil, fmt.Errorf("failed to update actor %d: %w", id, err)
	}
	return &out, nil
}

// Delete removes an actor
func (s *ActorService) Delete(ctx context.Context, id int) error {
	if err := s.client.delete(ctx, fmt.Sprintf("/actors/%d", id)); err != nil {
		return fmt.Errorf("failed to delete actor %d: %w", id, err)
	}
	return nil
}
