package moviedb

import (
	"context"
	"fmt"
	"net/url"
)

// defaultPeoplePageSize matches the backend's larger default for people listings.
const defaultPeoplePageSize = 20

// PeopleService reads the combined people catalog under /movies/people.
// The popular and search variants still answer the legacy results envelope;
// this service normalizes both to the canonical page shape so callers only
// ever see one envelope.
type PeopleService struct {
	client *Client
}

// legacyPersonPage is the envelope the older people endpoints answer with.
type legacyPersonPage struct {
	Results    []Person `json:"results" validate:"dive"`
	TotalCount int      `json:"totalCount" validate:"min=0"`
}

// List retrieves one page of people
func (s *PeopleService) List(ctx context.Context, page, pageSize int) (*PersonPage, error) {
	params := pageParams(page, pageSize, defaultPeoplePageSize)

	var out PersonPage
	if err := s.client.get(ctx, "/movies/people", params, &out); err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	return &out, nil
}

// Popular retrieves the popularity-ranked people listing
func (s *PeopleService) Popular(ctx context.Context, page, pageSize int) (*PersonPage, error) {
	page, pageSize = normalizePage(page, pageSize, defaultPeoplePageSize)

	legacy, err := s.legacyList(ctx, "/movies/people/popular", nil, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list popular people: %w", err)
	}
	return legacy, nil
}

// Search queries people by name
func (s *PeopleService) Search(ctx context.Context, term string, page, pageSize int) (*PersonPage, error) {
	page, pageSize = normalizePage(page, pageSize, defaultPeoplePageSize)

	params := url.Values{}
	if term != "" {
		params.Set("SearchTerm", term)
	}
	legacy, err := s.legacyList(ctx, "/movies/people/search", params, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to search people: %w", err)
	}
	return legacy, nil
}

// legacyList fetches a legacy results envelope and rebuilds the canonical
// paging metadata from the requested position and the returned count.
func (s *PeopleService) legacyList(ctx context.Context, endpoint string, params url.Values, page, pageSize int) (*PersonPage, error) {
	if params == nil {
		params = url.Values{}
	}
	paging := pageParams(page, pageSize, defaultPeoplePageSize)
	for key, values := range paging {
		params[key] = values
	}

	var legacy legacyPersonPage
	if err := s.client.get(ctx, endpoint, params, &legacy); err != nil {
		return nil, err
	}
	return &PersonPage{
		Items:    legacy.Results,
		PageInfo: NewPageInfo(page, pageSize, legacy.TotalCount),
	}, nil
}
