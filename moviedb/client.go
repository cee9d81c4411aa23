package moviedb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	apiPrefix       = "/api/v1"
	apiVersion      = "1"
	defaultTimeout  = 15 * time.Second
	defaultPlatform = "cli"
)

// TokenStore persists the bearer token across runs. The client reads it on
// every request and clears it when the server answers unauthorized.
type TokenStore interface {
	Token() (string, bool)
	SaveToken(token string) error
	ClearToken() error
}

// Client talks to the movie catalog API. Construct one and share it; all
// methods are safe for concurrent use.
type Client struct {
	baseURL      string
	platform     string
	httpClient   *http.Client
	tokens       TokenStore
	connectivity Connectivity
	logger       zerolog.Logger
	validate     *validator.Validate

	mu           sync.Mutex
	unauthorized []func()

	movies    *MovieService
	actors    *ActorService
	directors *DirectorService
	genres    *GenreService
	people    *PeopleService
	auth      *AuthService
}

// New creates a catalog API client for the given base URL
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	baseURL = strings.TrimRight(baseURL, "/")

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: base URL must include scheme and host", ErrInvalidConfig)
	}

	c := &Client{
		baseURL:  baseURL,
		platform: defaultPlatform,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger:   zerolog.Nop(),
		validate: newValidator(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.connectivity == nil {
		c.connectivity = newDialChecker(parsed)
	}

	c.movies = &MovieService{client: c}
	c.actors = &ActorService{client: c}
	c.directors = &DirectorService{client: c}
	c.genres = &GenreService{client: c}
	c.people = &PeopleService{client: c}
	c.auth = &AuthService{client: c}

	return c, nil
}

// Movies returns the movie resource service
func (c *Client) Movies() *MovieService {
	return c.movies
}

// Actors returns the actor resource service
func (c *Client) Actors() *ActorService {
	return c.actors
}

// Directors returns the director resource service
func (c *Client) Directors() *DirectorService {
	return c.directors
}

// Genres returns the genre resource service
func (c *Client) Genres() *GenreService {
	return c.genres
}

// People returns the combined people service
func (c *Client) People() *PeopleService {
	return c.people
}

// Auth returns the account service
func (c *Client) Auth() *AuthService {
	return c.auth
}

// Connectivity returns the reachability probe the client consults before
// each request, so callers can watch the same verdict the client acts on.
func (c *Client) Connectivity() Connectivity {
	return c.connectivity
}

// OnUnauthorized registers fn to run each time the server rejects the
// session. Handlers run on the request goroutine after the stored token
// has been cleared; the session layer subscribes here instead of polling
// the credential store.
func (c *Client) OnUnauthorized(fn func()) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	c.unauthorized = append(c.unauthorized, fn)
	c.mu.Unlock()
}

// Ping verifies the API is reachable and the stored credentials are
// accepted by fetching the smallest possible listing.
func (c *Client) Ping(ctx context.Context) error {
	params := url.Values{}
	params.Set("pageNumber", "1")
	params.Set("pageSize", "1")

	var page GenrePage
	if err := c.get(ctx, "/genres", params, &page); err != nil {
		return fmt.Errorf("failed to reach catalog API: %w", err)
	}
	return nil
}

// do runs one API request. It enforces the offline fast path, attaches the
// platform and bearer headers, and maps the response onto the package error
// taxonomy before decoding into out.
func (c *Client) do(ctx context.Context, method, endpoint string, params url.Values, body, out any) error {
	if !c.connectivity.Online() {
		return fmt.Errorf("%s %s: %w", method, endpoint, ErrOffline)
	}

	if params == nil {
		params = url.Values{}
	}
	// The original mobile clients sent the version both in the path and as a
	// query parameter; the backend still expects both.
	params.Set("version", apiVersion)
	requestURL := c.baseURL + apiPrefix + endpoint + "?" + params.Encode()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Platform", c.platform)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	hadToken := false
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
			hadToken = true
		}
	}

	c.logger.Debug().
		Str("method", method).
		Str("endpoint", endpoint).
		Msg("catalog API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// A 401 only means an expired session when we actually presented a
	// token. Unauthenticated calls (a failed login, say) keep the server's
	// message intact.
	if resp.StatusCode == http.StatusUnauthorized && hadToken {
		c.expireSession()
		return fmt.Errorf("%s %s: %w", method, endpoint, ErrSessionExpired)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(raw, resp.StatusCode),
			Body:       string(raw),
		}
	}

	if out == nil {
		return nil
	}
	if len(raw) == 0 {
		return &ValidationError{Endpoint: endpoint, Err: fmt.Errorf("empty response body")}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ValidationError{Endpoint: endpoint, Err: err}
	}
	return c.checkResponse(endpoint, out)
}

// expireSession clears the stored token and notifies subscribers. The
// client only does local cleanup here; reacting to the expiry is the
// session layer's job.
func (c *Client) expireSession() {
	if c.tokens != nil {
		if err := c.tokens.ClearToken(); err != nil {
			c.logger.Warn().Err(err).Msg("failed to clear stored token")
		}
	}

	c.mu.Lock()
	handlers := make([]func(), len(c.unauthorized))
	copy(handlers, c.unauthorized)
	c.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, params, nil, out)
}

func (c *Client) post(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPost, endpoint, nil, body, out)
}

func (c *Client) put(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPut, endpoint, nil, body, out)
}

func (c *Client) delete(ctx context.Context, endpoint string) error {
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil, nil)
}

// errorMessage pulls the server's message out of an error payload, falling
// back to the standard status text.
func errorMessage(raw []byte, status int) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Title   string `json:"title"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		switch {
		case payload.Message != "":
			return payload.Message
		case payload.Error != "":
			return payload.Error
		case payload.Title != "":
			return payload.Title
		}
	}
	return http.StatusText(status)
}
