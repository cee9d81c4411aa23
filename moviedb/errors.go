package moviedb

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid client configuration")
	// ErrOffline indicates the request was refused before dispatch because no network is available
	ErrOffline = errors.New("no network connection")
	// ErrSessionExpired indicates the server rejected the stored credentials; the token has been cleared
	ErrSessionExpired = errors.New("session expired")
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
)

// APIError represents a non-2xx response from the catalog API
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("catalog API error: status %d: %s", e.StatusCode, e.Message)
}

// Is maps well-known status codes onto the package sentinels so callers can
// use errors.Is without inspecting status codes themselves.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsServerError checks if the error indicates a server-side failure
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500
}

// ValidationError reports a response body that decoded but does not match
// the declared schema. Kept distinct from transport errors so callers can
// tell a broken payload from a failed request, and so broken payloads are
// never cached.
type ValidationError struct {
	Endpoint string
	Fields   []string
	Err      error
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("invalid response from %s: bad fields: %s", e.Endpoint, strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("invalid response from %s: %v", e.Endpoint, e.Err)
}

// Unwrap returns the underlying decode or validation failure
func (e *ValidationError) Unwrap() error {
	return e.Err
}
