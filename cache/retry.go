package cache

import (
	"errors"
	"net/http"

	"github.com/cenkalti/backoff/v4"

	"github.com/paulmbaike/movie-database-app/moviedb"
)

// permanent reports whether err cannot be fixed by retrying. Client errors
// are permanent except timeouts and throttling; schema failures, missing
// resources and expired sessions never heal on their own. An offline
// verdict is permanent for the retry loop too: reads fail fast and
// mutations park instead of burning backoff budget.
func permanent(err error) bool {
	if errors.Is(err, moviedb.ErrOffline) ||
		errors.Is(err, moviedb.ErrSessionExpired) ||
		errors.Is(err, moviedb.ErrNotFound) {
		return true
	}

	var vErr *moviedb.ValidationError
	if errors.As(err, &vErr) {
		return true
	}

	var apiErr *moviedb.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusRequestTimeout, http.StatusTooManyRequests:
			return false
		}
		return apiErr.StatusCode >= 400 && apiErr.StatusCode < 500
	}

	return false
}

// newBackOff builds one exponential backoff sequence. Attempt counts are
// bounded by WithMaxRetries at the call sites, not by elapsed time.
func (s *Store) newBackOff() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.retryInitial
	bo.MaxInterval = s.retryMax
	bo.MaxElapsedTime = 0
	return bo
}
