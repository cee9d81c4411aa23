package cache

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/paulmbaike/movie-database-app/moviedb"
)

// Option configures a Store.
type Option func(*Store)

// WithFreshWindow sets how long a fetched value is served without a
// refetch.
func WithFreshWindow(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.fresh = d
		}
	}
}

// WithEvictWindow sets how long an unreferenced entry survives before the
// janitor drops it.
func WithEvictWindow(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.evict = d
		}
	}
}

// WithReadRetries sets how many times a failed read is retried.
func WithReadRetries(n int) Option {
	return func(s *Store) {
		if n >= 0 {
			s.readRetries = uint64(n)
		}
	}
}

// WithMutationRetries sets how many times a failed mutation is retried.
func WithMutationRetries(n int) Option {
	return func(s *Store) {
		if n >= 0 {
			s.mutationRetries = uint64(n)
		}
	}
}

// WithRetryBackoff sets the initial and maximum delay between retries.
func WithRetryBackoff(initial, maxDelay time.Duration) Option {
	return func(s *Store) {
		if initial > 0 {
			s.retryInitial = initial
		}
		if maxDelay > 0 {
			s.retryMax = maxDelay
		}
	}
}

// WithConnectivity wires a reachability probe. The store polls it in the
// background and records every transition, so an outage parks mutations
// and a recovery wakes them without anyone driving SetOnline. Share the
// probe with the API client so both sides agree on the verdict.
func WithConnectivity(probe moviedb.Connectivity) Option {
	return func(s *Store) {
		if probe != nil {
			s.probe = probe
		}
	}
}

// WithWatchInterval sets how often the connectivity probe is polled.
func WithWatchInterval(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.watch = d
		}
	}
}

// WithLogger sets the logger used for cache tracing.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithClock replaces the time source, for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithRegistry registers the cache metrics with reg.
func WithRegistry(reg prometheus.Registerer) Option {
	return func(s *Store) {
		s.metrics = newMetrics(reg)
	}
}
