package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/paulmbaike/movie-database-app/moviedb"
)

// Cache timing defaults. Fetched data is served as-is inside the fresh
// window; entries nobody touches within the eviction window are dropped.
const (
	defaultFreshWindow = 5 * time.Minute
	defaultEvictWindow = 10 * time.Minute

	defaultReadRetries     = 3
	defaultMutationRetries = 1
	defaultRetryInitial    = 500 * time.Millisecond
	defaultRetryMax        = 30 * time.Second

	janitorInterval      = time.Minute
	defaultWatchInterval = 5 * time.Second
)

// FetchFunc loads the value for a key from the backend.
type FetchFunc func(ctx context.Context) (any, error)

// Mutation classifies a write so invalidation can target the right keys.
type Mutation int

const (
	MutationCreate Mutation = iota
	MutationUpdate
	MutationDelete
)

type entry struct {
	value      any
	fetchedAt  time.Time
	lastAccess time.Time
	refreshing bool
}

// Store is the in-process query cache. Construct it with New and Close it
// when done; all methods are safe for concurrent use.
type Store struct {
	fresh           time.Duration
	evict           time.Duration
	readRetries     uint64
	mutationRetries uint64
	retryInitial    time.Duration
	retryMax        time.Duration
	logger          zerolog.Logger
	clock           func() time.Time
	metrics         *Metrics
	probe           moviedb.Connectivity
	watch           time.Duration

	group singleflight.Group

	mu      sync.Mutex
	entries map[Key]*entry
	online  bool
	gate    chan struct{}
	closed  bool

	done chan struct{}
	wg   sync.WaitGroup
}

// New creates a cache store and starts its background loops: the eviction
// janitor always, the connectivity watcher when a probe is wired.
func New(opts ...Option) *Store {
	gate := make(chan struct{})
	close(gate)

	s := &Store{
		fresh:           defaultFreshWindow,
		evict:           defaultEvictWindow,
		readRetries:     defaultReadRetries,
		mutationRetries: defaultMutationRetries,
		retryInitial:    defaultRetryInitial,
		retryMax:        defaultRetryMax,
		logger:          zerolog.Nop(),
		clock:           time.Now,
		entries:         make(map[Key]*entry),
		online:          true,
		gate:            gate,
		watch:           defaultWatchInterval,
		done:            make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = newMetrics(nil)
	}

	s.wg.Add(1)
	go s.janitor()
	if s.probe != nil {
		s.wg.Add(1)
		go s.watchConnectivity()
	}
	return s
}

// Close stops the background loops, waits for in-flight refreshes and
// releases parked mutations. Close is idempotent.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	close(s.done)
	s.wg.Wait()
}

// Fetch returns the cached value for key or loads it with fn. Fresh hits
// never touch the network; stale hits return the cached value immediately
// and refresh in the background; concurrent misses for the same key
// collapse into a single backend call.
func (s *Store) Fetch(ctx context.Context, key Key, fn FetchFunc) (any, error) {
	now := s.clock()

	s.mu.Lock()
	if e, ok := s.entries[key]; ok {
		e.lastAccess = now
		value := e.value

		if now.Sub(e.fetchedAt) < s.fresh {
			s.mu.Unlock()
			s.metrics.Hits.Inc()
			return value, nil
		}

		// Stale: serve what we have, refresh behind the caller's back.
		if !e.refreshing && !s.closed {
			e.refreshing = true
			s.wg.Add(1)
			go s.refresh(key, fn)
		}
		s.mu.Unlock()
		s.metrics.StaleServes.Inc()
		return value, nil
	}
	s.mu.Unlock()

	s.metrics.Misses.Inc()
	return s.load(ctx, key, fn)
}

// Mutate runs a write through the cache bookkeeping. The mutation is
// retried per the mutation policy on transient failures; an offline
// failure parks it until connectivity returns. On success the affected
// keys are invalidated so the next read observes the server's state.
func (s *Store) Mutate(ctx context.Context, domain string, kind Mutation, id int, fn FetchFunc) (any, error) {
	for {
		if err := s.waitOnline(ctx); err != nil {
			return nil, err
		}

		value, err := s.runMutation(ctx, fn)
		if err != nil {
			if errors.Is(err, moviedb.ErrOffline) {
				// The link dropped between the gate check and the call.
				// Park and go again once connectivity returns.
				s.SetOnline(false)
				continue
			}
			return nil, err
		}

		s.invalidateAfter(domain, kind, id)
		return value, nil
	}
}

// SetOnline records a connectivity transition. Coming back online
// invalidates everything cached while disconnected and wakes mutations
// parked on the offline gate.
func (s *Store) SetOnline(online bool) {
	s.mu.Lock()
	if online == s.online {
		s.mu.Unlock()
		return
	}
	s.online = online
	if online {
		close(s.gate)
	} else {
		s.gate = make(chan struct{})
	}
	s.mu.Unlock()

	s.logger.Debug().Bool("online", online).Msg("connectivity changed")
	if online {
		s.InvalidateAll()
	}
}

// Online reports the last recorded connectivity state.
func (s *Store) Online() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online
}

// InvalidateLists drops every cached listing for a domain, leaving detail
// entries alone.
func (s *Store) InvalidateLists(domain string) {
	s.mu.Lock()
	n := 0
	for key := range s.entries {
		if key.Domain == domain && !key.isDetail() {
			delete(s.entries, key)
			n++
		}
	}
	s.mu.Unlock()

	if n > 0 {
		s.metrics.Invalidations.Add(float64(n))
	}
}

// InvalidateDetail drops one cached entity.
func (s *Store) InvalidateDetail(domain string, id int) {
	key := DetailKey(domain, id)

	s.mu.Lock()
	_, ok := s.entries[key]
	delete(s.entries, key)
	s.mu.Unlock()

	if ok {
		s.metrics.Invalidations.Inc()
	}
}

// InvalidateAll empties the cache.
func (s *Store) InvalidateAll() {
	s.mu.Lock()
	n := len(s.entries)
	s.entries = make(map[Key]*entry)
	s.mu.Unlock()

	if n > 0 {
		s.metrics.Invalidations.Add(float64(n))
	}
}

// Len reports how many entries are cached.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// load fetches key's value through singleflight so concurrent identical
// reads share one backend call. The shared fetch runs detached from any
// single caller's context: a caller walking away does not abort the flight
// for everyone else, its result is simply discarded.
func (s *Store) load(ctx context.Context, key Key, fn FetchFunc) (any, error) {
	ch := s.group.DoChan(key.String(), func() (any, error) {
		value, err := s.fetchWithRetry(fn)
		if err != nil {
			return nil, err
		}
		s.put(key, value)
		return value, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// refresh re-fetches a stale key in the background. The stale value keeps
// being served until the refresh lands; a failed refresh keeps it in place.
// Close waits for in-flight refreshes, so none outlives the store.
func (s *Store) refresh(key Key, fn FetchFunc) {
	defer s.wg.Done()

	_, err, _ := s.group.Do(key.String(), func() (any, error) {
		value, err := s.fetchWithRetry(fn)
		if err != nil {
			return nil, err
		}
		s.put(key, value)
		return value, nil
	})

	s.mu.Lock()
	if e, ok := s.entries[key]; ok {
		e.refreshing = false
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Debug().Err(err).Str("key", key.String()).Msg("background refresh failed")
		return
	}
	s.metrics.Refreshes.Inc()
}

// fetchWithRetry runs fn under the read retry policy. Failed fetches never
// populate the cache.
func (s *Store) fetchWithRetry(fn FetchFunc) (any, error) {
	var value any
	operation := func() error {
		v, err := fn(context.Background())
		if err != nil {
			if permanent(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		value = v
		return nil
	}

	bo := backoff.WithMaxRetries(s.newBackOff(), s.readRetries)
	notify := func(err error, delay time.Duration) {
		s.metrics.Retries.Inc()
		s.logger.Debug().Err(err).Dur("delay", delay).Msg("read failed, retrying")
	}
	if err := backoff.RetryNotify(operation, bo, notify); err != nil {
		return nil, err
	}
	return value, nil
}

// runMutation runs fn under the mutation retry policy.
func (s *Store) runMutation(ctx context.Context, fn FetchFunc) (any, error) {
	var value any
	operation := func() error {
		v, err := fn(ctx)
		if err != nil {
			if permanent(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		value = v
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(s.newBackOff(), s.mutationRetries), ctx)
	notify := func(err error, delay time.Duration) {
		s.metrics.Retries.Inc()
		s.logger.Debug().Err(err).Dur("delay", delay).Msg("mutation failed, retrying")
	}
	if err := backoff.RetryNotify(operation, bo, notify); err != nil {
		return nil, err
	}
	return value, nil
}

// put records a successfully fetched value.
func (s *Store) put(key Key, value any) {
	now := s.clock()
	s.mu.Lock()
	s.entries[key] = &entry{value: value, fetchedAt: now, lastAccess: now}
	s.mu.Unlock()
}

// invalidateAfter applies the post-mutation rules: every mutation drops the
// domain's listings; updates and deletes also drop the entity's detail
// entry. A create has no detail entry yet.
func (s *Store) invalidateAfter(domain string, kind Mutation, id int) {
	s.InvalidateLists(domain)
	if kind == MutationUpdate || kind == MutationDelete {
		s.InvalidateDetail(domain, id)
	}
}

// waitOnline blocks until the store is marked online, the context ends or
// the store closes.
func (s *Store) waitOnline(ctx context.Context) error {
	s.mu.Lock()
	online := s.online
	gate := s.gate
	s.mu.Unlock()

	if online {
		return nil
	}

	s.metrics.ParkedMutations.Inc()
	s.logger.Info().Msg("offline, mutation parked until connectivity returns")

	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return ErrClosed
	}
}

func (s *Store) janitor() {
	defer s.wg.Done()

	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictStale()
		case <-s.done:
			return
		}
	}
}

// watchConnectivity keeps the online flag in step with the reachability
// probe. SetOnline ignores repeat verdicts, so only transitions do work:
// an outage parks new mutations and a recovery invalidates the cache and
// wakes the parked ones without anyone calling SetOnline by hand.
func (s *Store) watchConnectivity() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.watch)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.SetOnline(s.probe.Online())
		case <-s.done:
			return
		}
	}
}

// evictStale drops entries nobody has touched within the eviction window.
func (s *Store) evictStale() {
	now := s.clock()

	s.mu.Lock()
	n := 0
	for key, e := range s.entries {
		if now.Sub(e.lastAccess) >= s.evict {
			delete(s.entries, key)
			n++
		}
	}
	s.mu.Unlock()

	if n > 0 {
		s.metrics.Evictions.Add(float64(n))
		s.logger.Debug().Int("count", n).Msg("evicted unused cache entries")
	}
}
