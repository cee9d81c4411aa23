// Package cache implements the client-side query cache between the UI
// surfaces and the catalog API client.
//
// Reads go through Store.Fetch, which deduplicates concurrent identical
// requests, serves stale-but-usable data immediately while refreshing in
// the background, and retries transient failures with exponential backoff.
// Writes go through Store.Mutate, which applies the single-retry policy and
// invalidates the affected keys on success so the next read observes the
// server's state.
//
// Cache keys combine a resource domain, an operation kind and the
// canonicalized query parameters. Listing operations and detail fetches
// live in disjoint namespaces: invalidating every movie listing never
// evicts an individual movie's detail entry.
//
// The store is network-aware. SetOnline(false) parks incoming mutations on
// an offline gate; the transition back online wakes them and invalidates
// all cached queries so everything refetches against the live backend.
// Wire a reachability probe with WithConnectivity and the store tracks
// those transitions itself, polling the probe in the background.
package cache
