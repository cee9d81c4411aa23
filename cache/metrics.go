package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts cache traffic. With a nil registerer the counters still
// work, they just are not exported anywhere.
type Metrics struct {
	Hits            prometheus.Counter
	StaleServes     prometheus.Counter
	Misses          prometheus.Counter
	Refreshes       prometheus.Counter
	Evictions       prometheus.Counter
	Invalidations   prometheus.Counter
	Retries         prometheus.Counter
	ParkedMutations prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Hits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "moviedb",
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Fresh cache hits served without a network call.",
		}),
		StaleServes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "moviedb",
			Subsystem: "cache",
			Name:      "stale_serves_total",
			Help:      "Stale values served while a background refresh ran.",
		}),
		Misses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "moviedb",
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Reads that had to go to the backend.",
		}),
		Refreshes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "moviedb",
			Subsystem: "cache",
			Name:      "refreshes_total",
			Help:      "Background refreshes that completed successfully.",
		}),
		Evictions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "moviedb",
			Subsystem: "cache",
			Name:      "evictions_total",
			Help:      "Entries dropped for going unused past the eviction window.",
		}),
		Invalidations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "moviedb",
			Subsystem: "cache",
			Name:      "invalidations_total",
			Help:      "Entries dropped after mutations or connectivity changes.",
		}),
		Retries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "moviedb",
			Subsystem: "cache",
			Name:      "retries_total",
			Help:      "Retry attempts against the backend.",
		}),
		ParkedMutations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "moviedb",
			Subsystem: "cache",
			Name:      "parked_mutations_total",
			Help:      "Mutations parked on the offline gate.",
		}),
	}
}
