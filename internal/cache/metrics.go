package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	hits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mailpulse_cache_hits_total",
		Help: "Query cache hits by TTL tier.",
	}, []string{"tier"})

	misses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mailpulse_cache_misses_total",
		Help: "Query cache misses by TTL tier.",
	}, []string{"tier"})

	storeErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mailpulse_cache_errors_total",
		Help: "Cache store failures absorbed by pass-through degradation.",
	})

	invalidations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mailpulse_cache_invalidations_total",
		Help: "Entries removed by explicit invalidation.",
	})
)
