package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by tier (memory, durable)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"tier"},
	)

	// CacheMisses tracks cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "events_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// StaleFallbacks tracks stale entries served because the origin failed
	StaleFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "events_cache_stale_fallbacks_total",
			Help: "Total number of stale cache entries served as origin-failure fallback",
		},
	)

	// CacheErrors tracks store operation errors by operation
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_cache_errors_total",
			Help: "Total number of cache store operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete", "clear", "stats"
	)
)
