package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by namespace
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riot_cache_hits_total",
			Help: "Total number of cache hits by key namespace",
		},
		[]string{"namespace"},
	)

	// CacheMisses tracks cache misses by namespace (includes corrupt payloads)
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riot_cache_misses_total",
			Help: "Total number of cache misses by key namespace",
		},
		[]string{"namespace"},
	)

	// CacheErrors tracks backend and decode failures
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riot_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "decode", "encode"
	)

	// CacheDisabled is 1 while the store runs in pass-through mode
	CacheDisabled = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "riot_cache_disabled",
			Help: "1 when the cache backend was unreachable at construction",
		},
	)
)
