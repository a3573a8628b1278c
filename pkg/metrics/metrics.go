// Package metrics exposes the Prometheus registry used by the Riot client.
// All metrics are defined in their respective packages (client, cache,
// ratelimit) via promauto to avoid circular dependencies.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by the Riot client.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the registry read by Handler.
var Gatherer = prometheus.DefaultGatherer

// Handler serves the text exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Gate and Quota Metrics (pkg/ratelimit):
//   - riot_gate_in_flight (Gauge): Permits currently held
//   - riot_gate_wait_seconds (Histogram): Time spent waiting for a permit
//   - riot_rate_limit_used_ratio (Gauge): Highest count/limit across reported buckets
//   - riot_rate_limited_total{limit_type} (Counter): 429 responses by limit type
//
// Cache Metrics (pkg/cache):
//   - riot_cache_hits_total{namespace} (Counter): Cache hits per entity type
//   - riot_cache_misses_total{namespace} (Counter): Cache misses per entity type
//   - riot_cache_errors_total{operation} (Counter): get, set, encode and decode failures
//   - riot_cache_disabled (Gauge): 1 while running without Redis
//
// Request Metrics (pkg/client):
//   - riot_requests_total{endpoint, status} (Counter): Requests by endpoint and HTTP status
//   - riot_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - riot_errors_total{class} (Counter): Errors by class
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(riot_cache_hits_total[5m])) /
//   (sum(rate(riot_cache_hits_total[5m])) + sum(rate(riot_cache_misses_total[5m])))
//
//   # Quota pressure
//   riot_rate_limit_used_ratio > 0.8
//
//   # Request Error Rate
//   rate(riot_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(riot_request_duration_seconds_bucket[5m]))
