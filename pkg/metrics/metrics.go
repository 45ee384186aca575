// Package metrics provides the central Prometheus registry reference for the
// events client. All metrics are defined in their respective packages
// (client, cache, quota) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the events client.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - events_api_requests_total{endpoint, status} (Counter): Requests by endpoint and HTTP status
//   - events_api_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - events_api_errors_total{class} (Counter): Errors by class (auth, rate_limit, client, transient, malformed)
//
// Retry Metrics (pkg/client):
//   - events_api_retries_total{error_class} (Counter): Retry attempts by error class
//   - events_api_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - events_api_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Quota Metrics (pkg/quota):
//   - events_api_quota_requests_remaining (Gauge): Requests remaining in the current quota window
//   - events_api_quota_blocks_total (Counter): Requests short-circuited on exhausted quota
//
// Cache Metrics (pkg/cache):
//   - events_cache_hits_total{tier} (Counter): Cache hits by tier (memory, durable)
//   - events_cache_misses_total (Counter): Cache misses
//   - events_cache_stale_fallbacks_total (Counter): Stale entries served on origin failure
//   - events_cache_errors_total{operation} (Counter): Store operation errors
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(events_cache_hits_total[5m])) /
//   (sum(rate(events_cache_hits_total[5m])) + sum(rate(events_cache_misses_total[5m])))
//
//   # Quota Status
//   events_api_quota_requests_remaining < 10
//
//   # Request Error Rate
//   rate(events_api_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(events_api_request_duration_seconds_bucket[5m]))
