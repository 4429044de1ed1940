// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"namespace"}, // recommendations, list, detail
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"namespace"},
	)

	CacheBackendErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_cache_backend_errors_total",
			Help: "Total number of cache backend errors treated as misses or skipped writes",
		},
		[]string{"backend", "operation"},
	)

	CacheSerializationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_cache_serialization_errors_total",
			Help: "Total number of cache payload encode/decode failures",
		},
		[]string{"direction"}, // encode, decode
	)

	CacheComputeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "folio_cache_compute_duration_seconds",
			Help:    "Duration of miss-path computations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"namespace"},
	)

	CacheSharedComputes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_cache_shared_computes_total",
			Help: "Misses served by another caller's in-flight computation",
		},
		[]string{"namespace"},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_cache_invalidations_total",
			Help: "Total number of keys invalidated after catalog writes",
		},
		[]string{"namespace"},
	)

	// Similarity Index Metrics
	IndexBooks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "folio_index_books",
			Help: "Number of books in the loaded similarity index",
		},
	)

	IndexQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "folio_index_query_duration_seconds",
			Help:    "Nearest-neighbor query duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	// Recommendation Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_recommend_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"result"}, // success, not_found, error
	)

	// Warmer Metrics
	WarmerBooks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_warmer_books_total",
			Help: "Books processed by the cache warmer",
		},
		[]string{"result"}, // warmed, failed
	)

	WarmerRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_warmer_runs_total",
			Help: "Cache warmer runs",
		},
		[]string{"result"}, // completed, skipped
	)

	WarmerLastRunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "folio_warmer_last_run_duration_seconds",
			Help: "Duration of the most recent warmer run",
		},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordCacheLookup records a hit or miss for a cache namespace.
func RecordCacheLookup(namespace string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(namespace).Inc()
		return
	}
	CacheMisses.WithLabelValues(namespace).Inc()
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordWarmerRun records the outcome of a warmer run.
func RecordWarmerRun(warmed, failed int, duration time.Duration, skipped bool) {
	if skipped {
		WarmerRuns.WithLabelValues("skipped").Inc()
		return
	}
	WarmerRuns.WithLabelValues("completed").Inc()
	WarmerBooks.WithLabelValues("warmed").Add(float64(warmed))
	WarmerBooks.WithLabelValues("failed").Add(float64(failed))
	WarmerLastRunDuration.Set(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
