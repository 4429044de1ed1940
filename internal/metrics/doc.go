// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package metrics provides Prometheus metrics for the recommendation service.

All collectors are registered on the default registry through promauto and are
exposed at /metrics in Prometheus text format:

	curl http://localhost:8000/metrics

# Available Metrics

Cache:
  - folio_cache_hits_total / folio_cache_misses_total (namespace)
  - folio_cache_backend_errors_total (backend, operation)
  - folio_cache_serialization_errors_total (direction)
  - folio_cache_compute_duration_seconds (namespace)
  - folio_cache_shared_computes_total (namespace)
  - folio_cache_invalidations_total (namespace)

The hit and miss counters mirror the backend-held statistics counters but are
process-local: they reset on restart and are never cleared by the admin API.

Index and recommendations:
  - folio_index_books
  - folio_index_query_duration_seconds
  - folio_recommend_requests_total (result)

Warmer:
  - folio_warmer_books_total (result)
  - folio_warmer_runs_total (result)
  - folio_warmer_last_run_duration_seconds

Database (DuckDB catalog):
  - duckdb_query_duration_seconds (operation, table)
  - duckdb_query_errors_total (operation, table, error_type)

API:
  - api_requests_total (method, endpoint, status_code)
  - api_request_duration_seconds (method, endpoint)
  - api_active_requests
  - api_rate_limit_hits_total (endpoint)

Circuit breaker:
  - circuit_breaker_state (name)
  - circuit_breaker_requests_total (name, result)
  - circuit_breaker_state_transitions_total (name, from_state, to_state)
*/
package metrics
