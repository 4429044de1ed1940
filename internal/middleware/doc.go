// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package middleware provides HTTP middleware shared by the Folio router.

  - RequestID: UUID request ids, echoed in X-Request-ID and carried in the
    context for logging.Ctx together with a correlation id
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled by
    chi route pattern

Both use the func(http.Handler) http.Handler shape so they plug into chi:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)

CORS, rate limiting, compression and panic recovery come from go-chi packages
and are wired in internal/api.
*/
package middleware
