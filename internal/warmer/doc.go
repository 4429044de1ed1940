// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package warmer pre-populates the recommendation cache at startup.

A run picks the TopK books by ratings_count and pushes each one through the
same cached recommendation path the HTTP handler uses, so warmed entries have
the keys and TTLs a request would produce. Requests are served while the run
is in progress.

A run is skipped outright when the cache backend does not answer a ping; it is
not retried. Individual books that fail are logged and skipped. Calls are paced
by a golang.org/x/time/rate limiter when RatePerSecond is set.

Outcomes are exported as folio_warmer_runs_total, folio_warmer_books_total and
folio_warmer_last_run_duration_seconds.
*/
package warmer
