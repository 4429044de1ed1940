// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package api serves Folio's HTTP interface on a chi router.

Endpoints:

	GET    /recommend/{book_id}?n=     similar books, cache-aside
	GET    /cache/stats                hit/miss counters
	GET    /health/redis               cache backend health (PING + INFO)
	GET    /health                     service liveness
	GET    /metrics                    Prometheus exposition

	GET    /books                      catalog snapshot (cached, book:list:all)
	GET    /books/{book_id}            one book (cached, book:detail:<id>)
	POST   /books                      create
	PUT    /books/{book_id}            replace
	DELETE /books/{book_id}            delete
	GET    /books/export.csv           streamed CSV export

	GET    /admin/cache/stats          counters and backend health
	GET    /admin/cache/keys           every key in the backend
	POST   /admin/cache/clear          drop all entries and counters
	DELETE /admin/cache/book/{book_id} drop one book's recommendations
	POST   /admin/cache/invalidate/books
	POST   /admin/cache/reconnect      rebuild the backend client

Successful responses carry the bare payload. Errors and /health use the
models.APIResponse envelope with a machine-readable code:

	NotFound            404 NOT_FOUND
	Validation          400 VALIDATION_ERROR
	Conflict            409 CONFLICT
	UpstreamCompute     500 COMPUTE_ERROR
	BackendUnavailable  never surfaced on the read path; 500 CACHE_ERROR on admin calls

Cache-served responses set X-Cache: HIT or MISS.

Catalog writes drop the book-list snapshot and the book's detail entry. They
never touch the similarity index, so a new book has no recommendations until
the index is rebuilt.

Middleware order: request id, real IP, panic recovery, CORS, Prometheus,
security headers, request timeout, then per-group httprate limits.
*/
package api
