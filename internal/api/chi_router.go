// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/folio/internal/middleware"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	timeout       time.Duration
}

// NewRouter creates a router. timeout bounds each request; 0 disables it.
func NewRouter(handler *Handler, mw *ChiMiddleware, timeout time.Duration) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: mw,
		timeout:       timeout,
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Applied to ALL routes in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered
	r.Use(middleware.PrometheusMetrics)
	r.Use(APISecurityHeaders())
	if router.timeout > 0 {
		r.Use(chimiddleware.Timeout(router.timeout))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	// Health and metrics
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitHealth))
		r.Get("/health", router.handler.Health)
		r.Get("/health/redis", router.handler.BackendHealth)
		r.Handle("/metrics", promhttp.Handler())
	})

	// Recommendations and cache stats
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(chimiddleware.Compress(5, "application/json"))
		r.Get("/recommend/{book_id}", router.handler.Recommend)
		r.Get("/cache/stats", router.handler.CacheStats)
	})

	router.registerBookRoutes(r)
	router.registerAdminRoutes(r)

	return r
}

func (router *Router) registerBookRoutes(r chi.Router) {
	r.Route("/books", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())

		r.With(chimiddleware.Compress(5, "application/json")).Get("/", router.handler.ListBooks)
		r.With(router.chiMiddleware.RateLimitCustom(RateLimitExport)).Get("/export.csv", router.handler.ExportBooks)
		r.Get("/{book_id}", router.handler.GetBook)

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitCustom(RateLimitWrite))
			r.Post("/", router.handler.CreateBook)
			r.Put("/{book_id}", router.handler.UpdateBook)
			r.Delete("/{book_id}", router.handler.DeleteBook)
		})
	})
}

func (router *Router) registerAdminRoutes(r chi.Router) {
	r.Route("/admin/cache", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitAdmin))

		r.Get("/stats", router.handler.AdminStats)
		r.Get("/keys", router.handler.AdminKeys)
		r.Post("/clear", router.handler.AdminClear)
		r.Delete("/book/{book_id}", router.handler.AdminInvalidateBook)
		r.Post("/invalidate/books", router.handler.AdminInvalidateBooks)
		r.Post("/reconnect", router.handler.AdminReconnect)
	})
}
