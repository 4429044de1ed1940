// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"context"
	"net/http"

	"github.com/tomtom215/folio/internal/cache"
	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/models"
)

// ListBooks handles GET /books, served from the book-list snapshot.
func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	books, hit, err := cache.GetOrCompute(r.Context(), h.cache, cache.NamespaceBookList, cache.BookListKey, 0,
		func(ctx context.Context) ([]models.CatalogBook, error) {
			return h.catalog.List(ctx)
		})
	if err != nil {
		respondAppErrorAs(w, err, "Failed to load books")
		return
	}
	setCacheHeader(w, hit)
	respondJSON(w, http.StatusOK, books)
}

// GetBook handles GET /books/{book_id}.
func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := parseBookID(r)
	if err != nil {
		respondAppError(w, err)
		return
	}

	book, hit, err := cache.GetOrCompute(r.Context(), h.cache, cache.NamespaceBookDetail, cache.BookKey(bookID), 0,
		func(ctx context.Context) (models.CatalogBook, error) {
			b, err := h.catalog.Get(ctx, bookID)
			if err != nil {
				return models.CatalogBook{}, err
			}
			return *b, nil
		})
	if err != nil {
		respondAppErrorAs(w, err, "Failed to load book")
		return
	}
	setCacheHeader(w, hit)
	respondJSON(w, http.StatusOK, book)
}

// CreateBook handles POST /books.
func (h *Handler) CreateBook(w http.ResponseWriter, r *http.Request) {
	in, err := decodeBookInput(r)
	if err != nil {
		respondAppError(w, err)
		return
	}

	book, err := h.catalog.Create(r.Context(), in)
	if err != nil {
		respondAppError(w, err)
		return
	}
	h.invalidateCatalog(r.Context(), book.BookID)

	w.Header().Set("Location", "/books/"+cache.BookKey(book.BookID))
	respondJSON(w, http.StatusCreated, book)
}

// UpdateBook handles PUT /books/{book_id}.
func (h *Handler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := parseBookID(r)
	if err != nil {
		respondAppError(w, err)
		return
	}
	in, err := decodeBookInput(r)
	if err != nil {
		respondAppError(w, err)
		return
	}

	book, err := h.catalog.Update(r.Context(), bookID, in)
	if err != nil {
		respondAppError(w, err)
		return
	}
	h.invalidateCatalog(r.Context(), bookID)
	respondJSON(w, http.StatusOK, book)
}

// DeleteBook handles DELETE /books/{book_id}.
func (h *Handler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := parseBookID(r)
	if err != nil {
		respondAppError(w, err)
		return
	}

	if err := h.catalog.Delete(r.Context(), bookID); err != nil {
		respondAppError(w, err)
		return
	}
	h.invalidateCatalog(r.Context(), bookID)
	w.WriteHeader(http.StatusNoContent)
}

// ExportBooks handles GET /books/export.csv. Rows are streamed, so a failure
// after the first flush truncates the body instead of changing the status.
func (h *Handler) ExportBooks(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="books.csv"`)

	n, err := h.catalog.ExportCSV(r.Context(), w)
	if err != nil {
		if n == 0 {
			w.Header().Del("Content-Disposition")
			respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to export catalog", err)
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Int("rows_written", n).Msg("Catalog export interrupted")
		return
	}
	logging.Ctx(r.Context()).Debug().Int("rows", n).Msg("Catalog exported")
}

// invalidateCatalog drops the cached views of the catalog touched by a write
// to bookID. A failing backend is logged; the write itself already succeeded.
func (h *Handler) invalidateCatalog(ctx context.Context, bookID int64) {
	if err := h.cache.InvalidateNamespace(ctx, cache.NamespaceBookList); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to invalidate book list cache")
	}
	if err := h.cache.Invalidate(ctx, cache.NamespaceBookDetail, cache.BookKey(bookID)); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int64("book_id", bookID).Msg("Failed to invalidate book detail cache")
	}
}
