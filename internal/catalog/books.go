// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/folio/internal/apperrors"
	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/metrics"
	"github.com/tomtom215/folio/internal/models"
)

const bookColumns = `book_id, title, original_title, authors, "year", rating, ratings_count, image_url, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (models.CatalogBook, error) {
	var b models.CatalogBook
	err := row.Scan(
		&b.BookID, &b.Title, &b.OriginalTitle, &b.Authors, &b.Year,
		&b.Rating, &b.RatingsCount, &b.ImageURL, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return models.CatalogBook{}, err
	}
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()
	return b, nil
}

// Count returns the number of books in the catalog.
func (s *Store) Count(ctx context.Context) (int64, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	var n int64
	err := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM books").Scan(&n)
	metrics.RecordDBQuery("count", tableBooks, time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	return n, nil
}

// List returns every book ordered by book_id.
func (s *Store) List(ctx context.Context) ([]models.CatalogBook, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := s.conn.QueryContext(ctx, "SELECT "+bookColumns+" FROM books ORDER BY book_id")
	if err != nil {
		metrics.RecordDBQuery("list", tableBooks, time.Since(start), err)
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer closeQuietly(rows)

	books := make([]models.CatalogBook, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			metrics.RecordDBQuery("list", tableBooks, time.Since(start), err)
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}
	err = rows.Err()
	metrics.RecordDBQuery("list", tableBooks, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to iterate books: %w", err)
	}
	return books, nil
}

// Get returns one book by id.
func (s *Store) Get(ctx context.Context, bookID int64) (*models.CatalogBook, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	b, err := scanBook(s.conn.QueryRowContext(ctx, "SELECT "+bookColumns+" FROM books WHERE book_id = ?", bookID))
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery("get", tableBooks, time.Since(start), nil)
		return nil, apperrors.NotFound("catalog.Get", "book %d not found", bookID)
	}
	metrics.RecordDBQuery("get", tableBooks, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to get book %d: %w", bookID, err)
	}
	return &b, nil
}

// Create inserts a book. A zero BookID is assigned max(book_id)+1.
func (s *Store) Create(ctx context.Context, in *models.BookInput) (*models.CatalogBook, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id := in.BookID
	if id == 0 {
		if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(book_id), 0) + 1 FROM books").Scan(&id); err != nil {
			metrics.RecordDBQuery("insert", tableBooks, time.Since(start), err)
			return nil, fmt.Errorf("failed to allocate book id: %w", err)
		}
	}

	now := time.Now().UTC()
	b := models.CatalogBook{Book: in.ToBook(id), CreatedAt: now, UpdatedAt: now}

	_, err = tx.ExecContext(ctx, `INSERT INTO books (`+bookColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.BookID, b.Title, b.OriginalTitle, b.Authors, b.Year,
		b.Rating, b.RatingsCount, b.ImageURL, b.CreatedAt, b.UpdatedAt,
	)
	if err == nil {
		err = tx.Commit()
	}
	metrics.RecordDBQuery("insert", tableBooks, time.Since(start), err)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.New(apperrors.KindConflict, "catalog.Create", fmt.Errorf("book %d already exists", id))
		}
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	logging.Debug().Int64("book_id", id).Msg("Book created")
	return &b, nil
}

// Update replaces every attribute of an existing book.
func (s *Store) Update(ctx context.Context, bookID int64, in *models.BookInput) (*models.CatalogBook, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	now := time.Now().UTC()
	res, err := s.conn.ExecContext(ctx, `UPDATE books SET
		title = ?, original_title = ?, authors = ?, "year" = ?,
		rating = ?, ratings_count = ?, image_url = ?, updated_at = ?
	WHERE book_id = ?`,
		in.Title, in.OriginalTitle, in.Authors, in.Year,
		in.Rating, in.RatingsCount, in.ImageURL, now, bookID,
	)
	metrics.RecordDBQuery("update", tableBooks, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to update book %d: %w", bookID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperrors.NotFound("catalog.Update", "book %d not found", bookID)
	}

	return s.Get(ctx, bookID)
}

// Delete removes a book.
func (s *Store) Delete(ctx context.Context, bookID int64) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	res, err := s.conn.ExecContext(ctx, "DELETE FROM books WHERE book_id = ?", bookID)
	metrics.RecordDBQuery("delete", tableBooks, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to delete book %d: %w", bookID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("catalog.Delete", "book %d not found", bookID)
	}
	return nil
}

// SeedIfEmpty inserts books when the catalog has none. It returns the number
// of rows inserted, 0 if the table already had data.
func (s *Store) SeedIfEmpty(ctx context.Context, books []models.Book) (int, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 || len(books) == 0 {
		return 0, nil
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO books (`+bookColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare seed insert: %w", err)
	}
	defer closeQuietly(stmt)

	now := time.Now().UTC()
	for i := range books {
		b := &books[i]
		if _, err := stmt.ExecContext(ctx,
			b.BookID, b.Title, b.OriginalTitle, b.Authors, b.Year,
			b.Rating, b.RatingsCount, b.ImageURL, now, now,
		); err != nil {
			metrics.RecordDBQuery("seed", tableBooks, time.Since(start), err)
			return 0, fmt.Errorf("failed to seed book %d: %w", b.BookID, err)
		}
	}
	err = tx.Commit()
	metrics.RecordDBQuery("seed", tableBooks, time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to commit seed: %w", err)
	}

	logging.Info().Int("books", len(books)).Dur("duration", time.Since(start)).Msg("Catalog seeded from index snapshot")
	return len(books), nil
}
