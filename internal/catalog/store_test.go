// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package catalog

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/folio/internal/apperrors"
	"github.com/tomtom215/folio/internal/config"
	"github.com/tomtom215/folio/internal/models"
)

// testDBSemaphore serializes DuckDB use across tests; concurrent CGO calls
// can hang under CI resource pressure.
var testDBSemaphore = make(chan struct{}, 1)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	cfg := &config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB", Threads: 1}

	type result struct {
		s   *Store
		err error
	}
	resultCh := make(chan result, 1)
	go func() {
		s, err := Open(context.Background(), cfg)
		resultCh <- result{s: s, err: err}
	}()

	select {
	case r := <-resultCh:
		if r.err != nil {
			t.Fatalf("Open() error = %v", r.err)
		}
		t.Cleanup(func() {
			if err := r.s.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
		})
		return r.s
	case <-time.After(120 * time.Second):
		t.Fatal("timeout opening test database")
		return nil
	}
}

var seedBooks = []models.Book{
	{BookID: 1, Title: "The Hunger Games", Authors: "Suzanne Collins", Year: 2008, Rating: 4.34, RatingsCount: 4780653},
	{BookID: 2, Title: "Harry Potter and the Sorcerer's Stone", Authors: "J.K. Rowling, Mary GrandPré", Year: 1997, Rating: 4.44, RatingsCount: 4602479},
	{BookID: 3, Title: "Twilight", Authors: "Stephenie Meyer", Year: 2005, Rating: 3.57, RatingsCount: 3866839},
	{BookID: 4, Title: "To Kill a Mockingbird", Authors: "Harper Lee", Year: 1960, Rating: 4.25, RatingsCount: 3866839},
}

func TestSeedIfEmpty(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	n, err := s.SeedIfEmpty(ctx, seedBooks)
	if err != nil {
		t.Fatalf("SeedIfEmpty() error = %v", err)
	}
	if n != len(seedBooks) {
		t.Errorf("SeedIfEmpty() = %d, want %d", n, len(seedBooks))
	}

	n, err = s.SeedIfEmpty(ctx, seedBooks)
	if err != nil {
		t.Fatalf("second SeedIfEmpty() error = %v", err)
	}
	if n != 0 {
		t.Errorf("second SeedIfEmpty() = %d, want 0", n)
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != int64(len(seedBooks)) {
		t.Errorf("Count() = %d, want %d", count, len(seedBooks))
	}
}

func TestListOrderedByID(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	reversed := []models.Book{seedBooks[3], seedBooks[1], seedBooks[2], seedBooks[0]}
	if _, err := s.SeedIfEmpty(ctx, reversed); err != nil {
		t.Fatalf("SeedIfEmpty() error = %v", err)
	}

	books, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(books) != 4 {
		t.Fatalf("List() returned %d books, want 4", len(books))
	}
	for i, b := range books {
		if b.BookID != int64(i+1) {
			t.Errorf("books[%d].BookID = %d, want %d", i, b.BookID, i+1)
		}
	}
	if books[1].Authors != "J.K. Rowling, Mary GrandPré" {
		t.Errorf("authors = %q", books[1].Authors)
	}
}

func TestListEmpty(t *testing.T) {
	s := setupTestStore(t)

	books, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if books == nil || len(books) != 0 {
		t.Errorf("List() = %v, want empty non-nil slice", books)
	}
}

func TestCRUD(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if _, err := s.SeedIfEmpty(ctx, seedBooks); err != nil {
		t.Fatalf("SeedIfEmpty() error = %v", err)
	}

	created, err := s.Create(ctx, &models.BookInput{Title: "Dune", Authors: "Frank Herbert", Year: 1965, Rating: 4.2})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.BookID != 5 {
		t.Errorf("Create() assigned id %d, want 5", created.BookID)
	}
	if created.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}

	got, err := s.Get(ctx, 5)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "Dune" || got.Authors != "Frank Herbert" || got.Year != 1965 {
		t.Errorf("Get() = %+v", got.Book)
	}

	updated, err := s.Update(ctx, 5, &models.BookInput{Title: "Dune Messiah", Authors: "Frank Herbert", Year: 1969, Rating: 3.9})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Title != "Dune Messiah" || updated.Year != 1969 {
		t.Errorf("Update() = %+v", updated.Book)
	}

	if err := s.Delete(ctx, 5); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, 5); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want not found", err)
	}
}

func TestCreateExplicitIDConflict(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, &models.BookInput{BookID: 42, Title: "A", Authors: "B"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	_, err := s.Create(ctx, &models.BookInput{BookID: 42, Title: "C", Authors: "D"})
	if apperrors.KindOf(err) != apperrors.KindConflict {
		t.Errorf("duplicate Create() error = %v, want conflict", err)
	}
}

func TestMissingBook(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		fn   func() error
	}{
		{"get", func() error { _, err := s.Get(ctx, 999); return err }},
		{"update", func() error {
			_, err := s.Update(ctx, 999, &models.BookInput{Title: "x", Authors: "y"})
			return err
		}},
		{"delete", func() error { return s.Delete(ctx, 999) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			if apperrors.KindOf(err) != apperrors.KindNotFound {
				t.Errorf("error = %v, want not found", err)
			}
		})
	}
}

func TestExportCSV(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if _, err := s.SeedIfEmpty(ctx, seedBooks[:2]); err != nil {
		t.Fatalf("SeedIfEmpty() error = %v", err)
	}

	var buf bytes.Buffer
	n, err := s.ExportCSV(ctx, &buf)
	if err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	if n != 2 {
		t.Errorf("ExportCSV() = %d rows, want 2", n)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d CSV records, want 3", len(records))
	}
	if records[0][0] != "book_id" || records[0][3] != "authors" {
		t.Errorf("header = %v", records[0])
	}
	if records[2][0] != "2" || records[2][3] != "J.K. Rowling, Mary GrandPré" {
		t.Errorf("row = %v", records[2])
	}
}

func TestOpenFileBacked(t *testing.T) {
	testDBSemaphore <- struct{}{}
	defer func() { <-testDBSemaphore }()

	path := filepath.Join(t.TempDir(), "nested", "catalog.duckdb")
	ctx := context.Background()

	s, err := Open(ctx, &config.DatabaseConfig{Path: path, Threads: 1})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := s.SeedIfEmpty(ctx, seedBooks[:1]); err != nil {
		t.Fatalf("SeedIfEmpty() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s, err = Open(ctx, &config.DatabaseConfig{Path: path, Threads: 1})
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() after reopen = %d, want 1", count)
	}
}

func TestIsUniqueConstraintError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("Constraint Error: Duplicate key \"book_id: 1\" violates primary key constraint"), true},
		{errors.New("UNIQUE constraint failed"), true},
		{errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		if got := isUniqueConstraintError(tt.err); got != tt.want {
			t.Errorf("isUniqueConstraintError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
