// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/folio/internal/config"
	"github.com/tomtom215/folio/internal/logging"
)

const (
	tableBooks = "books"

	// defaultQueryTimeout bounds queries whose context has no deadline.
	defaultQueryTimeout = 30 * time.Second
)

const schema = `
CREATE TABLE IF NOT EXISTS books (
	book_id        BIGINT PRIMARY KEY,
	title          VARCHAR NOT NULL,
	original_title VARCHAR NOT NULL DEFAULT '',
	authors        VARCHAR NOT NULL,
	"year"         INTEGER NOT NULL DEFAULT 0,
	rating         DOUBLE NOT NULL DEFAULT 0,
	ratings_count  BIGINT NOT NULL DEFAULT 0,
	image_url      VARCHAR NOT NULL DEFAULT '',
	created_at     TIMESTAMP NOT NULL,
	updated_at     TIMESTAMP NOT NULL
)`

// Store wraps the DuckDB connection holding the book catalog.
type Store struct {
	conn *sql.DB
	path string
}

// Open opens (or creates) the catalog database and ensures the schema.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (*Store, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}
	maxMemory := cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = "1GB"
	}

	inMemory := cfg.Path == "" || cfg.Path == ":memory:"
	path := cfg.Path
	if inMemory {
		path = ":memory:"
	} else if dir := filepath.Dir(path); dir != "" && dir != "." {
		// 0750 per gosec G301
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	// Extensions are not needed; disabling autoload avoids network fetches at startup
	connStr := fmt.Sprintf("%s?threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		path, numThreads, maxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{conn: conn, path: path}
	s.configureConnectionPool()

	sctx, cancel := ensureContext(ctx)
	defer cancel()
	if _, err := conn.ExecContext(sctx, schema); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logging.Info().Str("path", path).Int("threads", numThreads).Str("max_memory", maxMemory).Msg("Catalog database opened")
	return s, nil
}

func (s *Store) configureConnectionPool() {
	s.conn.SetMaxOpenConns(runtime.NumCPU())
	s.conn.SetMaxIdleConns(2)
	s.conn.SetConnMaxLifetime(time.Hour)
	s.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// Ping checks if the database connection is alive
func (s *Store) Ping(ctx context.Context) error {
	if s.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return s.conn.PingContext(ctx)
}

// Close checkpoints file-backed databases and closes the connection.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	if s.path != ":memory:" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := s.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
			logging.Warn().Err(err).Msg("Failed to checkpoint database before close")
		}
		cancel()
	}
	return s.conn.Close()
}

// ensureContext applies the default timeout when ctx has no deadline.
func ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() // best-effort cleanup
	}
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// DuckDB reports "Constraint Error: Duplicate key ..." for primary key collisions
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "unique constraint") ||
		strings.Contains(errMsg, "duplicate key") ||
		strings.Contains(errMsg, "primary key constraint")
}
