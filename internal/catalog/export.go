// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/tomtom215/folio/internal/metrics"
)

// CSVHeader is the first row written by ExportCSV.
var CSVHeader = []string{
	"book_id", "title", "original_title", "authors", "year",
	"rating", "ratings_count", "image_url", "created_at", "updated_at",
}

// ExportCSV streams the catalog to w as CSV ordered by book_id.
// Rows are written as they are read, so memory use does not grow with the catalog.
func (s *Store) ExportCSV(ctx context.Context, w io.Writer) (int, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := s.conn.QueryContext(ctx, "SELECT "+bookColumns+" FROM books ORDER BY book_id")
	if err != nil {
		metrics.RecordDBQuery("export", tableBooks, time.Since(start), err)
		return 0, fmt.Errorf("failed to query books for export: %w", err)
	}
	defer closeQuietly(rows)

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return 0, err
	}

	n := 0
	record := make([]string, len(CSVHeader))
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return n, fmt.Errorf("failed to scan book: %w", err)
		}
		record[0] = strconv.FormatInt(b.BookID, 10)
		record[1] = b.Title
		record[2] = b.OriginalTitle
		record[3] = b.Authors
		record[4] = strconv.Itoa(b.Year)
		record[5] = strconv.FormatFloat(b.Rating, 'f', -1, 64)
		record[6] = strconv.FormatInt(b.RatingsCount, 10)
		record[7] = b.ImageURL
		record[8] = b.CreatedAt.Format(time.RFC3339)
		record[9] = b.UpdatedAt.Format(time.RFC3339)
		if err := cw.Write(record); err != nil {
			return n, err
		}
		n++
	}
	err = rows.Err()
	metrics.RecordDBQuery("export", tableBooks, time.Since(start), err)
	if err != nil {
		return n, fmt.Errorf("failed to iterate books: %w", err)
	}

	cw.Flush()
	return n, cw.Error()
}
