// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package index

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tomtom215/folio/internal/apperrors"
	"github.com/tomtom215/folio/internal/metrics"
	"github.com/tomtom215/folio/internal/models"
)

// Record is one book in an index artifact.
type Record struct {
	models.Book
	Vector []float32 `json:"vector" msgpack:"vector" validate:"required,min=1"`
}

// Artifact is the serialized form of an index.
type Artifact struct {
	Version string   `json:"version" msgpack:"version"`
	Books   []Record `json:"books" msgpack:"books" validate:"required,min=1,dive"`
}

// Neighbor is a single nearest-neighbor result.
type Neighbor struct {
	BookID   int64
	Distance float64
}

// Index is an immutable k-nearest-neighbor index over book feature vectors.
type Index struct {
	version string
	dim     int
	books   []models.Book
	vectors [][]float64
	pos     map[int64]int
}

// New builds an index from artifact records. Vectors are copied and normalized.
func New(version string, records []Record) (*Index, error) {
	if len(records) == 0 {
		return nil, apperrors.New(apperrors.KindValidation, "index.New", fmt.Errorf("no records"))
	}

	ix := &Index{
		version: version,
		dim:     len(records[0].Vector),
		books:   make([]models.Book, len(records)),
		vectors: make([][]float64, len(records)),
		pos:     make(map[int64]int, len(records)),
	}

	for i := range records {
		r := &records[i]
		if r.BookID <= 0 {
			return nil, apperrors.New(apperrors.KindValidation, "index.New",
				fmt.Errorf("record %d: invalid book_id %d", i, r.BookID))
		}
		if len(r.Vector) != ix.dim {
			return nil, apperrors.New(apperrors.KindValidation, "index.New",
				fmt.Errorf("record %d (book %d): vector dimension %d, want %d", i, r.BookID, len(r.Vector), ix.dim))
		}
		if _, dup := ix.pos[r.BookID]; dup {
			return nil, apperrors.New(apperrors.KindValidation, "index.New",
				fmt.Errorf("duplicate book_id %d", r.BookID))
		}
		ix.pos[r.BookID] = i
		ix.books[i] = r.Book
		ix.vectors[i] = normalize(r.Vector)
	}

	return ix, nil
}

// Neighbors returns up to k books closest to bookID, excluding bookID itself,
// ordered by ascending distance.
func (ix *Index) Neighbors(bookID int64, k int) ([]Neighbor, error) {
	self, ok := ix.pos[bookID]
	if !ok {
		return nil, apperrors.NotFound("index.Neighbors", "book %d not in index", bookID)
	}
	if k <= 0 {
		return []Neighbor{}, nil
	}

	start := time.Now()
	defer func() { metrics.IndexQueryDuration.Observe(time.Since(start).Seconds()) }()

	query := ix.vectors[self]
	ranked := make([]int, len(ix.vectors))
	dist := make([]float64, len(ix.vectors))
	for i, v := range ix.vectors {
		ranked[i] = i
		dist[i] = cosineDistance(query, v)
	}

	sort.Slice(ranked, func(a, b int) bool {
		pa, pb := ranked[a], ranked[b]
		if dist[pa] != dist[pb] {
			return dist[pa] < dist[pb]
		}
		return pa < pb
	})

	// k+1 candidates include the query itself in the common case
	if len(ranked) > k+1 {
		ranked = ranked[:k+1]
	}

	out := make([]Neighbor, 0, k)
	for _, p := range ranked {
		if p == self {
			continue
		}
		if len(out) == k {
			break
		}
		out = append(out, Neighbor{BookID: ix.books[p].BookID, Distance: dist[p]})
	}
	return out, nil
}

// Book returns the indexed attributes of a book.
func (ix *Index) Book(bookID int64) (models.Book, bool) {
	p, ok := ix.pos[bookID]
	if !ok {
		return models.Book{}, false
	}
	return ix.books[p], true
}

// Books returns a copy of all indexed books in artifact order.
func (ix *Index) Books() []models.Book {
	out := make([]models.Book, len(ix.books))
	copy(out, ix.books)
	return out
}

// TopByRatingsCount returns the ids of the k most-rated books, ties broken by
// ascending book id.
func (ix *Index) TopByRatingsCount(k int) []int64 {
	if k <= 0 {
		return nil
	}
	books := ix.Books()
	sort.Slice(books, func(i, j int) bool {
		if books[i].RatingsCount != books[j].RatingsCount {
			return books[i].RatingsCount > books[j].RatingsCount
		}
		return books[i].BookID < books[j].BookID
	})
	if k < len(books) {
		books = books[:k]
	}
	ids := make([]int64, len(books))
	for i := range books {
		ids[i] = books[i].BookID
	}
	return ids
}

// Len returns the number of indexed books.
func (ix *Index) Len() int { return len(ix.books) }

// Dim returns the vector dimension.
func (ix *Index) Dim() int { return ix.dim }

// Version returns the artifact version string.
func (ix *Index) Version() string { return ix.version }

func normalize(v []float32) []float64 {
	out := make([]float64, len(v))
	var sum float64
	for i, x := range v {
		out[i] = float64(x)
		sum += out[i] * out[i]
	}
	if sum == 0 {
		return out
	}
	norm := math.Sqrt(sum)
	for i := range out {
		out[i] /= norm
	}
	return out
}

// cosineDistance expects normalized inputs.
func cosineDistance(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 1
	}
	d := 1 - dot
	if d < 0 {
		return 0
	}
	return d
}
