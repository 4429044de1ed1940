// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/apperrors"
	"github.com/tomtom215/folio/internal/cache"
	"github.com/tomtom215/folio/internal/index"
	"github.com/tomtom215/folio/internal/models"
	"github.com/tomtom215/folio/internal/recommend"
)

// memCatalog is an in-memory Catalog.
type memCatalog struct {
	mu        sync.Mutex
	books     map[int64]models.CatalogBook
	listCalls int
	down      bool
}

func newMemCatalog(books ...models.Book) *memCatalog {
	c := &memCatalog{books: make(map[int64]models.CatalogBook)}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, b := range books {
		c.books[b.BookID] = models.CatalogBook{Book: b, CreatedAt: now, UpdatedAt: now}
	}
	return c
}

func (c *memCatalog) sorted() []models.CatalogBook {
	out := make([]models.CatalogBook, 0, len(c.books))
	for _, b := range c.books {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookID < out[j].BookID })
	return out
}

func (c *memCatalog) List(context.Context) ([]models.CatalogBook, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listCalls++
	if c.down {
		return nil, errors.New("failed to list books: database is closed")
	}
	return c.sorted(), nil
}

func (c *memCatalog) Get(_ context.Context, id int64) (*models.CatalogBook, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.down {
		return nil, fmt.Errorf("failed to get book %d: database is closed", id)
	}
	b, ok := c.books[id]
	if !ok {
		return nil, apperrors.NotFound("memCatalog.Get", "book %d not found", id)
	}
	return &b, nil
}

func (c *memCatalog) Create(_ context.Context, in *models.BookInput) (*models.CatalogBook, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := in.BookID
	if id == 0 {
		for k := range c.books {
			if k > id {
				id = k
			}
		}
		id++
	}
	if _, ok := c.books[id]; ok {
		return nil, apperrors.New(apperrors.KindConflict, "memCatalog.Create", fmt.Errorf("book %d already exists", id))
	}
	b := models.CatalogBook{Book: in.ToBook(id), CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	c.books[id] = b
	return &b, nil
}

func (c *memCatalog) Update(_ context.Context, id int64, in *models.BookInput) (*models.CatalogBook, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	old, ok := c.books[id]
	if !ok {
		return nil, apperrors.NotFound("memCatalog.Update", "book %d not found", id)
	}
	b := models.CatalogBook{Book: in.ToBook(id), CreatedAt: old.CreatedAt, UpdatedAt: time.Now().UTC()}
	c.books[id] = b
	return &b, nil
}

func (c *memCatalog) Delete(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.books[id]; !ok {
		return apperrors.NotFound("memCatalog.Delete", "book %d not found", id)
	}
	delete(c.books, id)
	return nil
}

func (c *memCatalog) ExportCSV(_ context.Context, w io.Writer) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"book_id", "title", "authors"})
	books := c.sorted()
	for _, b := range books {
		_ = cw.Write([]string{strconv.FormatInt(b.BookID, 10), b.Title, b.Authors})
	}
	cw.Flush()
	return len(books), cw.Error()
}

func (c *memCatalog) Ping(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.down {
		return errors.New("catalog down")
	}
	return nil
}

var testBooks = []models.Book{
	{BookID: 1, Title: "The Hunger Games", Authors: "Suzanne Collins", Year: 2008, Rating: 4.34, RatingsCount: 4780653},
	{BookID: 2, Title: "Catching Fire", Authors: "Suzanne Collins", Year: 2009, Rating: 4.3, RatingsCount: 1831039},
	{BookID: 3, Title: "Twilight", Authors: "Stephenie Meyer", Year: 2005, Rating: 3.57, RatingsCount: 3866839},
	{BookID: 4, Title: "New Moon", Authors: "Stephenie Meyer", Year: 2006, Rating: 3.52, RatingsCount: 1149630},
	{BookID: 5, Title: "The Great Gatsby", Authors: "F. Scott Fitzgerald", Year: 1925, Rating: 3.89, RatingsCount: 2683664},
}

func testIndex(t *testing.T) *index.Index {
	t.Helper()
	vecs := [][]float32{{1, 0}, {0.9, 0.1}, {0.5, 0.5}, {0.1, 0.9}, {0, 1}}
	recs := make([]index.Record, len(testBooks))
	for i := range testBooks {
		recs[i] = index.Record{Book: testBooks[i], Vector: vecs[i]}
	}
	ix, err := index.New("test-v1", recs)
	if err != nil {
		t.Fatalf("index.New() error = %v", err)
	}
	return ix
}

type testEnv struct {
	server  http.Handler
	coord   *cache.Coordinator
	catalog *memCatalog
}

func newTestEnvWithBackend(t *testing.T, backend cache.Backend, mwCfg *ChiMiddlewareConfig) *testEnv {
	t.Helper()
	t.Cleanup(func() { _ = backend.Close() })

	ix := testIndex(t)
	eng, err := recommend.NewEngine(recommend.DefaultConfig(), ix, zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	coord := cache.NewCoordinator(backend, nil, cache.CoordinatorConfig{Singleflight: true}, zerolog.New(io.Discard))
	cat := newMemCatalog(testBooks...)

	h, err := NewHandler(recommend.NewCached(eng, coord), coord, cat, ix)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	if mwCfg == nil {
		mwCfg = DefaultChiMiddlewareConfig()
		mwCfg.RateLimitDisabled = true
	}
	router := NewRouter(h, NewChiMiddleware(mwCfg), 5*time.Second)
	return &testEnv{server: router.SetupChi(), coord: coord, catalog: cat}
}

// newTestEnv uses a miniredis-backed Redis store.
func newTestEnv(t *testing.T) (*testEnv, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := cache.NewRedisStore(context.Background(), cache.RedisOptions{
		URL:            "redis://" + mr.Addr(),
		ConnectTimeout: time.Second,
		OpTimeout:      time.Second,
	})
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	return newTestEnvWithBackend(t, store, nil), mr
}

// newDownEnv uses a Redis store whose server is gone before the first ping.
func newDownEnv(t *testing.T) *testEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	store, err := cache.NewRedisStore(context.Background(), cache.RedisOptions{
		URL:            "redis://" + addr,
		ConnectTimeout: 200 * time.Millisecond,
		OpTimeout:      200 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	return newTestEnvWithBackend(t, store, nil)
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}
