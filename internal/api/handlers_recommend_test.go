// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/tomtom215/folio/internal/models"
)

func TestRecommendEndpoint(t *testing.T) {
	env, _ := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/recommend/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("X-Cache = %q, want MISS", got)
	}

	result := decodeBody[models.RecommendationResult](t, rec)
	if result.BookID != 1 {
		t.Errorf("book_id = %d, want 1", result.BookID)
	}
	// 5 books, default n=10: every other book, nearest first
	want := []int64{2, 3, 4, 5}
	if len(result.Recommendations) != len(want) {
		t.Fatalf("got %d recommendations, want %d", len(result.Recommendations), len(want))
	}
	for i, b := range result.Recommendations {
		if b.BookID != want[i] {
			t.Errorf("recommendations[%d] = %d, want %d", i, b.BookID, want[i])
		}
	}
	if result.Recommendations[0].Title != "Catching Fire" || result.Recommendations[0].Authors != "Suzanne Collins" {
		t.Errorf("attributes not joined: %+v", result.Recommendations[0])
	}

	again := env.do(t, http.MethodGet, "/recommend/1", "")
	if got := again.Header().Get("X-Cache"); got != "HIT" {
		t.Errorf("second X-Cache = %q, want HIT", got)
	}
	if !reflect.DeepEqual(decodeBody[models.RecommendationResult](t, again), result) {
		t.Error("cached response differs from computed response")
	}
}

func TestRecommendEndpointErrors(t *testing.T) {
	env, _ := newTestEnv(t)

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantErr  string
	}{
		{"unknown book", "/recommend/999", http.StatusNotFound, ErrCodeNotFound},
		{"non-numeric id", "/recommend/abc", http.StatusBadRequest, ErrCodeValidationFailed},
		{"zero id", "/recommend/0", http.StatusBadRequest, ErrCodeValidationFailed},
		{"non-numeric n", "/recommend/1?n=ten", http.StatusBadRequest, ErrCodeValidationFailed},
		{"zero n", "/recommend/1?n=0", http.StatusBadRequest, ErrCodeValidationFailed},
		{"n above max", "/recommend/1?n=500", http.StatusBadRequest, ErrCodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, tt.path, "")
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			resp := decodeBody[models.APIResponse](t, rec)
			if resp.Status != "error" || resp.Error == nil || resp.Error.Code != tt.wantErr {
				t.Errorf("error envelope = %+v, want code %s", resp, tt.wantErr)
			}
		})
	}
}

func TestRecommendCountOverride(t *testing.T) {
	env, _ := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/recommend/3?n=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	result := decodeBody[models.RecommendationResult](t, rec)
	if len(result.Recommendations) != 2 {
		t.Errorf("got %d recommendations, want 2", len(result.Recommendations))
	}
	for _, b := range result.Recommendations {
		if b.BookID == 3 {
			t.Error("result contains the queried book")
		}
	}
}

func TestRecommendWithBackendDown(t *testing.T) {
	env := newDownEnv(t)

	first := env.do(t, http.MethodGet, "/recommend/5", "")
	second := env.do(t, http.MethodGet, "/recommend/5", "")
	for _, rec := range []*httptest.ResponseRecorder{first, second} {
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d with backend down", rec.Code)
		}
	}
	if first.Body.String() != second.Body.String() {
		t.Errorf("results differ with backend down:\n%s\n%s", first.Body.String(), second.Body.String())
	}

	stats := decodeBody[models.CacheStats](t, env.do(t, http.MethodGet, "/cache/stats", ""))
	if stats.Status != models.StatusUnavailable {
		t.Errorf("stats status = %q, want unavailable", stats.Status)
	}
	if stats.Hits != 0 || stats.Misses != 0 || stats.HitRate != 0 {
		t.Errorf("stats = %+v, want zero counters", stats)
	}
}
