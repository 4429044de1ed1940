// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package models

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestBookJSONFieldNames(t *testing.T) {
	b := Book{
		BookID:        3,
		Title:         "Twilight (Twilight, #1)",
		OriginalTitle: "Twilight",
		Authors:       "Stephenie Meyer",
		Year:          2005,
		Rating:        3.57,
		RatingsCount:  3866839,
		ImageURL:      "https://images.gr-assets.com/books/1361039443m/41865.jpg",
	}

	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	want := []string{"book_id", "title", "original_title", "authors", "year", "rating", "ratings_count", "image_url"}
	if len(m) != len(want) {
		t.Errorf("got %d fields, want %d: %s", len(m), len(want), data)
	}
	for _, k := range want {
		if _, ok := m[k]; !ok {
			t.Errorf("missing field %q in %s", k, data)
		}
	}
	if _, ok := m["author"]; ok {
		t.Error("singular author field must not be emitted")
	}
}

func TestCatalogBookTimestampsRFC3339(t *testing.T) {
	ts := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	cb := CatalogBook{Book: Book{BookID: 9, Title: "x", Authors: "y"}, CreatedAt: ts, UpdatedAt: ts}

	data, err := json.Marshal(cb)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"created_at":"2026-03-01T10:30:00Z"`) {
		t.Errorf("created_at not RFC 3339 in %s", data)
	}
	if !strings.Contains(string(data), `"book_id":9`) {
		t.Errorf("embedded Book fields not flattened in %s", data)
	}
}

func TestBookInputToBook(t *testing.T) {
	in := BookInput{BookID: 99, Title: "Dune", Authors: "Frank Herbert", Year: 1965, Rating: 4.2, RatingsCount: 10}
	b := in.ToBook(7)
	if b.BookID != 7 {
		t.Errorf("BookID = %d, want 7 (explicit id wins)", b.BookID)
	}
	if b.Title != "Dune" || b.Authors != "Frank Herbert" || b.Year != 1965 {
		t.Errorf("ToBook() = %+v", b)
	}
}

func TestAPIResponseOmitsEmptyError(t *testing.T) {
	resp := APIResponse{Status: "success", Data: ServiceHealth{Status: "ok"}}
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(data), `"error"`) {
		t.Errorf("error field should be omitted: %s", data)
	}
}
