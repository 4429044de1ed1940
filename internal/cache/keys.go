// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package cache

import (
	"fmt"
	"strconv"
	"strings"
)

// Namespace is a key prefix grouping entries of one kind.
type Namespace string

const (
	NamespaceRecommendations Namespace = "book:recommendations"
	NamespaceBookList        Namespace = "book:list"
	NamespaceBookDetail      Namespace = "book:detail"
)

// BookListKey is the single key of the book-list snapshot.
const BookListKey = "all"

// Counter keys for the shared hit/miss statistics.
const (
	KeyStatsHits   = "stats:cache:hits"
	KeyStatsMisses = "stats:cache:misses"
)

// Key returns the full store key for k in this namespace.
func (n Namespace) Key(k string) string {
	return string(n) + ":" + k
}

// Pattern matches every key in the namespace.
func (n Namespace) Pattern() string {
	return string(n) + ":*"
}

// Label is the short name used as a metrics label.
func (n Namespace) Label() string {
	s := string(n)
	if i := strings.LastIndexByte(s, ':'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// BookKey formats a book id as a namespace-relative key.
func BookKey(bookID int64) string {
	return strconv.FormatInt(bookID, 10)
}

// RecommendationKey is the namespace-relative key for bookID's neighbors.
// The default count uses the bare id; other counts get their own entry.
func RecommendationKey(bookID int64, n, defaultN int) string {
	if n <= 0 || n == defaultN {
		return BookKey(bookID)
	}
	return fmt.Sprintf("%d:n%d", bookID, n)
}
