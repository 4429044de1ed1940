// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package index provides the in-memory similarity index used for recommendations.

The index is built once at startup from an artifact produced by an offline
training job and is read-only afterwards, so it is shared between goroutines
without locking.

# Artifact Format

An artifact is either JSON (default) or MessagePack (".msgpack" / ".mp"):

	{
	  "version": "2026-01-15",
	  "books": [
	    {"book_id": 1, "title": "...", "authors": "...", "vector": [0.1, 0.0, 0.3]}
	  ]
	}

Every record carries the book attributes served to clients plus a feature
vector. All vectors must share one dimension. Book ids must be unique.

# Distance

Vectors are L2-normalized at load. Distance between two books is cosine
distance, 1 - cos(a, b), so identical directions are 0 and orthogonal vectors
are 1. A zero vector is at distance 1 from everything.

# Neighbor Queries

Neighbors(id, k) ranks all books by (distance, position in the artifact), takes
the first k+1, drops the query book itself and truncates to k. Ties are broken
by artifact position, so results are deterministic for a fixed artifact.
*/
package index
