// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package catalog stores the relational book catalog in DuckDB.

The catalog is the mutable side of the system: books can be created, updated
and deleted through the API. The similarity index is never touched by these
writes; a book added here has no recommendations until the next index build.

# Schema

	books (
	    book_id        BIGINT PRIMARY KEY,
	    title          VARCHAR NOT NULL,
	    original_title VARCHAR,
	    authors        VARCHAR NOT NULL,
	    "year"         INTEGER,
	    rating         DOUBLE,
	    ratings_count  BIGINT,
	    image_url      VARCHAR,
	    created_at     TIMESTAMP,
	    updated_at     TIMESTAMP
	)

# Seeding

On first start with an empty table, SeedIfEmpty loads the book snapshot that
ships inside the index artifact, so the catalog and the index start aligned.

# Errors

Unknown ids return apperrors.KindNotFound and id collisions on insert return
apperrors.KindConflict. Every query is recorded in the duckdb_query_* metrics.
*/
package catalog
