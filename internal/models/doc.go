// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package models defines the data structures shared across Folio.

Key types:

  - Book: the catalog record and the unit of a recommendation
  - RecommendationResult: the /recommend/{book_id} payload
  - CatalogBook: a Book as stored in the relational catalog, with timestamps
  - BookInput: validated create/update payload for catalog mutations
  - CacheStats, BackendHealth: cache observability payloads
  - APIResponse, APIError: error envelope and the service health payload

JSON field names are part of the public API. The author field is always
"authors" (plural, free text).
*/
package models
