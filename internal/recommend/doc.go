// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package recommend turns nearest-neighbor lookups into client-facing
// recommendation results.
//
// # Architecture
//
// The engine is a thin, side-effect-free layer over the similarity index:
//
//	book id -> index.Neighbors(id, n) -> join book attributes -> RecommendationResult
//
// It holds no cache of its own. Caching is the caller's concern (see the cache
// package's GetOrCompute), which keeps the engine safe to call concurrently and
// redundantly, for example from the HTTP handlers and the warmer at once.
//
// # Error Handling
//
// Unknown book ids return an apperrors.KindNotFound error. Any other failure
// (a neighbor id with no attributes, a cancelled context) is reported as
// apperrors.KindUpstreamCompute, which the API maps to 500.
//
// # Usage Example
//
//	ix, _ := index.Load("/data/index.json")
//	eng, _ := recommend.NewEngine(recommend.DefaultConfig(), ix, logging.Logger())
//	res, err := eng.Recommend(ctx, 1, 10)
package recommend
