// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package cache

import (
	"github.com/goccy/go-json"

	"github.com/tomtom215/folio/internal/apperrors"
)

// Encode serializes a value for storage. Floats are written as decimal text
// and time.Time as RFC 3339, so a round trip yields an equivalent value.
func Encode[T any](v T) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, apperrors.New(apperrors.KindSerialization, "cache.Encode", err)
	}
	return data, nil
}

// Decode parses a stored payload into T.
func Decode[T any](data []byte) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		var zero T
		return zero, apperrors.New(apperrors.KindSerialization, "cache.Decode", err)
	}
	return v, nil
}
