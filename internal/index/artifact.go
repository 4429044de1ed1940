// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package index

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomtom215/folio/internal/apperrors"
	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/metrics"
	"github.com/tomtom215/folio/internal/validation"
)

// Format identifies an artifact encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatMsgpack
)

// FormatForPath picks the artifact encoding from the file extension.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msgpack", ".mp":
		return FormatMsgpack
	default:
		return FormatJSON
	}
}

// Load reads, validates and indexes an artifact file.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read index artifact %s: %w", path, err)
	}

	art, err := Decode(data, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("decode index artifact %s: %w", path, err)
	}

	ix, err := New(art.Version, art.Books)
	if err != nil {
		return nil, err
	}

	metrics.IndexBooks.Set(float64(ix.Len()))
	logging.Info().
		Str("path", path).
		Str("version", ix.Version()).
		Int("books", ix.Len()).
		Int("dim", ix.Dim()).
		Msg("Similarity index loaded")

	return ix, nil
}

// Decode parses and validates an artifact.
func Decode(data []byte, format Format) (*Artifact, error) {
	var art Artifact
	var err error
	switch format {
	case FormatMsgpack:
		err = msgpack.Unmarshal(data, &art)
	default:
		err = json.Unmarshal(data, &art)
	}
	if err != nil {
		return nil, apperrors.New(apperrors.KindSerialization, "index.Decode", err)
	}

	if verr := validation.ValidateStruct(&art); verr != nil {
		return nil, verr
	}
	return &art, nil
}

// Encode serializes an artifact.
func Encode(art *Artifact, format Format) ([]byte, error) {
	switch format {
	case FormatMsgpack:
		return msgpack.Marshal(art)
	default:
		return json.Marshal(art)
	}
}

// WriteFile encodes an artifact using the format implied by path.
func WriteFile(path string, art *Artifact) error {
	data, err := Encode(art, FormatForPath(path))
	if err != nil {
		return fmt.Errorf("encode index artifact: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
