// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package apperrors defines the error kinds shared by the index, the
// recommendation engine, the cache layer and the HTTP API.
//
// Callers branch on the kind, never on message text:
//
//	if errors.Is(err, apperrors.ErrNotFound) {
//	    respondError(w, http.StatusNotFound, "BOOK_NOT_FOUND", "Book not found", err)
//	    return
//	}
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for propagation and HTTP mapping.
type Kind int

const (
	// KindUnknown is an error that carries no kind.
	KindUnknown Kind = iota

	// KindNotFound means a book id is absent from the index or catalog.
	KindNotFound

	// KindBackendUnavailable means the cache store is unreachable or erroring.
	KindBackendUnavailable

	// KindSerialization means a value could not be encoded or decoded for storage.
	KindSerialization

	// KindUpstreamCompute means the engine or index failed unexpectedly.
	KindUpstreamCompute

	// KindValidation means caller input was rejected at the boundary.
	KindValidation

	// KindConflict means a write collided with an existing record.
	KindConflict
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindBackendUnavailable:
		return "backend_unavailable"
	case KindSerialization:
		return "serialization"
	case KindUpstreamCompute:
		return "upstream_compute"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is comparisons.
var (
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrBackendUnavailable = &Error{Kind: KindBackendUnavailable}
	ErrSerialization      = &Error{Kind: KindSerialization}
	ErrUpstreamCompute    = &Error{Kind: KindUpstreamCompute}
	ErrValidation         = &Error{Kind: KindValidation}
	ErrConflict           = &Error{Kind: KindConflict}
)

// Error is a kinded error with the failing operation and its cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// New wraps err with a kind and the operation that produced it.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// NotFound builds a KindNotFound error for an operation.
func NotFound(op string, format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Op: op, Err: fmt.Errorf(format, args...)}
}

// Error implements error.
func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	default:
		return e.Kind.String()
	}
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so sentinels compare by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
