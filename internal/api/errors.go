// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"errors"

	"github.com/tomtom215/folio/internal/apperrors"
)

// Error codes for API responses
const (
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeValidationFailed   = "VALIDATION_ERROR"
	ErrCodeCacheError         = "CACHE_ERROR"
	ErrCodeComputeError       = "COMPUTE_ERROR"
)

var (
	// ErrInvalidBookID indicates a book id path parameter that is not a positive integer.
	ErrInvalidBookID = apperrors.New(apperrors.KindValidation, "api", errors.New("book id must be a positive integer"))

	// ErrInvalidCount indicates an n query parameter that is not an integer.
	ErrInvalidCount = apperrors.New(apperrors.KindValidation, "api", errors.New("n must be an integer"))
)
