// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/folio/internal/apperrors"
	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/models"
	"github.com/tomtom215/folio/internal/validation"
)

// maxBodyBytes caps catalog mutation bodies.
const maxBodyBytes = 64 << 10

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON writes payload as the response body.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError sends an error response in the APIResponse envelope.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", sanitizeLogValue(code)).Str("error", sanitizeLogValue(err.Error())).Msg("API Error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondAppError maps an apperrors kind to an HTTP status.
func respondAppError(w http.ResponseWriter, err error) {
	respondAppErrorAs(w, err, "Failed to compute response")
}

// respondAppErrorAs is respondAppError with a route-specific message for
// KindUpstreamCompute.
func respondAppErrorAs(w http.ResponseWriter, err error, computeMessage string) {
	var ve *validation.RequestValidationError
	if errors.As(err, &ve) {
		apiErr := ve.ToAPIError()
		respondJSON(w, http.StatusBadRequest, &models.APIResponse{
			Status:   "error",
			Metadata: models.Metadata{Timestamp: time.Now().UTC()},
			Error:    &models.APIError{Code: apiErr.Code, Message: apiErr.Message, Details: apiErr.Details},
		})
		return
	}

	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		respondError(w, http.StatusNotFound, ErrCodeNotFound, causeMessage(err), nil)
	case apperrors.KindValidation:
		respondError(w, http.StatusBadRequest, ErrCodeValidationFailed, causeMessage(err), nil)
	case apperrors.KindConflict:
		respondError(w, http.StatusConflict, ErrCodeConflict, causeMessage(err), nil)
	case apperrors.KindBackendUnavailable:
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Cache backend unavailable", err)
	case apperrors.KindUpstreamCompute:
		respondError(w, http.StatusInternalServerError, ErrCodeComputeError, computeMessage, err)
	default:
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error", err)
	}
}

// causeMessage returns the innermost message of an *apperrors.Error, which is
// the part safe to show a client.
func causeMessage(err error) string {
	var e *apperrors.Error
	if errors.As(err, &e) && e.Err != nil {
		return e.Err.Error()
	}
	return err.Error()
}

// parseBookID reads the {book_id} path parameter.
func parseBookID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "book_id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidBookID
	}
	return id, nil
}

// parseCount reads the optional n query parameter; 0 means not given.
func parseCount(r *http.Request) (int, error) {
	value := r.URL.Query().Get("n")
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, ErrInvalidCount
	}
	if n < 1 {
		return 0, apperrors.New(apperrors.KindValidation, "api.parseCount", fmt.Errorf("n must be at least 1, got %d", n))
	}
	return n, nil
}

// decodeBookInput reads and validates a catalog mutation body.
func decodeBookInput(r *http.Request) (*models.BookInput, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, apperrors.New(apperrors.KindValidation, "api.decodeBookInput", fmt.Errorf("failed to read body: %w", err))
	}
	if len(body) > maxBodyBytes {
		return nil, apperrors.New(apperrors.KindValidation, "api.decodeBookInput", fmt.Errorf("body exceeds %d bytes", maxBodyBytes))
	}

	var in models.BookInput
	if err := json.Unmarshal(body, &in); err != nil {
		return nil, apperrors.New(apperrors.KindValidation, "api.decodeBookInput", fmt.Errorf("invalid JSON body: %w", err))
	}
	if verr := validation.ValidateStruct(&in); verr != nil {
		return nil, verr
	}
	return &in, nil
}

// setCacheHeader reports whether the response came from the cache.
func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
}
