// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/tomtom215/wayfinder/internal/logging"
	"github.com/tomtom215/wayfinder/internal/recommend"
	"github.com/tomtom215/wayfinder/internal/validation"
)

// Client facing messages for errors whose internal text should not leak.
const (
	msgPreferenceNotFound = "Preference not found"
	msgSuggestionFailed   = "Suggestion generation failed"
	msgUpstreamFailed     = "External service unavailable"
	msgRetryable          = "Preferences were not updated, retry the request"
	msgRecordedNotLearned = "Feedback was recorded but preferences were not updated; do not resubmit"
	msgInternal           = "An internal error occurred"
)

// errorResponse is the status, code and message an error maps to.
type errorResponse struct {
	status  int
	code    string
	message string
}

// classify maps a service error onto the HTTP contract. notFound replaces
// the message of ErrNotFound so row ids and user ids are not echoed.
func classify(err error, notFound string) errorResponse {
	switch {
	case errors.Is(err, recommend.ErrValidation):
		return errorResponse{http.StatusBadRequest, ErrCodeValidationFailed, validationMessage(err)}
	case errors.Is(err, recommend.ErrNotFound):
		return errorResponse{http.StatusNotFound, ErrCodeNotFound, notFound}
	case errors.Is(err, recommend.ErrConflict):
		return errorResponse{http.StatusConflict, ErrCodeConflict, recommend.ErrConflict.Error()}
	case errors.Is(err, recommend.ErrSuggestionFailed):
		return errorResponse{http.StatusBadGateway, ErrCodeSuggestionFailed, msgSuggestionFailed}
	case errors.Is(err, recommend.ErrUpstreamUnavailable):
		return errorResponse{http.StatusBadGateway, ErrCodeExternalServiceFail, msgUpstreamFailed}
	case errors.Is(err, recommend.ErrInconsistent):
		return errorResponse{http.StatusServiceUnavailable, ErrCodeRetryable, msgRetryable}
	default:
		return errorResponse{http.StatusInternalServerError, ErrCodeInternalError, msgInternal}
	}
}

// validationMessage strips the sentinel prefix from "validation failed: rating must be ...".
func validationMessage(err error) string {
	msg := err.Error()
	prefix := recommend.ErrValidation.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}

// ServiceError writes the mapped error response and logs server side failures.
func (rw *ResponseWriter) ServiceError(err error, notFound string) {
	if notFound == "" {
		notFound = "Resource not found"
	}
	resp := classify(err, notFound)

	logger := logging.Ctx(rw.r.Context())
	if resp.status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("code", resp.code).Msg("Request failed")
	} else {
		logger.Debug().Err(err).Str("code", resp.code).Msg("Request rejected")
	}

	if resp.status == http.StatusServiceUnavailable {
		rw.w.Header().Set("Retry-After", "1")
	}
	rw.Error(resp.status, resp.code, resp.message)
}

// RequestValidation writes the field level details of a struct validation failure.
func (rw *ResponseWriter) RequestValidation(verr *validation.RequestValidationError) {
	apiErr := verr.ToAPIError()
	rw.ValidationError(apiErr.Message, apiErr.Details)
}
