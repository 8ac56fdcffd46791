// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/wayfinder/internal/logging"
	"github.com/tomtom215/wayfinder/internal/recommend"
	"github.com/tomtom215/wayfinder/internal/validation"
)

// FeedbackResponse is returned by POST /feedback.
type FeedbackResponse struct {
	Message            string                 `json:"message"`
	FeedbackID         int64                  `json:"feedback_id"`
	PreferencesUpdated bool                   `json:"preferences_updated"`
	Preferences        []recommend.Preference `json:"preferences,omitempty"`
}

// SubmitFeedback handles POST /feedback. The event is recorded even when the
// place cannot be resolved; preferences_updated reports whether learning ran.
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req FeedbackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.RequestValidation(verr)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	result, err := h.engine.SubmitFeedback(ctx, req.toFeedback())
	if err != nil {
		if errors.Is(err, recommend.ErrInconsistent) && result != nil {
			// The event is stored; a resubmit would record it twice.
			logging.Ctx(ctx).Warn().Err(err).
				Int64("feedback_id", result.Feedback.ID).
				Msg("Feedback recorded without preference update")
			rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeRetryable, msgRecordedNotLearned, map[string]interface{}{
				"feedback_id":       result.Feedback.ID,
				"feedback_recorded": true,
			})
			return
		}
		rw.ServiceError(err, "")
		return
	}

	logging.Ctx(ctx).Info().
		Str("user_id", req.UserID).
		Str("location_id", req.LocationID).
		Int("rating", *req.Rating).
		Bool("preferences_updated", result.PreferencesUpdated).
		Msg("Feedback submitted")

	rw.Created(FeedbackResponse{
		Message:            "Feedback submitted successfully",
		FeedbackID:         result.Feedback.ID,
		PreferencesUpdated: result.PreferencesUpdated,
		Preferences:        result.Preferences,
	})
}

// ListFeedback handles GET /users/{userID}/feedback.
func (h *Handler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, err := userIDParam(r)
	if err != nil {
		rw.ServiceError(err, "")
		return
	}

	events, err := h.feedback.ListFeedback(r.Context(), userID)
	if err != nil {
		rw.ServiceError(err, "")
		return
	}
	rw.Success(events)
}
