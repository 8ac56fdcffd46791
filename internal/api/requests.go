// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/wayfinder/internal/recommend"
)

// maxBodyBytes bounds request bodies. Every body this API accepts is a few
// short fields.
const maxBodyBytes = 64 << 10

// maxUserIDLength matches the longest id accepted in a path or body.
const maxUserIDLength = 128

// FeedbackRequest is the body of POST /feedback.
// Rating is a pointer so a missing rating is reported as required rather
// than as out of range.
type FeedbackRequest struct {
	UserID     string `json:"user_id" validate:"notblank,max=128"`
	LocationID string `json:"location_id" validate:"notblank,max=128"`
	Rating     *int   `json:"rating" validate:"required,min=1,max=5"`
}

func (req *FeedbackRequest) toFeedback() recommend.Feedback {
	return recommend.Feedback{
		UserID:     req.UserID,
		LocationID: req.LocationID,
		Rating:     *req.Rating,
	}
}

// SuggestionRequest is the body of POST /suggestions.
// Coordinates are pointers so that 0,0 stays a valid location.
type SuggestionRequest struct {
	UserID    string   `json:"user_id" validate:"notblank,max=128"`
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

func (req *SuggestionRequest) toSuggestionRequest() recommend.SuggestionRequest {
	return recommend.SuggestionRequest{
		UserID:    req.UserID,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	}
}

// CreatePreferenceRequest is the body of POST /users/{userID}/preferences.
type CreatePreferenceRequest struct {
	Type  string   `json:"preference_type" validate:"notblank,max=64"`
	Name  string   `json:"preference_name" validate:"notblank,max=128"`
	Score *float64 `json:"score" validate:"omitempty,gte=0,lte=1"`
}

// UpdatePreferenceRequest is the body of PUT /users/{userID}/preferences/{preferenceID}.
// Empty strings and a null score leave the stored value unchanged.
type UpdatePreferenceRequest struct {
	Type  string   `json:"preference_type" validate:"max=64"`
	Name  string   `json:"preference_name" validate:"max=128"`
	Score *float64 `json:"score" validate:"omitempty,gte=0,lte=1"`
}

func (req *CreatePreferenceRequest) toInput() recommend.PreferenceInput {
	return recommend.PreferenceInput{Type: req.Type, Name: req.Name, Score: req.Score}
}

func (req *UpdatePreferenceRequest) toInput() recommend.PreferenceInput {
	return recommend.PreferenceInput{Type: req.Type, Name: req.Name, Score: req.Score}
}

// errEmptyBody is returned by decodeJSON for a request without a body.
var errEmptyBody = errors.New("request body is required")

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// userIDParam returns the {userID} path segment.
func userIDParam(r *http.Request) (string, error) {
	userID := chi.URLParam(r, "userID")
	if userID == "" || len(userID) > maxUserIDLength {
		return "", fmt.Errorf("%w: invalid user id", recommend.ErrValidation)
	}
	return userID, nil
}

// preferenceIDParam parses the {preferenceID} path segment.
func preferenceIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "preferenceID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid preference id %q", recommend.ErrValidation, raw)
	}
	return id, nil
}
