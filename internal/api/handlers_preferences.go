// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package api

import (
	"net/http"

	"github.com/tomtom215/wayfinder/internal/validation"
)

// ListPreferences handles GET /users/{userID}/preferences.
func (h *Handler) ListPreferences(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, err := userIDParam(r)
	if err != nil {
		rw.ServiceError(err, msgPreferenceNotFound)
		return
	}

	prefs, err := h.preferences.ListPreferences(r.Context(), userID)
	if err != nil {
		rw.ServiceError(err, msgPreferenceNotFound)
		return
	}
	rw.Success(prefs)
}

// CreatePreference handles POST /users/{userID}/preferences.
func (h *Handler) CreatePreference(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, err := userIDParam(r)
	if err != nil {
		rw.ServiceError(err, msgPreferenceNotFound)
		return
	}

	var req CreatePreferenceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.RequestValidation(verr)
		return
	}

	pref, err := h.preferences.CreatePreference(r.Context(), userID, req.toInput())
	if err != nil {
		rw.ServiceError(err, msgPreferenceNotFound)
		return
	}
	rw.Created(pref)
}

// GetPreference handles GET /users/{userID}/preferences/{preferenceID}.
func (h *Handler) GetPreference(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, id, err := preferencePath(r)
	if err != nil {
		rw.ServiceError(err, msgPreferenceNotFound)
		return
	}

	pref, err := h.preferences.GetPreference(r.Context(), userID, id)
	if err != nil {
		rw.ServiceError(err, msgPreferenceNotFound)
		return
	}
	rw.Success(pref)
}

// UpdatePreference handles PUT /users/{userID}/preferences/{preferenceID}.
// Only the fields present in the body are applied.
func (h *Handler) UpdatePreference(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, id, err := preferencePath(r)
	if err != nil {
		rw.ServiceError(err, msgPreferenceNotFound)
		return
	}

	var req UpdatePreferenceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.RequestValidation(verr)
		return
	}

	pref, err := h.preferences.UpdatePreference(r.Context(), userID, id, req.toInput())
	if err != nil {
		rw.ServiceError(err, msgPreferenceNotFound)
		return
	}
	rw.Success(pref)
}

// DeletePreference handles DELETE /users/{userID}/preferences/{preferenceID}.
func (h *Handler) DeletePreference(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, id, err := preferencePath(r)
	if err != nil {
		rw.ServiceError(err, msgPreferenceNotFound)
		return
	}

	if err := h.preferences.DeletePreference(r.Context(), userID, id); err != nil {
		rw.ServiceError(err, msgPreferenceNotFound)
		return
	}
	rw.NoContent()
}

func preferencePath(r *http.Request) (string, int64, error) {
	userID, err := userIDParam(r)
	if err != nil {
		return "", 0, err
	}
	id, err := preferenceIDParam(r)
	if err != nil {
		return "", 0, err
	}
	return userID, id, nil
}
