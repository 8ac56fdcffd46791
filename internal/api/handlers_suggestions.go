// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package api

import (
	"net/http"

	"github.com/tomtom215/wayfinder/internal/validation"
)

// Suggestions handles POST /suggestions.
// Any failure after validation is reported as SUGGESTION_FAILED with no
// partial places.
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req SuggestionRequest
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

	suggestion, err := h.engine.Suggest(ctx, req.toSuggestionRequest())
	if err != nil {
		rw.ServiceError(err, "")
		return
	}
	rw.Success(suggestion)
}
