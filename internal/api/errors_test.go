// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/wayfinder/internal/recommend"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "not found uses caller message",
			err:        fmt.Errorf("preference 9: %w", recommend.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   ErrCodeNotFound,
			wantMsg:    msgPreferenceNotFound,
		},
		{
			name:       "validation keeps detail",
			err:        fmt.Errorf("record feedback: %w", fmt.Errorf("%w: location_id is required", recommend.ErrValidation)),
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeValidationFailed,
			wantMsg:    "location_id is required",
		},
		{
			name:       "conflict",
			err:        fmt.Errorf("cuisine/thai: %w", recommend.ErrConflict),
			wantStatus: http.StatusConflict,
			wantCode:   ErrCodeConflict,
			wantMsg:    recommend.ErrConflict.Error(),
		},
		{
			name:       "suggestion failure wins over upstream cause",
			err:        fmt.Errorf("%w: %w", recommend.ErrSuggestionFailed, recommend.ErrUpstreamUnavailable),
			wantStatus: http.StatusBadGateway,
			wantCode:   ErrCodeSuggestionFailed,
			wantMsg:    msgSuggestionFailed,
		},
		{
			name:       "upstream",
			err:        fmt.Errorf("details: %w", recommend.ErrUpstreamUnavailable),
			wantStatus: http.StatusBadGateway,
			wantCode:   ErrCodeExternalServiceFail,
			wantMsg:    msgUpstreamFailed,
		},
		{
			name:       "inconsistent",
			err:        fmt.Errorf("%w: %w", recommend.ErrInconsistent, errors.New("conflict on update")),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   ErrCodeRetryable,
			wantMsg:    msgRetryable,
		},
		{
			name:       "unknown error hides text",
			err:        errors.New("pq: relation does not exist"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   ErrCodeInternalError,
			wantMsg:    msgInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := classify(tt.err, msgPreferenceNotFound)
			if got.status != tt.wantStatus || got.code != tt.wantCode || got.message != tt.wantMsg {
				t.Errorf("classify() = %+v, want {%d %s %q}", got, tt.wantStatus, tt.wantCode, tt.wantMsg)
			}
		})
	}
}

func TestServiceError_DefaultNotFoundMessage(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.Background())
	NewResponseWriter(rec, req).ServiceError(recommend.ErrNotFound, "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error.Message != "Resource not found" {
		t.Errorf("message = %q", env.Error.Message)
	}
}
