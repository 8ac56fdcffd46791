// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/wayfinder/internal/recommend"
)

// Recommender is the engine surface the handlers call.
type Recommender interface {
	SubmitFeedback(ctx context.Context, fb recommend.Feedback) (*recommend.IngestResult, error)
	Suggest(ctx context.Context, req recommend.SuggestionRequest) (*recommend.Suggestion, error)
}

// PreferenceRepository is the administrative preference CRUD surface.
// Every method is scoped to userID; a row owned by another user is ErrNotFound.
type PreferenceRepository interface {
	ListPreferences(ctx context.Context, userID string) ([]recommend.Preference, error)
	GetPreference(ctx context.Context, userID string, id int64) (*recommend.Preference, error)
	CreatePreference(ctx context.Context, userID string, in recommend.PreferenceInput) (*recommend.Preference, error)
	UpdatePreference(ctx context.Context, userID string, id int64, in recommend.PreferenceInput) (*recommend.Preference, error)
	DeletePreference(ctx context.Context, userID string, id int64) error
}

// FeedbackLister reads a user's feedback history.
type FeedbackLister interface {
	ListFeedback(ctx context.Context, userID string) ([]recommend.Feedback, error)
}

// HealthChecker reports whether the database answers.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Dependencies are the collaborators handed to NewHandler.
type Dependencies struct {
	Engine      Recommender
	Preferences PreferenceRepository
	Feedback    FeedbackLister
	Health      HealthChecker
}

// Handler holds the HTTP handlers.
type Handler struct {
	engine      Recommender
	preferences PreferenceRepository
	feedback    FeedbackLister
	health      HealthChecker

	startTime time.Time

	// requestTimeout bounds a single handler's work, including upstream calls.
	requestTimeout time.Duration
}

// NewHandler validates deps and returns a Handler. A zero timeout disables
// the per-request deadline.
func NewHandler(deps Dependencies, requestTimeout time.Duration) (*Handler, error) {
	var errs []error
	if deps.Engine == nil {
		errs = append(errs, errors.New("engine is required"))
	}
	if deps.Preferences == nil {
		errs = append(errs, errors.New("preference repository is required"))
	}
	if deps.Feedback == nil {
		errs = append(errs, errors.New("feedback lister is required"))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return &Handler{
		engine:         deps.Engine,
		preferences:    deps.Preferences,
		feedback:       deps.Feedback,
		health:         deps.Health,
		startTime:      time.Now(),
		requestTimeout: requestTimeout,
	}, nil
}

// requestContext applies the handler deadline to the request context.
func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if h.requestTimeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), h.requestTimeout)
}

// Welcome handles GET /.
func (h *Handler) Welcome(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{
		"message": "Welcome to Wayfinder, the location based suggestion service",
	})
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status            string  `json:"status"`
	DatabaseConnected bool    `json:"database_connected"`
	Uptime            float64 `json:"uptime_seconds"`
}

// Health handles GET /health. The process is alive whenever this answers;
// a failed database ping reports "degraded" with 503 so load balancers can
// drain the instance.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbConnected := h.health != nil && h.health.Ping(ctx) == nil

	status := HealthStatus{
		Status:            "healthy",
		DatabaseConnected: dbConnected,
		Uptime:            time.Since(h.startTime).Seconds(),
	}

	rw := NewResponseWriter(w, r)
	if !dbConnected {
		status.Status = "degraded"
		rw.writeJSON(http.StatusServiceUnavailable, APIResponse{
			Success: false,
			Data:    status,
			Error: &APIError{
				Code:    ErrCodeServiceUnavailable,
				Message: "Database unavailable",
			},
			Meta: rw.meta(),
		})
		return
	}
	rw.Success(status)
}
