// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/wayfinder/internal/config"
)

func newRoutedHandler(t *testing.T, mw *ChiMiddleware) http.Handler {
	t.Helper()
	h, err := NewHandler(Dependencies{
		Engine:      &fakeEngine{},
		Preferences: newFakePreferences(),
		Feedback:    &fakeFeedback{},
		Health:      fakeHealth{},
	}, 0)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	return NewRouter(h, mw).Setup()
}

func TestNewHandler_RequiresDependencies(t *testing.T) {
	t.Parallel()

	if _, err := NewHandler(Dependencies{}, 0); err == nil {
		t.Fatal("expected error for missing dependencies")
	}
}

func TestRouter_UnknownRouteAndMethod(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error == nil || env.Error.Code != ErrCodeNotFound {
		t.Errorf("error = %+v", env.Error)
	}

	rec = ts.do(t, http.MethodGet, "/api/v1/feedback", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error == nil || env.Error.Code != ErrCodeMethodNotAllowed {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestRouter_RequestIDInMeta(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "trace-123")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "trace-123" {
		t.Errorf("X-Request-ID header = %q", got)
	}
	env := decodeEnvelope(t, rec)
	if env.Meta == nil || env.Meta.RequestID != "trace-123" {
		t.Errorf("meta = %+v", env.Meta)
	}
}

func TestRouter_SecurityHeadersOnAPIRoutes(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/users/u1/preferences", nil)
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing X-Content-Type-Options")
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Error("missing Cache-Control: no-store")
	}
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "api_active_requests") {
		t.Error("metrics output missing api_active_requests")
	}
}

func TestRouter_RateLimit(t *testing.T) {
	t.Parallel()

	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitRequests = 2
	mw.RateLimitWindow = time.Minute
	handler := newRoutedHandler(t, NewChiMiddleware(mw))

	// Aliased and versioned routes share one budget
	paths := []string{"/api/v1/users/u1/preferences", "/users/u1/preferences", "/api/v1/users/u1/preferences"}
	var codes []int
	for _, p := range paths {
		req := httptest.NewRequest(http.MethodGet, p, nil)
		req.RemoteAddr = "192.0.2.10:4321"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)

		if rec.Code == http.StatusTooManyRequests {
			if env := decodeEnvelope(t, rec); env.Error == nil || env.Error.Code != ErrCodeTooManyRequests {
				t.Errorf("429 error = %+v", env.Error)
			}
		}
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("status codes = %v, want [200 200 429]", codes)
	}
}

func TestRouter_HealthNotRateLimited(t *testing.T) {
	t.Parallel()

	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitRequests = 1
	handler := newRoutedHandler(t, NewChiMiddleware(mw))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "192.0.2.11:4321"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, rec.Code)
		}
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()

	handler := newRoutedHandler(t, NewChiMiddlewareFromConfig(&config.SecurityConfig{
		CORSOrigins:       []string{"https://app.example"},
		RateLimitDisabled: true,
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/suggestions", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/suggestions", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("disallowed origin got Access-Control-Allow-Origin = %q", got)
	}
}
