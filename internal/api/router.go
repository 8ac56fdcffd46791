// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/wayfinder/internal/middleware"
)

// Router sets up HTTP routes using Chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil mw uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)         // X-Request-ID header and logging context
	r.Use(chimiddleware.RealIP)         // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)      // Recover from panics
	r.Use(middleware.AccessLog)         // One log line per request
	r.Use(middleware.PrometheusMetrics) // Labelled by route pattern
	r.Use(router.chiMiddleware.CORS())  // CORS must be global to handle OPTIONS preflight

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		NewResponseWriter(w, req).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		NewResponseWriter(w, req).Error(http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	// ========================
	// Service Endpoints
	// ========================
	r.Get("/", router.handler.Welcome)
	r.Get("/health", router.handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// Core API Endpoints
	// ========================
	// One limiter shared by the versioned routes and their aliases, so a
	// client cannot double its budget by switching prefixes.
	limiter := router.chiMiddleware.RateLimit()
	routes := func(r chi.Router) {
		r.Use(limiter)
		r.Use(APISecurityHeaders())

		r.Post("/feedback", router.handler.SubmitFeedback)
		r.Post("/suggestions", router.handler.Suggestions)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/feedback", router.handler.ListFeedback)

			r.Route("/preferences", func(r chi.Router) {
				r.Get("/", router.handler.ListPreferences)
				r.Post("/", router.handler.CreatePreference)
				r.Get("/{preferenceID}", router.handler.GetPreference)
				r.Put("/{preferenceID}", router.handler.UpdatePreference)
				r.Delete("/{preferenceID}", router.handler.DeletePreference)
			})
		})
	}

	r.Route("/api/v1", routes)
	r.Group(routes) // unprefixed aliases

	return r
}
