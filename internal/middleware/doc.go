// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

/*
Package middleware provides HTTP middleware components for the API server.

Key Components:

  - Request ID: UUID-based request tracking, mirrored into the logging context
  - Access Log: one structured zerolog line per request
  - Prometheus Metrics: HTTP request/response instrumentation keyed by route pattern

All middleware has the func(http.Handler) http.Handler shape so it can be
mounted with chi's r.Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)

Order matters: RequestID runs first so the access log and error responses
carry the same request_id.
*/
package middleware
