// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

/*
Package api provides the HTTP interface for Wayfinder.

Routing uses chi with the go-chi/cors and go-chi/httprate middleware. Every
JSON response uses the envelope in response.go:

	{
	  "success": true,
	  "data": {...},
	  "meta": {"timestamp": "...", "request_id": "..."}
	}

Errors carry a machine-readable code instead of data:

	{
	  "success": false,
	  "error": {"code": "NOT_FOUND", "message": "Preference not found"},
	  "meta": {...}
	}

Routes:

	GET    /                                           welcome message
	GET    /health                                     liveness and database ping
	GET    /metrics                                    Prometheus exposition
	POST   /api/v1/feedback                            record a rating
	POST   /api/v1/suggestions                         narrated suggestions near a coordinate
	GET    /api/v1/users/{userID}/preferences          list preferences
	POST   /api/v1/users/{userID}/preferences          create a preference
	GET    /api/v1/users/{userID}/preferences/{id}     get a preference
	PUT    /api/v1/users/{userID}/preferences/{id}     partial update
	DELETE /api/v1/users/{userID}/preferences/{id}     delete
	GET    /api/v1/users/{userID}/feedback             feedback history

The /feedback, /suggestions and /users routes are also mounted without the
/api/v1 prefix.

Service errors are mapped to status codes in errors.go using errors.Is on the
sentinels declared by the recommend package.
*/
package api
