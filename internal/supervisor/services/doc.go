// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

// Package services adapts Wayfinder's long-running components to the
// suture.Service interface: the HTTP server and periodic maintenance tasks.
package services
