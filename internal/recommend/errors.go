// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package recommend

import "errors"

// Sentinel errors. Wrap with fmt.Errorf("...: %w", err) and match with errors.Is.
var (
	// ErrNotFound means the referenced row is absent or not owned by the caller.
	ErrNotFound = errors.New("not found")

	// ErrValidation means the request is malformed.
	ErrValidation = errors.New("validation failed")

	// ErrConflict means a write would duplicate an existing preference key.
	ErrConflict = errors.New("preference already exists")

	// ErrUpstreamUnavailable means the location or narration provider failed or timed out.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrInconsistent means a preference adjustment could not be committed
	// atomically. Nothing was applied and the caller may retry.
	ErrInconsistent = errors.New("preference update not committed")

	// ErrSuggestionFailed is the single error surfaced for any failure while
	// generating a suggestion.
	ErrSuggestionFailed = errors.New("suggestion generation failed")
)
