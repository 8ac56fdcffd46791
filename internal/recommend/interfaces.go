// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package recommend

import "context"

// PreferenceStore persists per-user preference scores.
type PreferenceStore interface {
	// ListPreferences returns the user's preferences in creation order.
	ListPreferences(ctx context.Context, userID string) ([]Preference, error)

	// UpsertPreference returns the existing row for (userID, type, name) or
	// creates it with DefaultScore.
	UpsertPreference(ctx context.Context, userID, prefType, name string) (*Preference, error)

	// ApplyAdjustments upserts each target row and sets its score to
	// ClampScore(score + delta). Either every adjustment commits or none do.
	ApplyAdjustments(ctx context.Context, userID string, adjustments []Adjustment) ([]Preference, error)
}

// FeedbackStore is an insert-only log of rating events.
type FeedbackStore interface {
	// RecordFeedback inserts the event and returns it with ID and CreatedAt set.
	RecordFeedback(ctx context.Context, fb Feedback) (*Feedback, error)

	// ListFeedback returns the user's events in recording order.
	ListFeedback(ctx context.Context, userID string) ([]Feedback, error)
}

// LocationProvider supplies normalized places.
type LocationProvider interface {
	// NearbyPlaces returns places of one category around a coordinate.
	NearbyPlaces(ctx context.Context, lat, lon float64, category string) ([]Place, error)

	// PlaceDetails resolves a single place. A nil place with a nil error
	// means the provider has no record of it.
	PlaceDetails(ctx context.Context, locationID string) (*Place, error)
}

// Narrator phrases ranked places for the user.
type Narrator interface {
	Narrate(ctx context.Context, preferencesText, placesText string) (string, error)
}
