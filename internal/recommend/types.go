// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package recommend

import (
	"strings"
	"time"
)

// Attribute types that the ranker reads.
const (
	PreferenceTypeCuisine  = "cuisine"
	PreferenceTypeCategory = "category"
)

// Score bounds and the score assigned to a newly created preference.
const (
	MinScore     = 0.0
	MaxScore     = 1.0
	DefaultScore = 0.5
)

// Rating scale.
const (
	MinRating = 1
	MaxRating = 5

	// HardNegativeRating excludes a place from all future rankings for the user.
	HardNegativeRating = 1

	// NeutralRating is the midpoint of the scale. Ratings above it are positive.
	NeutralRating = 3
)

// Place is a candidate point of interest in normalized form.
type Place struct {
	// LocationID is the upstream provider's identifier.
	LocationID string `json:"location_id"`

	// Name is the display name.
	Name string `json:"name"`

	// Category is the lower-cased place category, or "" when unknown.
	Category string `json:"category,omitempty"`

	// Cuisine holds lower-cased cuisine tags. Never nil after normalization.
	Cuisine []string `json:"cuisine"`

	// Distance is passed through from the provider for display.
	Distance string `json:"distance,omitempty"`

	// Rating is the provider's aggregate rating, 0 when unknown.
	Rating float64 `json:"rating,omitempty"`

	NumReviews int    `json:"num_reviews,omitempty"`
	PriceLevel string `json:"price_level,omitempty"`
	Address    string `json:"address,omitempty"`
	WebURL     string `json:"web_url,omitempty"`
}

// Preference is a persisted belief strength that a user likes an attribute value.
type Preference struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"preference_type"`
	Name      string    `json:"preference_name"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Key returns the composite lookup key for the preference.
func (p Preference) Key() PreferenceKey {
	return NewPreferenceKey(p.Type, p.Name)
}

// PreferenceKey identifies a preference within one user's set.
type PreferenceKey struct {
	Type string
	Name string
}

// NewPreferenceKey builds a key from raw attribute values, normalizing both parts.
func NewPreferenceKey(prefType, name string) PreferenceKey {
	return PreferenceKey{Type: NormalizeAttribute(prefType), Name: NormalizeAttribute(name)}
}

// PreferenceMap is a user's preference set indexed for O(1) lookup during ranking.
type PreferenceMap map[PreferenceKey]float64

// NewPreferenceMap indexes prefs by key. A later duplicate key overwrites an earlier one.
//
//nolint:gocritic // rangeValCopy: Preference passed by value for clarity
func NewPreferenceMap(prefs []Preference) PreferenceMap {
	m := make(PreferenceMap, len(prefs))
	for _, p := range prefs {
		m[p.Key()] = p.Score
	}
	return m
}

// Score returns the stored score, or 0 when the attribute has never been seen.
func (m PreferenceMap) Score(prefType, name string) float64 {
	if name == "" {
		return 0
	}
	return m[NewPreferenceKey(prefType, name)]
}

// PreferenceInput carries administrative preference writes. On update only
// non-empty Type and Name are applied, and Score only when non-nil.
type PreferenceInput struct {
	Type  string   `json:"preference_type"`
	Name  string   `json:"preference_name"`
	Score *float64 `json:"score,omitempty"`
}

// Feedback is an immutable rating event.
type Feedback struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	LocationID string    `json:"location_id"`
	Rating     int       `json:"rating"`
	CreatedAt  time.Time `json:"created_at"`
}

// Positive reports whether the rating counts as positive signal.
func (f Feedback) Positive() bool {
	return f.Rating > NeutralRating
}

// FeedbackHistory maps a location to the user's most recent rating of it.
type FeedbackHistory map[string]int

// NewFeedbackHistory collapses events in recording order; the last rating
// for a location wins.
//
//nolint:gocritic // rangeValCopy: Feedback passed by value for clarity
func NewFeedbackHistory(events []Feedback) FeedbackHistory {
	h := make(FeedbackHistory, len(events))
	for _, e := range events {
		h[e.LocationID] = e.Rating
	}
	return h
}

// Rating returns the last rating for a location and whether one exists.
func (h FeedbackHistory) Rating(locationID string) (int, bool) {
	r, ok := h[locationID]
	return r, ok
}

// Adjustment is a signed change to one preference score.
type Adjustment struct {
	Type  string
	Name  string
	Delta float64
}

// Key returns the normalized key the adjustment targets.
func (a Adjustment) Key() PreferenceKey {
	return NewPreferenceKey(a.Type, a.Name)
}

// ScoreBreakdown records each term of a place's ranking score.
type ScoreBreakdown struct {
	Cuisine  float64 `json:"cuisine"`
	Category float64 `json:"category"`
	Feedback float64 `json:"feedback"`
}

// ScoredPlace is a ranked candidate.
type ScoredPlace struct {
	Place

	// Score is the sum of the breakdown terms.
	Score float64 `json:"score"`

	// Breakdown explains how Score was computed.
	Breakdown ScoreBreakdown `json:"score_breakdown"`
}

// SuggestionRequest asks for suggestions near a coordinate.
type SuggestionRequest struct {
	UserID    string
	Latitude  float64
	Longitude float64
}

// Suggestion is the narrated result of a suggestion request.
type Suggestion struct {
	// Text is the narration returned by the language model.
	Text string `json:"suggestion"`

	// Places are the top ranked places, best first.
	Places []ScoredPlace `json:"places"`
}

// IngestResult describes what a feedback submission changed.
type IngestResult struct {
	// Feedback is the recorded event, including its assigned ID.
	Feedback Feedback `json:"feedback"`

	// PreferencesUpdated is false when the place could not be resolved
	// or carried no attributes to learn from.
	PreferencesUpdated bool `json:"preferences_updated"`

	// Preferences holds the rows after adjustment.
	Preferences []Preference `json:"preferences,omitempty"`
}

// NormalizeAttribute lower-cases and trims an attribute value.
func NormalizeAttribute(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ClampScore bounds a score to [MinScore, MaxScore].
func ClampScore(s float64) float64 {
	switch {
	case s < MinScore:
		return MinScore
	case s > MaxScore:
		return MaxScore
	default:
		return s
	}
}
