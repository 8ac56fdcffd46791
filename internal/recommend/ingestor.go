// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package recommend

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wayfinder/internal/logging"
	"github.com/tomtom215/wayfinder/internal/metrics"
)

// Ingestor turns rating events into preference updates.
//
// Ingest is not idempotent: submitting the same rating twice moves the
// affected scores twice.
type Ingestor struct {
	feedback       FeedbackStore
	prefs          PreferenceStore
	places         LocationProvider
	learningRate   float64
	updateCategory bool
	logger         zerolog.Logger
}

// NewIngestor creates an ingestor. learningRate is the per-event score step.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewIngestor(feedback FeedbackStore, prefs PreferenceStore, places LocationProvider, learningRate float64, updateCategory bool, logger zerolog.Logger) *Ingestor {
	return &Ingestor{
		feedback:       feedback,
		prefs:          prefs,
		places:         places,
		learningRate:   learningRate,
		updateCategory: updateCategory,
		logger:         logger.With().Str("component", "ingestor").Logger(),
	}
}

// ValidateFeedback checks a feedback event before it is recorded.
//
//nolint:gocritic // hugeParam: Feedback is a small value type
func ValidateFeedback(fb Feedback) error {
	if strings.TrimSpace(fb.UserID) == "" {
		return fmt.Errorf("%w: user_id is required", ErrValidation)
	}
	if strings.TrimSpace(fb.LocationID) == "" {
		return fmt.Errorf("%w: location_id is required", ErrValidation)
	}
	if fb.Rating < MinRating || fb.Rating > MaxRating {
		return fmt.Errorf("%w: rating must be between %d and %d, got %d", ErrValidation, MinRating, MaxRating, fb.Rating)
	}
	return nil
}

// Ingest records the event, then updates preferences from the rated place.
//
// The event is always recorded first. If the place cannot be resolved the
// preference update is skipped and Ingest still succeeds. If the update
// cannot be committed, the event stays recorded and an error wrapping
// ErrInconsistent is returned.
//
//nolint:gocritic // hugeParam: Feedback is a small value type
func (i *Ingestor) Ingest(ctx context.Context, fb Feedback) (*IngestResult, error) {
	if err := ValidateFeedback(fb); err != nil {
		return nil, err
	}

	recorded, err := i.feedback.RecordFeedback(ctx, fb)
	if err != nil {
		return nil, fmt.Errorf("record feedback: %w", err)
	}
	metrics.FeedbackEvents.WithLabelValues(ratingSign(recorded.Rating)).Inc()
	result := &IngestResult{Feedback: *recorded}

	logger := i.logger.With().
		Str("user_id", recorded.UserID).
		Str("location_id", recorded.LocationID).
		Str("request_id", logging.RequestIDFromContext(ctx)).
		Logger()

	place, err := i.places.PlaceDetails(ctx, recorded.LocationID)
	if err != nil {
		logger.Warn().Err(err).Msg("Place details unavailable, skipping preference update")
		return result, nil
	}
	if place == nil {
		logger.Debug().Msg("Place not found upstream, skipping preference update")
		return result, nil
	}

	adjustments := i.Adjustments(*place, recorded.Rating)
	if len(adjustments) == 0 {
		return result, nil
	}

	updated, err := i.prefs.ApplyAdjustments(ctx, recorded.UserID, adjustments)
	if err != nil {
		logger.Error().Err(err).Int("adjustments", len(adjustments)).Msg("Preference update failed")
		return result, fmt.Errorf("apply preference adjustments: %w", err)
	}
	metrics.PreferenceAdjustments.Add(float64(len(adjustments)))

	result.PreferencesUpdated = true
	result.Preferences = updated
	logger.Debug().Int("adjustments", len(adjustments)).Msg("Preferences updated from feedback")
	return result, nil
}

// Adjustments computes the score changes one rating of place produces.
// Each distinct cuisine tag moves by +learningRate when the rating is above
// NeutralRating and by -learningRate otherwise. The category moves the same
// way only when category updates are enabled.
//
//nolint:gocritic // hugeParam: Place passed by value for clarity
func (i *Ingestor) Adjustments(place Place, rating int) []Adjustment {
	delta := -i.learningRate
	if rating > NeutralRating {
		delta = i.learningRate
	}

	seen := make(map[string]struct{}, len(place.Cuisine))
	adjustments := make([]Adjustment, 0, len(place.Cuisine)+1)
	for _, c := range place.Cuisine {
		name := NormalizeAttribute(c)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		adjustments = append(adjustments, Adjustment{Type: PreferenceTypeCuisine, Name: name, Delta: delta})
	}

	if i.updateCategory {
		if category := NormalizeAttribute(place.Category); category != "" {
			adjustments = append(adjustments, Adjustment{Type: PreferenceTypeCategory, Name: category, Delta: delta})
		}
	}
	return adjustments
}

func ratingSign(rating int) string {
	switch {
	case rating > NeutralRating:
		return "positive"
	case rating == HardNegativeRating:
		return "hard_negative"
	default:
		return "negative"
	}
}
