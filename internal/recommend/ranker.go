// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/wayfinder/internal/metrics"
)

// Ranker orders candidate places by a user's learned preferences.
//
// The score of a place is
//
//	score = Σ pref(cuisine, c) for c in place.Cuisine
//	      + pref(category, place.Category)
//	      + (lastRating - NeutralRating) * FeedbackWeight   if the user rated it
//
// where pref returns 0 for attributes the user has no score for. Places the
// user last rated HardNegativeRating are dropped before scoring.
type Ranker struct {
	prefs          PreferenceStore
	feedback       FeedbackStore
	feedbackWeight float64
}

// NewRanker creates a ranker reading from the given stores.
func NewRanker(prefs PreferenceStore, feedback FeedbackStore, feedbackWeight float64) *Ranker {
	return &Ranker{prefs: prefs, feedback: feedback, feedbackWeight: feedbackWeight}
}

// Rank returns every non-excluded place, best first. Ties keep input order.
func (r *Ranker) Rank(ctx context.Context, userID string, places []Place) ([]ScoredPlace, error) {
	ranked, _, err := r.rank(ctx, userID, places)
	return ranked, err
}

// rank also returns the preference rows it read so callers can reuse them.
func (r *Ranker) rank(ctx context.Context, userID string, places []Place) ([]ScoredPlace, []Preference, error) {
	start := time.Now()

	prefs, err := r.prefs.ListPreferences(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("load preferences: %w", err)
	}
	if len(places) == 0 {
		return []ScoredPlace{}, prefs, nil
	}

	events, err := r.feedback.ListFeedback(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("load feedback history: %w", err)
	}

	ranked := RankPlaces(places, NewPreferenceMap(prefs), NewFeedbackHistory(events), r.feedbackWeight)
	metrics.RankingDuration.Observe(time.Since(start).Seconds())
	metrics.RankedCandidates.Observe(float64(len(places)))
	return ranked, prefs, nil
}

// RankPlaces is the pure ranking function behind Ranker.
//
//nolint:gocritic // rangeValCopy: Place passed by value for clarity
func RankPlaces(places []Place, prefs PreferenceMap, history FeedbackHistory, feedbackWeight float64) []ScoredPlace {
	ranked := make([]ScoredPlace, 0, len(places))
	for _, p := range places {
		if rating, ok := history.Rating(p.LocationID); ok && rating == HardNegativeRating {
			continue
		}
		ranked = append(ranked, scorePlace(p, prefs, history, feedbackWeight))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

//nolint:gocritic // hugeParam: Place is copied into the result anyway
func scorePlace(p Place, prefs PreferenceMap, history FeedbackHistory, feedbackWeight float64) ScoredPlace {
	var b ScoreBreakdown
	// A cuisine counts once however often it is tagged, matching Adjustments.
	seen := make(map[string]struct{}, len(p.Cuisine))
	for _, c := range p.Cuisine {
		name := NormalizeAttribute(c)
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		b.Cuisine += prefs.Score(PreferenceTypeCuisine, name)
	}
	b.Category = prefs.Score(PreferenceTypeCategory, p.Category)
	if rating, ok := history.Rating(p.LocationID); ok {
		b.Feedback = float64(rating-NeutralRating) * feedbackWeight
	}

	return ScoredPlace{
		Place:     p,
		Score:     b.Cuisine + b.Category + b.Feedback,
		Breakdown: b,
	}
}
