// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package recommend

import (
	"context"
	"math"
	"testing"

	"github.com/rs/zerolog"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func ids(places []ScoredPlace) []string {
	out := make([]string, len(places))
	for i, p := range places {
		out[i] = p.LocationID
	}
	return out
}

func equalIDs(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestRankPlaces(t *testing.T) {
	tests := []struct {
		name    string
		places  []Place
		prefs   PreferenceMap
		history FeedbackHistory
		want    []string
	}{
		{
			name: "preferred cuisine ranks first",
			places: []Place{
				{LocationID: "mex", Cuisine: []string{"mexican"}},
				{LocationID: "ita", Cuisine: []string{"italian"}},
			},
			prefs: PreferenceMap{NewPreferenceKey("cuisine", "italian"): 0.8},
			want:  []string{"ita", "mex"},
		},
		{
			name: "hard negative is excluded regardless of score",
			places: []Place{
				{LocationID: "x", Cuisine: []string{"italian"}, Category: "restaurant"},
				{LocationID: "y"},
			},
			prefs: PreferenceMap{
				NewPreferenceKey("cuisine", "italian"):    1.0,
				NewPreferenceKey("category", "restaurant"): 1.0,
			},
			history: FeedbackHistory{"x": 1},
			want:    []string{"y"},
		},
		{
			name: "ties keep input order",
			places: []Place{
				{LocationID: "a", Cuisine: []string{"thai"}},
				{LocationID: "b", Cuisine: []string{"sushi"}},
				{LocationID: "c", Cuisine: []string{"thai"}},
				{LocationID: "d"},
			},
			prefs: PreferenceMap{
				NewPreferenceKey("cuisine", "thai"):  0.5,
				NewPreferenceKey("cuisine", "sushi"): 0.5,
			},
			want: []string{"a", "b", "c", "d"},
		},
		{
			name: "category contributes",
			places: []Place{
				{LocationID: "museum", Category: "attraction"},
				{LocationID: "diner", Category: "restaurant"},
			},
			prefs: PreferenceMap{NewPreferenceKey("category", "restaurant"): 0.7},
			want:  []string{"diner", "museum"},
		},
		{
			name: "positive feedback lifts an otherwise neutral place",
			places: []Place{
				{LocationID: "a", Cuisine: []string{"thai"}},
				{LocationID: "b"},
			},
			prefs:   PreferenceMap{NewPreferenceKey("cuisine", "thai"): 0.3},
			history: FeedbackHistory{"b": 5},
			want:    []string{"b", "a"},
		},
		{
			name: "negative feedback pushes below unknowns",
			places: []Place{
				{LocationID: "a"},
				{LocationID: "b"},
			},
			history: FeedbackHistory{"a": 2},
			want:    []string{"b", "a"},
		},
		{
			name:   "empty input",
			places: nil,
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RankPlaces(tt.places, tt.prefs, tt.history, 0.2)
			if !equalIDs(ids(got), tt.want) {
				t.Errorf("RankPlaces() = %v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestRankPlaces_ScoreBreakdown(t *testing.T) {
	prefs := PreferenceMap{
		NewPreferenceKey("cuisine", "italian"):     0.8,
		NewPreferenceKey("cuisine", "pizza"):       0.6,
		NewPreferenceKey("category", "restaurant"): 0.4,
	}
	history := FeedbackHistory{"p1": 4}
	places := []Place{{LocationID: "p1", Category: "Restaurant", Cuisine: []string{"Italian", "pizza", "wine"}}}

	got := RankPlaces(places, prefs, history, 0.2)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}

	b := got[0].Breakdown
	if !approxEqual(b.Cuisine, 1.4) {
		t.Errorf("cuisine term = %v, want 1.4", b.Cuisine)
	}
	if !approxEqual(b.Category, 0.4) {
		t.Errorf("category term = %v, want 0.4", b.Category)
	}
	if !approxEqual(b.Feedback, 0.2) {
		t.Errorf("feedback term = %v, want 0.2", b.Feedback)
	}
	if !approxEqual(got[0].Score, 2.0) {
		t.Errorf("score = %v, want 2.0", got[0].Score)
	}
}

func TestRankPlaces_DuplicateCuisineCountsOnce(t *testing.T) {
	prefs := PreferenceMap{NewPreferenceKey("cuisine", "thai"): 0.6}
	places := []Place{{LocationID: "p", Cuisine: []string{"thai", "Thai", " thai "}}}

	got := RankPlaces(places, prefs, nil, 0.2)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if !approxEqual(got[0].Score, 0.6) {
		t.Errorf("score = %v, want 0.6", got[0].Score)
	}

	adjustments := NewIngestor(nil, nil, nil, 0.1, false, zerolog.Nop()).Adjustments(places[0], 5)
	if len(adjustments) != 1 {
		t.Errorf("adjustments = %+v, want one thai adjustment", adjustments)
	}
}

func TestRankPlaces_UnknownAttributesAreNeutral(t *testing.T) {
	places := []Place{{LocationID: "p", Category: "zoo", Cuisine: []string{"martian"}}}

	got := RankPlaces(places, PreferenceMap{}, FeedbackHistory{}, 0.2)

	if len(got) != 1 {
		t.Fatalf("unknown attributes must not exclude the place, got %d results", len(got))
	}
	if got[0].Score != 0 {
		t.Errorf("score = %v, want 0", got[0].Score)
	}
}

func TestRankPlaces_EmptyCategoryAndCuisine(t *testing.T) {
	prefs := PreferenceMap{NewPreferenceKey("category", ""): 0.9}
	places := []Place{{LocationID: "p", Category: "", Cuisine: nil}}

	got := RankPlaces(places, prefs, nil, 0.2)

	if len(got) != 1 || got[0].Score != 0 {
		t.Errorf("RankPlaces() = %+v, want a single zero-scored place", got)
	}
}

func TestFeedbackHistory_LastRatingWins(t *testing.T) {
	history := NewFeedbackHistory([]Feedback{
		{ID: 1, LocationID: "x", Rating: 1},
		{ID: 2, LocationID: "x", Rating: 5},
	})

	got := RankPlaces([]Place{{LocationID: "x"}}, nil, history, 0.2)
	if len(got) != 1 {
		t.Fatalf("a later rating of 5 should lift the exclusion, got %d results", len(got))
	}
	if !approxEqual(got[0].Score, 0.4) {
		t.Errorf("score = %v, want 0.4", got[0].Score)
	}
}

func TestRanker_Rank(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.setScore("u1", "cuisine", "italian", 0.8)
	if _, err := store.RecordFeedback(ctx, Feedback{UserID: "u1", LocationID: "bad", Rating: 1}); err != nil {
		t.Fatal(err)
	}
	// Another user's feedback must not leak into u1's ranking.
	if _, err := store.RecordFeedback(ctx, Feedback{UserID: "u2", LocationID: "ita", Rating: 1}); err != nil {
		t.Fatal(err)
	}

	ranker := NewRanker(store, store, 0.2)
	got, err := ranker.Rank(ctx, "u1", []Place{
		{LocationID: "mex", Cuisine: []string{"mexican"}},
		{LocationID: "bad", Cuisine: []string{"italian"}},
		{LocationID: "ita", Cuisine: []string{"italian"}},
	})
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	if want := []string{"ita", "mex"}; !equalIDs(ids(got), want) {
		t.Errorf("Rank() = %v, want %v", ids(got), want)
	}
}

func TestRanker_EmptyCandidates(t *testing.T) {
	ranker := NewRanker(newMemStore(), newMemStore(), 0.2)

	got, err := ranker.Rank(context.Background(), "u1", []Place{})
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Rank() = %v, want empty non-nil slice", got)
	}
}

func TestRanker_StoreError(t *testing.T) {
	store := newMemStore()
	store.failList = true

	_, err := NewRanker(store, store, 0.2).Rank(context.Background(), "u1", []Place{{LocationID: "a"}})
	if err == nil {
		t.Fatal("Rank() error = nil, want store error")
	}
}
