// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package recommend

import (
	"context"
	"errors"
	"sync"
	"time"
)

// memStore is an in-memory PreferenceStore and FeedbackStore.
type memStore struct {
	mu       sync.Mutex
	nextID   int64
	prefs    []Preference
	feedback []Feedback

	// failApply makes ApplyAdjustments fail without changing anything.
	failApply bool
	// failList makes ListPreferences fail.
	failList bool
}

func newMemStore() *memStore {
	return &memStore{}
}

func (m *memStore) ListPreferences(_ context.Context, userID string) ([]Preference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList {
		return nil, errors.New("list failed")
	}
	out := []Preference{}
	for _, p := range m.prefs {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) UpsertPreference(_ context.Context, userID, prefType, name string) (*Preference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.upsertLocked(userID, NewPreferenceKey(prefType, name))
	p := m.prefs[idx]
	return &p, nil
}

func (m *memStore) upsertLocked(userID string, key PreferenceKey) int {
	for i, p := range m.prefs {
		if p.UserID == userID && p.Key() == key {
			return i
		}
	}
	m.nextID++
	now := time.Now()
	m.prefs = append(m.prefs, Preference{
		ID: m.nextID, UserID: userID, Type: key.Type, Name: key.Name,
		Score: DefaultScore, CreatedAt: now, UpdatedAt: now,
	})
	return len(m.prefs) - 1
}

func (m *memStore) ApplyAdjustments(_ context.Context, userID string, adjustments []Adjustment) ([]Preference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failApply {
		return nil, ErrInconsistent
	}
	out := make([]Preference, 0, len(adjustments))
	for _, a := range adjustments {
		idx := m.upsertLocked(userID, a.Key())
		m.prefs[idx].Score = ClampScore(m.prefs[idx].Score + a.Delta)
		out = append(out, m.prefs[idx])
	}
	return out, nil
}

func (m *memStore) setScore(userID, prefType, name string, score float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.upsertLocked(userID, NewPreferenceKey(prefType, name))
	m.prefs[idx].Score = score
}

func (m *memStore) score(userID, prefType, name string) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := NewPreferenceKey(prefType, name)
	for _, p := range m.prefs {
		if p.UserID == userID && p.Key() == key {
			return p.Score, true
		}
	}
	return 0, false
}

func (m *memStore) RecordFeedback(_ context.Context, fb Feedback) (*Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	fb.ID = m.nextID
	fb.CreatedAt = time.Now()
	m.feedback = append(m.feedback, fb)
	return &fb, nil
}

func (m *memStore) ListFeedback(_ context.Context, userID string) ([]Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Feedback{}
	for _, f := range m.feedback {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

// fakePlaces serves fixed places per category and per location.
type fakePlaces struct {
	mu         sync.Mutex
	byCategory map[string][]Place
	details    map[string]*Place
	nearbyErr  error
	detailsErr error
	calls      []string
}

func (f *fakePlaces) NearbyPlaces(_ context.Context, _, _ float64, category string) ([]Place, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, category)
	if f.nearbyErr != nil {
		return nil, f.nearbyErr
	}
	return f.byCategory[category], nil
}

func (f *fakePlaces) PlaceDetails(_ context.Context, locationID string) (*Place, error) {
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	return f.details[locationID], nil
}

// fakeNarrator records its inputs.
type fakeNarrator struct {
	text            string
	err             error
	preferencesText string
	placesText      string
}

func (f *fakeNarrator) Narrate(_ context.Context, preferencesText, placesText string) (string, error) {
	f.preferencesText = preferencesText
	f.placesText = placesText
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}
