// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/wayfinder/internal/recommend"
)

type fakeEngine struct {
	mu          sync.Mutex
	feedback    []recommend.Feedback
	suggestReqs []recommend.SuggestionRequest

	ingestResult *recommend.IngestResult
	ingestErr    error
	suggestion   *recommend.Suggestion
	suggestErr   error
}

func (f *fakeEngine) SubmitFeedback(_ context.Context, fb recommend.Feedback) (*recommend.IngestResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feedback = append(f.feedback, fb)
	if f.ingestErr != nil {
		return f.ingestResult, f.ingestErr
	}
	if f.ingestResult != nil {
		return f.ingestResult, nil
	}
	fb.ID = int64(len(f.feedback))
	return &recommend.IngestResult{Feedback: fb}, nil
}

func (f *fakeEngine) Suggest(_ context.Context, req recommend.SuggestionRequest) (*recommend.Suggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suggestReqs = append(f.suggestReqs, req)
	if f.suggestErr != nil {
		return nil, f.suggestErr
	}
	return f.suggestion, nil
}

// fakePreferences mirrors the ownership and partial update rules of the
// database implementation.
type fakePreferences struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]recommend.Preference
	err    error
}

func newFakePreferences() *fakePreferences {
	return &fakePreferences{rows: make(map[int64]recommend.Preference)}
}

func (f *fakePreferences) seed(userID, prefType, name string, score float64) recommend.Preference {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p := recommend.Preference{ID: f.nextID, UserID: userID, Type: prefType, Name: name, Score: score}
	f.rows[p.ID] = p
	return p
}

func (f *fakePreferences) ListPreferences(_ context.Context, userID string) ([]recommend.Preference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []recommend.Preference{}
	for id := int64(1); id <= f.nextID; id++ {
		if p, ok := f.rows[id]; ok && p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePreferences) GetPreference(_ context.Context, userID string, id int64) (*recommend.Preference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok || p.UserID != userID {
		return nil, fmt.Errorf("preference %d: %w", id, recommend.ErrNotFound)
	}
	return &p, nil
}

func (f *fakePreferences) CreatePreference(_ context.Context, userID string, in recommend.PreferenceInput) (*recommend.Preference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.rows {
		if p.UserID == userID && p.Type == in.Type && p.Name == in.Name {
			return nil, fmt.Errorf("%s/%s: %w", in.Type, in.Name, recommend.ErrConflict)
		}
	}
	score := recommend.DefaultScore
	if in.Score != nil {
		score = *in.Score
	}
	f.nextID++
	p := recommend.Preference{ID: f.nextID, UserID: userID, Type: in.Type, Name: in.Name, Score: score}
	f.rows[p.ID] = p
	return &p, nil
}

func (f *fakePreferences) UpdatePreference(_ context.Context, userID string, id int64, in recommend.PreferenceInput) (*recommend.Preference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok || p.UserID != userID {
		return nil, fmt.Errorf("preference %d: %w", id, recommend.ErrNotFound)
	}
	if in.Type != "" {
		p.Type = in.Type
	}
	if in.Name != "" {
		p.Name = in.Name
	}
	if in.Score != nil {
		p.Score = *in.Score
	}
	f.rows[id] = p
	return &p, nil
}

func (f *fakePreferences) DeletePreference(_ context.Context, userID string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok || p.UserID != userID {
		return fmt.Errorf("preference %d: %w", id, recommend.ErrNotFound)
	}
	delete(f.rows, id)
	return nil
}

type fakeFeedback struct {
	events []recommend.Feedback
}

func (f *fakeFeedback) ListFeedback(_ context.Context, userID string) ([]recommend.Feedback, error) {
	out := []recommend.Feedback{}
	for _, e := range f.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeHealth struct {
	err error
}

func (f fakeHealth) Ping(context.Context) error { return f.err }

var errPingFailed = errors.New("database is closed")

// testServer bundles the fakes behind a fully routed handler.
type testServer struct {
	engine      *fakeEngine
	preferences *fakePreferences
	feedback    *fakeFeedback
	handler     http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithHealth(t, fakeHealth{})
}

func newTestServerWithHealth(t *testing.T, health HealthChecker) *testServer {
	t.Helper()

	ts := &testServer{
		engine:      &fakeEngine{},
		preferences: newFakePreferences(),
		feedback:    &fakeFeedback{},
	}
	h, err := NewHandler(Dependencies{
		Engine:      ts.engine,
		Preferences: ts.preferences,
		Feedback:    ts.feedback,
		Health:      health,
	}, 5*time.Second)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitDisabled = true
	ts.handler = NewRouter(h, NewChiMiddleware(mw)).Setup()
	return ts
}

// do sends a request with an optional JSON body.
func (ts *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			if err := json.NewEncoder(&buf).Encode(b); err != nil {
				t.Fatalf("encode body: %v", err)
			}
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

// envelope is the decoded response with Data left raw for per-test decoding.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

func decodeData(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }
