// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package database

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/wayfinder/internal/config"
)

// testDBSemaphore limits concurrent database creation to prevent resource exhaustion in CI.
// Too many concurrent DuckDB CGO calls can cause hangs, so tests are fully serialized.
var testDBSemaphore = make(chan struct{}, 1)

// testDBMutex serializes database creation.
var testDBMutex sync.Mutex

// setupTestDB creates a new in-memory test database with timeout protection.
// The semaphore is held for the entire test and released via t.Cleanup.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	cfg := &config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "1GB",
	}
	return openTestDB(t, cfg)
}

func openTestDB(t *testing.T, cfg *config.DatabaseConfig) *DB {
	t.Helper()

	type result struct {
		db  *DB
		err error
	}

	resultCh := make(chan result, 1)
	go func() {
		testDBMutex.Lock()
		db, err := New(cfg)
		testDBMutex.Unlock()
		resultCh <- result{db: db, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			t.Fatalf("Failed to create test database: %v", res.err)
		}
		t.Cleanup(func() { _ = res.db.Close() })
		return res.db
	case <-time.After(120 * time.Second):
		t.Fatalf("Timeout: database creation took longer than 120s (DuckDB may be under resource pressure)")
		return nil
	}
}

func TestNew_RunsMigrations(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	version, err := db.GetCurrentSchemaVersion(ctx)
	if err != nil {
		t.Fatalf("GetCurrentSchemaVersion() error = %v", err)
	}
	want := len(db.getMigrations())
	if version != want {
		t.Errorf("schema version = %d, want %d", version, want)
	}

	if err := db.Ping(ctx); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestNew_MigrationsIdempotentOnReopen(t *testing.T) {
	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	path := filepath.Join(t.TempDir(), "nested", "wayfinder.duckdb")
	cfg := &config.DatabaseConfig{Path: path, MaxMemory: "512MB", Threads: 1}

	db, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()
	if _, err := db.RecordFeedback(ctx, feedbackEvent("u1", "loc-1", 4)); err != nil {
		t.Fatalf("RecordFeedback() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := New(cfg)
	if err != nil {
		t.Fatalf("reopen New() error = %v", err)
	}
	defer reopened.Close()

	events, err := reopened.ListFeedback(ctx, "u1")
	if err != nil {
		t.Fatalf("ListFeedback() error = %v", err)
	}
	if len(events) != 1 {
		t.Errorf("expected feedback to survive reopen, got %d events", len(events))
	}
}

func TestEnsureContext(t *testing.T) {
	db := &DB{}

	ctx, cancel := db.ensureContext(context.Background())
	defer cancel()
	if _, ok := ctx.Deadline(); !ok {
		t.Error("expected a deadline to be added")
	}

	parent, parentCancel := context.WithTimeout(context.Background(), time.Second)
	defer parentCancel()
	same, cancel2 := db.ensureContext(parent)
	defer cancel2()
	if same != parent {
		t.Error("expected context with deadline to be returned unchanged")
	}
}

func TestIsTransactionConflict(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"TransactionContext Error: Transaction conflict: cannot update", true},
		{"Conflict on update!", true},
		{"Constraint Error: duplicate key", false},
	}
	for _, tt := range tests {
		if got := isTransactionConflict(errString(tt.msg)); got != tt.want {
			t.Errorf("isTransactionConflict(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
	if isTransactionConflict(nil) {
		t.Error("nil error must not be a conflict")
	}
}

type errString string

func (e errString) Error() string { return string(e) }
