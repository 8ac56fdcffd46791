// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/wayfinder/internal/database/query"
	"github.com/tomtom215/wayfinder/internal/logging"
	"github.com/tomtom215/wayfinder/internal/metrics"
	"github.com/tomtom215/wayfinder/internal/recommend"
)

const preferenceColumns = `id, user_id, preference_type, preference_name, score, created_at, updated_at`

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPreference(s rowScanner) (*recommend.Preference, error) {
	var p recommend.Preference
	if err := s.Scan(&p.ID, &p.UserID, &p.Type, &p.Name, &p.Score, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// now returns the current time at DuckDB's microsecond precision
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// ListPreferences returns the user's preferences in creation order
func (db *DB) ListPreferences(ctx context.Context, userID string) (prefs []recommend.Preference, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("select", "user_preferences", start, err) }()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+preferenceColumns+` FROM user_preferences WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer closeWithLog(ctx, rows, "rows")

	prefs = []recommend.Preference{}
	for rows.Next() {
		p, err := scanPreference(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		prefs = append(prefs, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate preferences: %w", err)
	}
	return prefs, nil
}

// UpsertPreference returns the existing row for the key or creates it with
// recommend.DefaultScore
func (db *DB) UpsertPreference(ctx context.Context, userID, prefType, name string) (*recommend.Preference, error) {
	key := recommend.NewPreferenceKey(prefType, name)
	if userID == "" || key.Type == "" || key.Name == "" {
		return nil, fmt.Errorf("%w: user_id, preference_type and preference_name are required", recommend.ErrValidation)
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	mu := db.acquireUserLock(userID)
	defer mu.Unlock()

	existing, err := findPreference(ctx, db.conn, userID, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	return insertPreference(ctx, db.conn, userID, key, recommend.DefaultScore)
}

// ApplyAdjustments upserts each target row and moves its score by the
// adjustment delta, clamped to [0, 1]. All adjustments commit in one
// transaction. Any failure is reported wrapping recommend.ErrInconsistent
// and leaves every score untouched.
func (db *DB) ApplyAdjustments(ctx context.Context, userID string, adjustments []recommend.Adjustment) ([]recommend.Preference, error) {
	if len(adjustments) == 0 {
		return []recommend.Preference{}, nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	mu := db.acquireUserLock(userID)
	defer mu.Unlock()

	var lastErr error
	for attempt := 0; attempt <= db.maxConflictRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt*attempt) * 10 * time.Millisecond
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %w", recommend.ErrInconsistent, ctx.Err())
			case <-time.After(backoff):
			}
		}

		updated, err := db.applyAdjustmentsTx(ctx, userID, adjustments)
		if err == nil {
			return updated, nil
		}
		lastErr = err
		if !isTransactionConflict(err) {
			break
		}
		logging.Warn().
			Err(err).
			Str("user_id", userID).
			Int("attempt", attempt+1).
			Msg("Preference transaction conflict, retrying")
	}
	return nil, fmt.Errorf("%w: %w", recommend.ErrInconsistent, lastErr)
}

func (db *DB) applyAdjustmentsTx(ctx context.Context, userID string, adjustments []recommend.Adjustment) (updated []recommend.Preference, err error) {
	start := time.Now()
	defer func() { observe("apply_adjustments", "user_preferences", start, err) }()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			metrics.DBTransactionRollbacks.WithLabelValues("apply_adjustments").Inc()
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logging.Error().
					Err(rbErr).
					AnErr("original_error", err).
					Msg("Transaction rollback failed")
			}
		}
	}()

	updated = make([]recommend.Preference, 0, len(adjustments))
	for _, adj := range adjustments {
		key := adj.Key()
		if key.Type == "" || key.Name == "" {
			return nil, fmt.Errorf("adjustment has empty preference key")
		}

		current, err := findPreference(ctx, tx, userID, key)
		if err != nil {
			return nil, err
		}

		if current == nil {
			p, err := insertPreference(ctx, tx, userID, key, recommend.ClampScore(recommend.DefaultScore+adj.Delta))
			if err != nil {
				return nil, err
			}
			updated = append(updated, *p)
			continue
		}

		current.Score = recommend.ClampScore(current.Score + adj.Delta)
		current.UpdatedAt = now()
		if _, err := tx.ExecContext(ctx,
			`UPDATE user_preferences SET score = ?, updated_at = ? WHERE id = ?`,
			current.Score, current.UpdatedAt, current.ID); err != nil {
			return nil, fmt.Errorf("failed to update preference %d: %w", current.ID, err)
		}
		updated = append(updated, *current)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return updated, nil
}

// GetPreference returns one of the user's preferences by id.
func (db *DB) GetPreference(ctx context.Context, userID string, id int64) (*recommend.Preference, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	return getPreference(ctx, db.conn, userID, id)
}

// CreatePreference inserts a preference for the user. Score defaults to
// recommend.DefaultScore and is clamped when given. A duplicate key yields
// recommend.ErrConflict.
func (db *DB) CreatePreference(ctx context.Context, userID string, in recommend.PreferenceInput) (*recommend.Preference, error) {
	key := recommend.NewPreferenceKey(in.Type, in.Name)
	if userID == "" || key.Type == "" || key.Name == "" {
		return nil, fmt.Errorf("%w: user_id, preference_type and preference_name are required", recommend.ErrValidation)
	}
	score := recommend.DefaultScore
	if in.Score != nil {
		score = recommend.ClampScore(*in.Score)
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	mu := db.acquireUserLock(userID)
	defer mu.Unlock()

	existing, err := findPreference(ctx, db.conn, userID, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%s %q: %w", key.Type, key.Name, recommend.ErrConflict)
	}
	return insertPreference(ctx, db.conn, userID, key, score)
}

// UpdatePreference applies the non-empty fields of in to the user's
// preference. Renaming onto another existing key yields recommend.ErrConflict.
func (db *DB) UpdatePreference(ctx context.Context, userID string, id int64, in recommend.PreferenceInput) (p *recommend.Preference, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	mu := db.acquireUserLock(userID)
	defer mu.Unlock()

	current, err := getPreference(ctx, db.conn, userID, id)
	if err != nil {
		return nil, err
	}

	prefType := recommend.NormalizeAttribute(in.Type)
	name := recommend.NormalizeAttribute(in.Name)

	target := current.Key()
	if prefType != "" {
		target.Type = prefType
	}
	if name != "" {
		target.Name = name
	}
	if target != current.Key() {
		clash, err := findPreference(ctx, db.conn, userID, target)
		if err != nil {
			return nil, err
		}
		if clash != nil {
			return nil, fmt.Errorf("%s %q: %w", target.Type, target.Name, recommend.ErrConflict)
		}
	}

	sb := query.NewSetBuilder().
		SetIf(prefType != "", "preference_type", prefType).
		SetIf(name != "", "preference_name", name)
	if in.Score != nil {
		sb.Set("score", recommend.ClampScore(*in.Score))
	}
	if sb.IsEmpty() {
		return current, nil
	}
	sb.Set("updated_at", now())

	setClause, setArgs := sb.Build()
	whereClause, whereArgs := query.NewWhereBuilder().
		AddEquals("user_id", userID).
		AddEquals("id", id).
		BuildWithPrefix()

	start := time.Now()
	defer func() { observe("update", "user_preferences", start, err) }()

	args := append(setArgs, whereArgs...)
	result, err := db.conn.ExecContext(ctx, `UPDATE user_preferences SET `+setClause+` `+whereClause, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update preference %d: %w", id, err)
	}
	if err := checkRowsAffected(result, fmt.Errorf("preference %d: %w", id, recommend.ErrNotFound)); err != nil {
		return nil, err
	}
	return getPreference(ctx, db.conn, userID, id)
}

// DeletePreference removes one of the user's preferences.
func (db *DB) DeletePreference(ctx context.Context, userID string, id int64) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	mu := db.acquireUserLock(userID)
	defer mu.Unlock()

	start := time.Now()
	defer func() { observe("delete", "user_preferences", start, err) }()

	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM user_preferences WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete preference %d: %w", id, err)
	}
	return checkRowsAffected(result, fmt.Errorf("preference %d: %w", id, recommend.ErrNotFound))
}

func getPreference(ctx context.Context, q querier, userID string, id int64) (*recommend.Preference, error) {
	whereClause, args := query.NewWhereBuilder().
		AddEquals("user_id", userID).
		AddEquals("id", id).
		BuildWithPrefix()

	p, err := scanPreference(q.QueryRowContext(ctx,
		`SELECT `+preferenceColumns+` FROM user_preferences `+whereClause, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("preference %d: %w", id, recommend.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preference %d: %w", id, err)
	}
	return p, nil
}

// findPreference returns the row for key, or nil when it does not exist
func findPreference(ctx context.Context, q querier, userID string, key recommend.PreferenceKey) (*recommend.Preference, error) {
	p, err := scanPreference(q.QueryRowContext(ctx,
		`SELECT `+preferenceColumns+` FROM user_preferences
		 WHERE user_id = ? AND preference_type = ? AND preference_name = ?`,
		userID, key.Type, key.Name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find preference %s/%s: %w", key.Type, key.Name, err)
	}
	return p, nil
}

func insertPreference(ctx context.Context, q querier, userID string, key recommend.PreferenceKey, score float64) (p *recommend.Preference, err error) {
	start := time.Now()
	defer func() { observe("insert", "user_preferences", start, err) }()

	ts := now()
	p = &recommend.Preference{
		UserID:    userID,
		Type:      key.Type,
		Name:      key.Name,
		Score:     score,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	err = q.QueryRowContext(ctx,
		`INSERT INTO user_preferences (user_id, preference_type, preference_name, score, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		userID, key.Type, key.Name, score, ts, ts).Scan(&p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert preference %s/%s: %w", key.Type, key.Name, err)
	}
	return p, nil
}
