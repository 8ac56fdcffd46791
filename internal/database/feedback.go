// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/wayfinder/internal/recommend"
)

// RecordFeedback appends a rating event. Duplicate (user, location) pairs
// are stored as separate rows.
func (db *DB) RecordFeedback(ctx context.Context, fb recommend.Feedback) (recorded *recommend.Feedback, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("insert", "feedback", start, err) }()

	if fb.Rating < recommend.MinRating || fb.Rating > recommend.MaxRating {
		return nil, fmt.Errorf("%w: rating %d out of range", recommend.ErrValidation, fb.Rating)
	}

	fb.CreatedAt = now()
	err = db.conn.QueryRowContext(ctx,
		`INSERT INTO feedback (user_id, location_id, rating, created_at) VALUES (?, ?, ?, ?) RETURNING id`,
		fb.UserID, fb.LocationID, fb.Rating, fb.CreatedAt).Scan(&fb.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert feedback: %w", err)
	}
	return &fb, nil
}

// ListFeedback returns the user's rating events in recording order
func (db *DB) ListFeedback(ctx context.Context, userID string) (events []recommend.Feedback, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("select", "feedback", start, err) }()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, location_id, rating, created_at FROM feedback WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer closeWithLog(ctx, rows, "rows")

	events = []recommend.Feedback{}
	for rows.Next() {
		var f recommend.Feedback
		if err := rows.Scan(&f.ID, &f.UserID, &f.LocationID, &f.Rating, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		events = append(events, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate feedback: %w", err)
	}
	return events, nil
}
