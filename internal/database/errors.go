// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package database

import (
	"context"
	"io"

	"github.com/tomtom215/wayfinder/internal/logging"
)

// closeWithLog closes a deferred resource such as *sql.Rows and logs a
// failure with the request's log fields.
func closeWithLog(ctx context.Context, closer io.Closer, resource string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("resource", resource).Msg("Failed to close resource")
	}
}

// closeQuietly is for error paths where the original error is what matters.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
