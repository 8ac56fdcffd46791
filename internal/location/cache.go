// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package location

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/wayfinder/internal/config"
	"github.com/tomtom215/wayfinder/internal/logging"
	"github.com/tomtom215/wayfinder/internal/metrics"
	"github.com/tomtom215/wayfinder/internal/recommend"
)

// Key prefix for place details in BadgerDB
const placeKeyPrefix = "place:"

// DetailsCache stores resolved place details.
type DetailsCache interface {
	Get(ctx context.Context, locationID string) (*recommend.Place, bool)
	Set(ctx context.Context, place *recommend.Place) error
}

// BadgerCache is a DetailsCache backed by BadgerDB. Entries expire after
// the configured TTL.
type BadgerCache struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenCache opens the details cache. An empty path keeps the cache in memory.
func OpenCache(cfg *config.CacheConfig) (*BadgerCache, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.Path == "" {
		opts = opts.WithInMemory(true)
	} else {
		// Use value log file size appropriate for small JSON values
		opts.ValueLogFileSize = 16 << 20
	}
	opts.Logger = nil // Suppress BadgerDB internal logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for place cache: %w", err)
	}
	return NewBadgerCache(db, cfg.TTL), nil
}

// NewBadgerCache wraps an existing BadgerDB connection.
func NewBadgerCache(db *badger.DB, ttl time.Duration) *BadgerCache {
	return &BadgerCache{db: db, ttl: ttl}
}

// Get returns the cached place. Misses and decode failures both report false.
func (c *BadgerCache) Get(_ context.Context, locationID string) (*recommend.Place, bool) {
	var place recommend.Place
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(placeKeyPrefix + locationID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &place)
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			logging.Warn().Err(err).Str("location_id", locationID).Msg("Place cache read failed")
		}
		metrics.PlaceCacheMisses.Inc()
		return nil, false
	}
	metrics.PlaceCacheHits.Inc()
	return &place, true
}

// Set stores place under its location id.
func (c *BadgerCache) Set(_ context.Context, place *recommend.Place) error {
	if place == nil || place.LocationID == "" {
		return errors.New("place cache: location id is required")
	}
	data, err := json.Marshal(place)
	if err != nil {
		return fmt.Errorf("marshal place: %w", err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(placeKeyPrefix+place.LocationID), data)
		if c.ttl > 0 {
			entry = entry.WithTTL(c.ttl)
		}
		return txn.SetEntry(entry)
	})
}

// gcDiscardRatio is the fraction of a value log file that must be stale
// before badger rewrites it.
const gcDiscardRatio = 0.5

// RunGC reclaims value log space left behind by expired entries. It keeps
// rewriting files until badger reports nothing left to collect.
func (c *BadgerCache) RunGC(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := c.db.RunValueLogGC(gcDiscardRatio)
		switch {
		case err == nil:
			continue
		case errors.Is(err, badger.ErrNoRewrite), errors.Is(err, badger.ErrGCInMemoryMode):
			return nil
		default:
			return fmt.Errorf("place cache gc: %w", err)
		}
	}
}

// Close closes the underlying BadgerDB.
func (c *BadgerCache) Close() error {
	return c.db.Close()
}
