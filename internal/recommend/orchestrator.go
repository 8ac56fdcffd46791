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
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/wayfinder/internal/logging"
	"github.com/tomtom215/wayfinder/internal/metrics"
)

// Orchestrator produces narrated suggestions: fetch, rank, take top K, narrate.
type Orchestrator struct {
	places   LocationProvider
	ranker   *Ranker
	narrator Narrator
	cfg      *Config
	logger   zerolog.Logger
}

// NewOrchestrator creates an orchestrator. The narrator is chosen by the
// caller; the orchestrator never selects a provider itself.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewOrchestrator(places LocationProvider, ranker *Ranker, narrator Narrator, cfg *Config, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		places:   places,
		ranker:   ranker,
		narrator: narrator,
		cfg:      cfg,
		logger:   logger.With().Str("component", "orchestrator").Logger(),
	}
}

// ValidateSuggestionRequest checks coordinates and user.
func ValidateSuggestionRequest(req SuggestionRequest) error {
	if strings.TrimSpace(req.UserID) == "" {
		return fmt.Errorf("%w: user_id is required", ErrValidation)
	}
	if req.Latitude < -90 || req.Latitude > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", ErrValidation)
	}
	if req.Longitude < -180 || req.Longitude > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", ErrValidation)
	}
	return nil
}

// Suggest returns a narrated suggestion. Validation errors are returned as
// is; every later failure is reported as ErrSuggestionFailed and no
// partial result is returned.
func (o *Orchestrator) Suggest(ctx context.Context, req SuggestionRequest) (*Suggestion, error) {
	if err := ValidateSuggestionRequest(req); err != nil {
		return nil, err
	}

	s, err := o.suggest(ctx, req)
	if err != nil {
		metrics.SuggestionRequests.WithLabelValues("error").Inc()
		logging.Ctx(ctx).Error().Err(err).
			Str("component", "orchestrator").
			Str("user_id", req.UserID).
			Msg("Suggestion generation failed")
		return nil, fmt.Errorf("%w: %w", ErrSuggestionFailed, err)
	}
	metrics.SuggestionRequests.WithLabelValues("success").Inc()
	return s, nil
}

func (o *Orchestrator) suggest(ctx context.Context, req SuggestionRequest) (*Suggestion, error) {
	candidates, err := o.fetchCandidates(ctx, req.Latitude, req.Longitude)
	if err != nil {
		return nil, err
	}

	ranked, prefs, err := o.ranker.rank(ctx, req.UserID, candidates)
	if err != nil {
		return nil, fmt.Errorf("rank candidates: %w", err)
	}
	top := ranked
	if len(top) > o.cfg.TopK {
		top = top[:o.cfg.TopK]
	}

	narrateCtx, cancel := context.WithTimeout(ctx, o.cfg.NarrationTimeout)
	defer cancel()
	text, err := o.narrator.Narrate(narrateCtx, FormatPreferences(prefs), FormatPlaces(top))
	if err != nil {
		return nil, fmt.Errorf("narrate: %w", err)
	}

	o.logger.Debug().
		Str("user_id", req.UserID).
		Int("candidates", len(candidates)).
		Int("ranked", len(ranked)).
		Int("returned", len(top)).
		Msg("Suggestion generated")

	return &Suggestion{Text: text, Places: top}, nil
}

// fetchCandidates queries every configured category concurrently and merges
// the results in category order, keeping the first occurrence of a location.
func (o *Orchestrator) fetchCandidates(ctx context.Context, lat, lon float64) ([]Place, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, o.cfg.FetchTimeout)
	defer cancel()

	results := make([][]Place, len(o.cfg.Categories))
	g, gctx := errgroup.WithContext(fetchCtx)
	for idx, category := range o.cfg.Categories {
		g.Go(func() error {
			places, err := o.places.NearbyPlaces(gctx, lat, lon, category)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", category, err)
			}
			results[idx] = places
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return mergeCandidates(results), nil
}

//nolint:gocritic // rangeValCopy: Place passed by value for clarity
func mergeCandidates(results [][]Place) []Place {
	total := 0
	for _, r := range results {
		total += len(r)
	}

	merged := make([]Place, 0, total)
	seen := make(map[string]struct{}, total)
	for _, r := range results {
		for _, p := range r {
			if p.LocationID != "" {
				if _, dup := seen[p.LocationID]; dup {
					continue
				}
				seen[p.LocationID] = struct{}{}
			}
			merged = append(merged, p)
		}
	}
	return merged
}
