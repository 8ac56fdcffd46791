// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Dependencies are the collaborators the engine needs.
type Dependencies struct {
	Preferences PreferenceStore
	Feedback    FeedbackStore
	Places      LocationProvider
	Narrator    Narrator
}

func (d Dependencies) validate() error {
	var errs []error
	if d.Preferences == nil {
		errs = append(errs, errors.New("preference store is required"))
	}
	if d.Feedback == nil {
		errs = append(errs, errors.New("feedback store is required"))
	}
	if d.Places == nil {
		errs = append(errs, errors.New("location provider is required"))
	}
	if d.Narrator == nil {
		errs = append(errs, errors.New("narrator is required"))
	}
	return errors.Join(errs...)
}

// Engine wires the ingestor, ranker and orchestrator from one Config.
type Engine struct {
	config       *Config
	ingestor     *Ingestor
	orchestrator *Orchestrator
}

// NewEngine validates cfg and deps and builds the components.
// A nil cfg uses DefaultConfig().
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, deps Dependencies, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := deps.validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies: %w", err)
	}

	logger = logger.With().Str("component", "recommend").Logger()
	ranker := NewRanker(deps.Preferences, deps.Feedback, cfg.FeedbackWeight)

	return &Engine{
		config:       cfg,
		ingestor:     NewIngestor(deps.Feedback, deps.Preferences, deps.Places, cfg.LearningRate, cfg.UpdateCategory, logger),
		orchestrator: NewOrchestrator(deps.Places, ranker, deps.Narrator, cfg, logger),
	}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() *Config {
	return e.config
}

// SubmitFeedback records a rating and learns from it.
//
//nolint:gocritic // hugeParam: Feedback is a small value type
func (e *Engine) SubmitFeedback(ctx context.Context, fb Feedback) (*IngestResult, error) {
	return e.ingestor.Ingest(ctx, fb)
}

// Suggest produces a narrated suggestion near a coordinate.
func (e *Engine) Suggest(ctx context.Context, req SuggestionRequest) (*Suggestion, error) {
	return e.orchestrator.Suggest(ctx, req)
}
