// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

// Package narration phrases ranked places through a language model.
//
// The provider is chosen once from configuration: "google" uses the Gemini
// generateContent API, "lm-studio" and "openai" use an OpenAI-compatible
// chat completions endpoint. Calls go through a circuit breaker and every
// failure wraps recommend.ErrUpstreamUnavailable.
package narration

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/wayfinder/internal/breaker"
	"github.com/tomtom215/wayfinder/internal/config"
	"github.com/tomtom215/wayfinder/internal/logging"
	"github.com/tomtom215/wayfinder/internal/metrics"
	"github.com/tomtom215/wayfinder/internal/recommend"
)

// Completer turns a prompt into model output.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Narrator renders the suggestion prompt and sends it to a Completer.
type Narrator struct {
	provider string
	llm      Completer
	cb       *breaker.Breaker
	timeout  time.Duration
}

var _ recommend.Narrator = (*Narrator)(nil)

// New builds the narrator for the configured provider.
func New(cfg *config.NarrationConfig) (*Narrator, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}

	var llm Completer
	switch cfg.Provider {
	case config.ProviderGoogle:
		llm = NewGeminiClient(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Temperature, httpClient)
	case config.ProviderLMStudio, config.ProviderOpenAI:
		llm = NewOpenAIClient(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Temperature, httpClient)
	default:
		return nil, fmt.Errorf("unknown narration provider %q", cfg.Provider)
	}

	logging.Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Msg("Narration provider configured")

	return NewWithCompleter(cfg.Provider, llm, timeout), nil
}

// NewWithCompleter wraps an arbitrary Completer.
func NewWithCompleter(provider string, llm Completer, timeout time.Duration) *Narrator {
	return &Narrator{
		provider: provider,
		llm:      llm,
		cb:       breaker.New(breaker.Settings{Name: "narration-" + provider}),
		timeout:  timeout,
	}
}

// Provider returns the configured provider name.
func (n *Narrator) Provider() string {
	return n.provider
}

// Narrate renders the prompt and returns the model's text.
func (n *Narrator) Narrate(ctx context.Context, preferencesText, placesText string) (text string, err error) {
	prompt, err := RenderPrompt(preferencesText, placesText)
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}

	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() { metrics.RecordUpstreamRequest("narration-"+n.provider, "complete", time.Since(start), err) }()

	result, err := n.cb.Execute(func() (interface{}, error) {
		return n.llm.Complete(ctx, prompt)
	})
	if err != nil {
		if errors.Is(err, recommend.ErrUpstreamUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", recommend.ErrUpstreamUnavailable, err)
	}

	text, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("%w: unexpected completion type %T", recommend.ErrUpstreamUnavailable, result)
	}
	return text, nil
}
