// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package recommend

import (
	"fmt"
	"time"
)

// Config contains all tuning for the recommendation engine.
type Config struct {
	// LearningRate is the score change applied per feedback event.
	LearningRate float64 `json:"learning_rate"`

	// UpdateCategory also adjusts the place's category score on feedback.
	// When false only cuisine scores learn from feedback.
	UpdateCategory bool `json:"update_category"`

	// FeedbackWeight scales (rating - NeutralRating) into the ranking score.
	FeedbackWeight float64 `json:"feedback_weight"`

	// TopK is the number of ranked places handed to the narrator.
	TopK int `json:"top_k"`

	// Categories are fetched from the location provider for every suggestion.
	Categories []string `json:"categories"`

	// FetchTimeout bounds the whole candidate fetch.
	FetchTimeout time.Duration `json:"fetch_timeout"`

	// NarrationTimeout bounds a single narration call.
	NarrationTimeout time.Duration `json:"narration_timeout"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() *Config {
	return &Config{
		LearningRate:     0.1,
		UpdateCategory:   false,
		FeedbackWeight:   0.2,
		TopK:             5,
		Categories:       []string{"restaurants", "attractions"},
		FetchTimeout:     30 * time.Second,
		NarrationTimeout: 60 * time.Second,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.LearningRate <= 0 || c.LearningRate > MaxScore {
		return fmt.Errorf("learning_rate must be in (0, 1], got %v", c.LearningRate)
	}
	if c.FeedbackWeight < 0 {
		return fmt.Errorf("feedback_weight must not be negative, got %v", c.FeedbackWeight)
	}
	if c.TopK < 1 {
		return fmt.Errorf("top_k must be at least 1, got %d", c.TopK)
	}
	if len(c.Categories) == 0 {
		return fmt.Errorf("at least one category is required")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive")
	}
	if c.NarrationTimeout <= 0 {
		return fmt.Errorf("narration_timeout must be positive")
	}
	return nil
}
