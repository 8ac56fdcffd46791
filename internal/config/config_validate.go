// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package config

import (
	"fmt"
	"strings"
	"time"
)

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

var validLogFormats = map[string]bool{
	"json": true, "console": true,
}

// Validate checks that the configuration is complete and within bounds.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateLocation(); err != nil {
		return err
	}
	if err := c.validateNarration(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative")
	}
	return nil
}

func (c *Config) validateLocation() error {
	if err := validateBaseURL(c.Location.BaseURL, "LOCATION_BASE_URL"); err != nil {
		return err
	}
	if c.IsProduction() && c.Location.APIKey == "" {
		return fmt.Errorf("LOCATION_API_KEY is required in production")
	}
	if c.Location.Timeout <= 0 {
		return fmt.Errorf("LOCATION_TIMEOUT must be positive")
	}
	if c.Location.RequestsPerSecond <= 0 {
		return fmt.Errorf("LOCATION_RPS must be positive")
	}
	if c.Location.MaxConcurrency < 1 {
		return fmt.Errorf("LOCATION_MAX_CONCURRENCY must be at least 1")
	}
	return nil
}

func (c *Config) validateNarration() error {
	switch c.Narration.Provider {
	case ProviderGoogle, ProviderLMStudio, ProviderOpenAI:
	default:
		return fmt.Errorf("AI_PROVIDER must be one of: google, lm-studio, openai (got %q)", c.Narration.Provider)
	}
	if err := validateBaseURL(c.Narration.BaseURL, "AI_BASE_URL"); err != nil {
		return err
	}
	if c.Narration.Temperature < 0 || c.Narration.Temperature > 2 {
		return fmt.Errorf("AI_TEMPERATURE must be between 0 and 2")
	}
	if c.Narration.Timeout <= 0 {
		return fmt.Errorf("AI_TIMEOUT must be positive")
	}
	if c.IsProduction() && c.Narration.Provider == ProviderGoogle && c.Narration.APIKey == "" {
		return fmt.Errorf("AI_API_KEY is required for the google provider in production")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.LearningRate <= 0 || c.Recommend.LearningRate > 1 {
		return fmt.Errorf("LEARNING_RATE must be in (0, 1]")
	}
	if c.Recommend.TopK < 1 {
		return fmt.Errorf("TOP_K must be at least 1")
	}
	if len(c.Recommend.Categories) == 0 {
		return fmt.Errorf("SUGGESTION_CATEGORIES must name at least one category")
	}
	if c.Recommend.FeedbackWeight < 0 {
		return fmt.Errorf("FEEDBACK_WEIGHT must not be negative")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
	}
	if c.Security.RateLimitWindow < time.Second {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1s")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
