// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.applyProviderDefaults()
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "port out of range", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: "HTTP_PORT"},
		{name: "empty database path", mutate: func(c *Config) { c.Database.Path = " " }, wantErr: "DUCKDB_PATH"},
		{name: "bad location scheme", mutate: func(c *Config) { c.Location.BaseURL = "ftp://example.com" }, wantErr: "LOCATION_BASE_URL"},
		{name: "location query string", mutate: func(c *Config) { c.Location.BaseURL = "https://example.com/api?key=1" }, wantErr: "query"},
		{name: "unknown provider", mutate: func(c *Config) { c.Narration.Provider = "claude" }, wantErr: "AI_PROVIDER"},
		{name: "learning rate zero", mutate: func(c *Config) { c.Recommend.LearningRate = 0 }, wantErr: "LEARNING_RATE"},
		{name: "learning rate above one", mutate: func(c *Config) { c.Recommend.LearningRate = 1.5 }, wantErr: "LEARNING_RATE"},
		{name: "top k zero", mutate: func(c *Config) { c.Recommend.TopK = 0 }, wantErr: "TOP_K"},
		{name: "no categories", mutate: func(c *Config) { c.Recommend.Categories = nil }, wantErr: "SUGGESTION_CATEGORIES"},
		{name: "rate limit window too small", mutate: func(c *Config) { c.Security.RateLimitWindow = 0 }, wantErr: "RATE_LIMIT_WINDOW"},
		{
			name: "rate limit checks skipped when disabled",
			mutate: func(c *Config) {
				c.Security.RateLimitDisabled = true
				c.Security.RateLimitReqs = 0
			},
		},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: "LOG_LEVEL"},
		{
			name: "production requires location key",
			mutate: func(c *Config) {
				c.Server.Environment = "production"
				c.Narration.APIKey = "k"
			},
			wantErr: "LOCATION_API_KEY",
		},
		{
			name: "production requires google key",
			mutate: func(c *Config) {
				c.Server.Environment = "production"
				c.Location.APIKey = "k"
			},
			wantErr: "AI_API_KEY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestApplyProviderDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := defaultConfig()
	cfg.Narration.Provider = ProviderOpenAI
	cfg.Narration.Model = "gpt-custom"
	cfg.Narration.BaseURL = "https://llm.internal/v1"

	cfg.applyProviderDefaults()

	if cfg.Narration.Model != "gpt-custom" {
		t.Errorf("Model = %q, want gpt-custom", cfg.Narration.Model)
	}
	if cfg.Narration.BaseURL != "https://llm.internal/v1" {
		t.Errorf("BaseURL = %q, want explicit value", cfg.Narration.BaseURL)
	}
}
