// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package config

// Narration providers.
const (
	ProviderGoogle   = "google"
	ProviderLMStudio = "lm-studio"
	ProviderOpenAI   = "openai"
)

const (
	defaultGoogleModel    = "gemini-2.5-flash"
	defaultGoogleBaseURL  = "https://generativelanguage.googleapis.com/v1beta"
	defaultLMStudioModel  = "lm-studio"
	defaultLMStudioAPIKey = "lm-studio"
	defaultLMStudioURL    = "http://localhost:1234/v1"
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultOpenAIBaseURL  = "https://api.openai.com/v1"
)

// applyProviderDefaults fills provider-specific model, base URL and key
// when they were left at the generic default or empty.
func (c *Config) applyProviderDefaults() {
	n := &c.Narration
	switch n.Provider {
	case ProviderGoogle:
		if n.Model == "" {
			n.Model = defaultGoogleModel
		}
		if n.BaseURL == "" {
			n.BaseURL = defaultGoogleBaseURL
		}
	case ProviderLMStudio:
		if n.Model == "" || n.Model == defaultGoogleModel {
			n.Model = defaultLMStudioModel
		}
		if n.BaseURL == "" {
			n.BaseURL = defaultLMStudioURL
		}
		if n.APIKey == "" {
			n.APIKey = defaultLMStudioAPIKey
		}
	case ProviderOpenAI:
		if n.Model == "" || n.Model == defaultGoogleModel {
			n.Model = defaultOpenAIModel
		}
		if n.BaseURL == "" {
			n.BaseURL = defaultOpenAIBaseURL
		}
	}
}
