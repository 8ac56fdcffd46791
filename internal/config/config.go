// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

// Package config loads and validates Wayfinder configuration from struct
// defaults, an optional YAML file, and environment variables.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Location  LocationConfig  `koanf:"location"`
	Narration NarrationConfig `koanf:"narration"`
	Recommend RecommendConfig `koanf:"recommend"`
	Cache     CacheConfig     `koanf:"cache"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// DatabaseConfig configures the embedded DuckDB store.
type DatabaseConfig struct {
	// Path is the database file, or ":memory:" for an ephemeral database.
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	// Threads is the DuckDB worker thread count. 0 uses runtime.NumCPU().
	Threads int `koanf:"threads"`
	// CheckpointInterval is how often the WAL is folded into the database file.
	CheckpointInterval time.Duration `koanf:"checkpoint_interval"`
}

// LocationConfig configures the upstream points-of-interest API.
type LocationConfig struct {
	BaseURL           string        `koanf:"base_url"`
	APIKey            string        `koanf:"api_key"`
	Language          string        `koanf:"language"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	// MaxConcurrency bounds concurrent detail lookups while enriching nearby results.
	MaxConcurrency int           `koanf:"max_concurrency"`
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
}

// NarrationConfig selects and configures the language model provider.
type NarrationConfig struct {
	// Provider is "google" or "lm-studio" ("openai" is accepted as an alias).
	Provider    string        `koanf:"provider"`
	Model       string        `koanf:"model"`
	Temperature float64       `koanf:"temperature"`
	APIKey      string        `koanf:"api_key"`
	BaseURL     string        `koanf:"base_url"`
	Timeout     time.Duration `koanf:"timeout"`
}

// RecommendConfig tunes preference learning and ranking.
type RecommendConfig struct {
	LearningRate   float64  `koanf:"learning_rate"`
	TopK           int      `koanf:"top_k"`
	Categories     []string `koanf:"categories"`
	UpdateCategory bool     `koanf:"update_category"`
	FeedbackWeight float64  `koanf:"feedback_weight"`
}

// CacheConfig configures the place details cache.
type CacheConfig struct {
	// Path is the Badger directory. Empty runs the cache in memory.
	Path       string        `koanf:"path"`
	TTL        time.Duration `koanf:"ttl"`
	GCInterval time.Duration `koanf:"gc_interval"`
}

// SecurityConfig holds inbound traffic controls.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from all sources and validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
