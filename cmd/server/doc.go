// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

/*
Package main is the entry point for the Wayfinder server.

Wayfinder learns per-user cuisine and category preferences from place ratings
and turns nearby points of interest into a short narrated suggestion.

# Application Architecture

	RootSupervisor ("wayfinder")
	├── DataSupervisor ("data-layer")
	│   ├── duckdb-checkpoint (PeriodicService)
	│   └── place-cache-gc (PeriodicService)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config.yaml and environment variables
 2. Logging: zerolog with JSON/console output modes
 3. Database: DuckDB preference and feedback store
 4. Place cache: BadgerDB, in memory unless CACHE_PATH is set
 5. Location client: rate limited, circuit breaker protected
 6. Narrator: Google Gemini or an OpenAI compatible server (LM Studio)
 7. Recommendation engine
 8. Supervisor Tree: Suture v4 process supervision
 9. HTTP Server: Chi router with middleware stack

# Configuration

Layered sources, highest priority wins:
  - Environment variables (LOCATION_API_KEY, AI_PROVIDER, AI_API_KEY, ...)
  - Config file (CONFIG_PATH, or ./config.yaml)
  - Built-in defaults

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests within HTTP_SHUTDOWN_TIMEOUT, then the database and place cache are
closed.

# Example Usage

	export LOCATION_API_KEY=your-tripadvisor-key
	export AI_PROVIDER=google
	export AI_API_KEY=your-gemini-key
	./wayfinder

With a local LM Studio server:

	export AI_PROVIDER=lm-studio
	export AI_BASE_URL=http://localhost:1234/v1
	export AI_MODEL=llama-3.1-8b-instruct
	./wayfinder
*/
package main
