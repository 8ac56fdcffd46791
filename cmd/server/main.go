// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/wayfinder/internal/api"
	"github.com/tomtom215/wayfinder/internal/config"
	"github.com/tomtom215/wayfinder/internal/database"
	"github.com/tomtom215/wayfinder/internal/location"
	"github.com/tomtom215/wayfinder/internal/logging"
	"github.com/tomtom215/wayfinder/internal/narration"
	"github.com/tomtom215/wayfinder/internal/recommend"
	"github.com/tomtom215/wayfinder/internal/supervisor"
	"github.com/tomtom215/wayfinder/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("db_path", cfg.Database.Path).
		Str("ai_provider", cfg.Narration.Provider).
		Msg("Starting Wayfinder")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Wayfinder exited with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

// run wires every component, serves until SIGINT/SIGTERM and releases storage.
func run(cfg *config.Config) error {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	placeCache, err := location.OpenCache(&cfg.Cache)
	if err != nil {
		return fmt.Errorf("open place cache: %w", err)
	}
	defer func() {
		if err := placeCache.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing place cache")
		}
	}()

	if cfg.Location.APIKey == "" {
		logging.Warn().Msg("LOCATION_API_KEY is not set; upstream place lookups will be rejected")
	}
	places := location.NewCircuitBreakerProvider(
		location.NewClient(&cfg.Location, placeCache),
		cfg.Location.BreakerTimeout,
	)

	narrator, err := narration.New(&cfg.Narration)
	if err != nil {
		return fmt.Errorf("initialize narrator: %w", err)
	}

	engine, err := recommend.NewEngine(recommendConfig(cfg), recommend.Dependencies{
		Preferences: db,
		Feedback:    db,
		Places:      places,
		Narrator:    narrator,
	}, logging.Logger())
	if err != nil {
		return fmt.Errorf("initialize recommendation engine: %w", err)
	}

	handler, err := api.NewHandler(api.Dependencies{
		Engine:      engine,
		Preferences: db,
		Feedback:    db,
		Health:      db,
	}, cfg.Server.Timeout)
	if err != nil {
		return fmt.Errorf("initialize handlers: %w", err)
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(&cfg.Security))

	server := newHTTPServer(cfg, router.Setup())

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	for _, svc := range maintenanceServices(cfg, db, placeCache) {
		tree.AddDataService(svc)
		logging.Info().Str("service", svc.String()).Msg("Maintenance service added")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// errCh receives exactly one value and is never closed.
	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for supervisor to finish...")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", serveErr)
	}
	return nil
}

// newHTTPServer leaves the write deadline a little past the handler timeout
// so the timeout envelope still reaches the client.
func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// recommendConfig maps loaded configuration onto the engine's tuning.
func recommendConfig(cfg *config.Config) *recommend.Config {
	rc := recommend.DefaultConfig()
	rc.LearningRate = cfg.Recommend.LearningRate
	rc.UpdateCategory = cfg.Recommend.UpdateCategory
	rc.FeedbackWeight = cfg.Recommend.FeedbackWeight
	rc.TopK = cfg.Recommend.TopK
	rc.Categories = cfg.Recommend.Categories
	rc.NarrationTimeout = cfg.Narration.Timeout
	return rc
}

// maintenanceServices builds the data layer jobs. A non-positive interval
// disables the job.
func maintenanceServices(cfg *config.Config, db *database.DB, cache *location.BadgerCache) []*services.PeriodicService {
	var svcs []*services.PeriodicService
	if cfg.Database.CheckpointInterval > 0 {
		svcs = append(svcs, services.NewPeriodicService("duckdb-checkpoint", cfg.Database.CheckpointInterval, db.Checkpoint))
	}
	if cfg.Cache.GCInterval > 0 && cfg.Cache.Path != "" {
		svcs = append(svcs, services.NewPeriodicService("place-cache-gc", cfg.Cache.GCInterval, cache.RunGC))
	}
	return svcs
}
