// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package services

import (
	"context"
	"time"

	"github.com/tomtom215/wayfinder/internal/logging"
)

// Task is one run of a periodic maintenance job.
type Task func(ctx context.Context) error

// PeriodicService runs a Task on a fixed interval under a supervisor.
// Wayfinder uses it for DuckDB checkpoints and Badger value log GC.
//
// A failed run is logged and the next tick proceeds. Serve only returns
// when the context ends.
type PeriodicService struct {
	name     string
	interval time.Duration
	task     Task
}

// NewPeriodicService creates a service that calls task every interval.
// A non-positive interval uses one minute.
func NewPeriodicService(name string, interval time.Duration, task Task) *PeriodicService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &PeriodicService{name: name, interval: interval, task: task}
}

// Serve implements suture.Service.
func (p *PeriodicService) Serve(ctx context.Context) error {
	logger := logging.WithComponent(p.name)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := p.task(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Warn().Err(err).Msg("Periodic task failed")
				continue
			}
			logger.Debug().Dur("duration", time.Since(start)).Msg("Periodic task completed")
		}
	}
}

// String implements fmt.Stringer.
func (p *PeriodicService) String() string {
	return p.name
}
