// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package location

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/wayfinder/internal/breaker"
	"github.com/tomtom215/wayfinder/internal/recommend"
)

// CircuitBreakerProvider wraps a LocationProvider with circuit breaker protection.
// Every failure it returns wraps recommend.ErrUpstreamUnavailable.
type CircuitBreakerProvider struct {
	provider recommend.LocationProvider
	cb       *breaker.Breaker
}

var _ recommend.LocationProvider = (*CircuitBreakerProvider)(nil)

// NewCircuitBreakerProvider wraps provider. timeout is how long the circuit
// stays open after tripping.
func NewCircuitBreakerProvider(provider recommend.LocationProvider, timeout time.Duration) *CircuitBreakerProvider {
	return &CircuitBreakerProvider{
		provider: provider,
		cb:       breaker.New(breaker.Settings{Name: "location-api", Timeout: timeout}),
	}
}

// NearbyPlaces searches with circuit breaker protection.
func (p *CircuitBreakerProvider) NearbyPlaces(ctx context.Context, lat, lon float64, category string) ([]recommend.Place, error) {
	result, err := p.cb.Execute(func() (interface{}, error) {
		return p.provider.NearbyPlaces(ctx, lat, lon, category)
	})
	if err != nil {
		return nil, upstreamError(err)
	}
	places, ok := result.([]recommend.Place)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return places, nil
}

// PlaceDetails resolves a place with circuit breaker protection.
func (p *CircuitBreakerProvider) PlaceDetails(ctx context.Context, locationID string) (*recommend.Place, error) {
	place, err := breaker.Cast[recommend.Place](p.cb.Execute(func() (interface{}, error) {
		return p.provider.PlaceDetails(ctx, locationID)
	}))
	if err != nil {
		return nil, upstreamError(err)
	}
	return place, nil
}

func upstreamError(err error) error {
	if errors.Is(err, recommend.ErrUpstreamUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", recommend.ErrUpstreamUnavailable, err)
}
