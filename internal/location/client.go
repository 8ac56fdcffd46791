// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

// Package location is the client for the upstream points-of-interest API.
//
// Client speaks the HTTP API directly: it rate limits outbound calls,
// retries HTTP 429 with exponential backoff, enriches nearby search
// results with details, and normalizes both into recommend.Place.
// CircuitBreakerProvider wraps any recommend.LocationProvider so repeated
// upstream failures fail fast with recommend.ErrUpstreamUnavailable.
package location

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/tomtom215/wayfinder/internal/config"
	"github.com/tomtom215/wayfinder/internal/logging"
	"github.com/tomtom215/wayfinder/internal/metrics"
	"github.com/tomtom215/wayfinder/internal/recommend"
)

// providerName labels metrics for this upstream.
const providerName = "location"

// maxErrorBodySize limits the maximum amount of response body read for error reporting
const maxErrorBodySize = 64 * 1024 // 64KB

// readBodyForError reads the response body for error reporting (max 64KB)
func readBodyForError(r io.Reader) []byte {
	limitedReader := io.LimitReader(r, maxErrorBodySize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// Client handles communication with the location HTTP API.
//
// Thread Safety: Safe for concurrent use.
type Client struct {
	baseURL        string
	apiKey         string
	language       string
	client         *http.Client
	limiter        *rate.Limiter
	cache          DetailsCache
	maxConcurrency int
	maxRetries     int           // Maximum retries for rate limiting
	retryBaseDelay time.Duration // Base delay for exponential backoff
}

var _ recommend.LocationProvider = (*Client)(nil)

// NewClient creates a location API client. cache may be nil.
func NewClient(cfg *config.LocationConfig, cache DetailsCache) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		burst = int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
	}

	maxConcurrency := cfg.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 4
	}

	return &Client{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		language: cfg.Language,
		client: &http.Client{
			Timeout: timeout,
		},
		limiter:        rate.NewLimiter(limit, burst),
		cache:          cache,
		maxConcurrency: maxConcurrency,
		maxRetries:     5,               // Allow up to 5 retries for rate limiting
		retryBaseDelay: 1 * time.Second, // Start with 1 second, doubles each retry
	}
}

// NearbyPlaces searches one category around a coordinate and enriches each
// result with its details. A result whose details cannot be resolved is
// returned as the search produced it.
func (c *Client) NearbyPlaces(ctx context.Context, lat, lon float64, category string) (places []recommend.Place, err error) {
	start := time.Now()
	defer func() { metrics.RecordUpstreamRequest(providerName, "nearby_search", time.Since(start), err) }()

	params := url.Values{}
	params.Set("latLong", strconv.FormatFloat(lat, 'f', -1, 64)+","+strconv.FormatFloat(lon, 'f', -1, 64))
	if category != "" {
		params.Set("category", category)
	}

	var body nearbyResponse
	found, err := c.getJSON(ctx, "/location/nearby_search", params, &body)
	if err != nil {
		return nil, err
	}
	if !found {
		return []recommend.Place{}, nil
	}

	places = make([]recommend.Place, 0, len(body.Data))
	for i := range body.Data {
		p := body.Data[i].toPlace()
		if p.LocationID == "" {
			continue
		}
		if p.Category == "" {
			p.Category = recommend.NormalizeAttribute(category)
		}
		places = append(places, p)
	}

	return c.enrich(ctx, places)
}

// enrich resolves details for every place with bounded concurrency.
func (c *Client) enrich(ctx context.Context, places []recommend.Place) ([]recommend.Place, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxConcurrency)

	for i := range places {
		g.Go(func() error {
			details, err := c.PlaceDetails(gctx, places[i].LocationID)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logging.Ctx(ctx).Debug().Err(err).
					Str("location_id", places[i].LocationID).
					Msg("Details unavailable, using search result")
				return nil
			}
			if details != nil {
				places[i] = mergeDetails(places[i], *details)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return places, nil
}

// PlaceDetails resolves one place. Unknown ids return (nil, nil).
func (c *Client) PlaceDetails(ctx context.Context, locationID string) (place *recommend.Place, err error) {
	if locationID == "" {
		return nil, nil
	}
	if c.cache != nil {
		if cached, ok := c.cache.Get(ctx, locationID); ok {
			return cached, nil
		}
	}

	start := time.Now()
	defer func() { metrics.RecordUpstreamRequest(providerName, "details", time.Since(start), err) }()

	var body wirePlace
	found, err := c.getJSON(ctx, "/location/"+url.PathEscape(locationID)+"/details", url.Values{}, &body)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	p := body.toPlace()
	if p.LocationID == "" {
		p.LocationID = locationID
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, &p); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("location_id", locationID).Msg("Failed to cache place details")
		}
	}
	return &p, nil
}

// getJSON performs a GET and decodes the body into result. A 404 reports
// found=false with no error.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, result interface{}) (found bool, err error) {
	params.Set("key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	resp, err := c.doRequestWithRateLimit(ctx, reqURL)
	if err != nil {
		return false, fmt.Errorf("%w: %w", recommend.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return false, fmt.Errorf("%w: %s returned status %d: %s", recommend.ErrUpstreamUnavailable, path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return false, fmt.Errorf("%w: failed to decode %s response: %w", recommend.ErrUpstreamUnavailable, path, err)
	}
	return true, nil
}

// doRequestWithRateLimit performs an HTTP GET with outbound rate limiting and
// automatic HTTP 429 handling. Retries back off exponentially (1s, 2s, 4s, ...)
// unless the server sends Retry-After.
func (c *Client) doRequestWithRateLimit(ctx context.Context, reqURL string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", redactURLError(err))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", redactURLError(err))
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		// Rate limited (HTTP 429) - close body and retry with backoff
		_ = resp.Body.Close()

		if attempt == c.maxRetries {
			lastErr = fmt.Errorf("rate limit exceeded after %d retries (HTTP 429)", c.maxRetries)
			break
		}
		metrics.UpstreamRetries.WithLabelValues(providerName).Inc()

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))

		// Check for Retry-After header (RFC 6585)
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
				delay = time.Duration(seconds) * time.Second
			}
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// redactURLError drops the query string, which carries the API key, from a
// *url.Error so it never reaches logs or API responses.
func redactURLError(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	redacted := *urlErr
	if u, parseErr := url.Parse(urlErr.URL); parseErr == nil {
		u.RawQuery = ""
		redacted.URL = u.String()
	} else {
		redacted.URL = "[redacted]"
	}
	return &redacted
}
