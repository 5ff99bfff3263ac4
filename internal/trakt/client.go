// Listarr - Trakt List Synchronization for Sonarr and Radarr
// Copyright 2026 Listarr contributors
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/listarr/listarr

// Package trakt implements a read-only client for the Trakt.tv API v2.
//
// Only application-level authentication is used: every request carries the
// client ID in the trakt-api-key header, no OAuth user token is involved.
// The client handles HTTP 429 rate limiting with exponential backoff and is
// wrapped by a circuit breaker (see breaker.go) in production wiring.
package trakt

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"github.com/listarr/listarr/internal/config"
)

// maxErrorBodySize caps how much of a failed response body is read for error
// reporting.
const maxErrorBodySize = 64 * 1024

// Client is a Trakt API v2 client.
//
// Thread safety: safe for concurrent use; every call builds its own request.
type Client struct {
	baseURL        string
	apiKey         string
	client         *http.Client
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewClient creates a Trakt client with a 30-second request timeout and up to
// 5 retries with exponential backoff on HTTP 429.
func NewClient(cfg *config.TraktConfig) *Client {
	return &Client{
		baseURL: cfg.URL,
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries:     5,
		retryBaseDelay: 1 * time.Second,
	}
}

// ValidateCredentials verifies that the configured API key is accepted by
// Trakt. A one-item trending fetch is the cheapest authenticated call the
// application-level key can make.
func (c *Client) ValidateCredentials(ctx context.Context) error {
	params := url.Values{}
	params.Set("limit", "1")

	var probe []trendingShowEntry
	if err := c.makeRequest(ctx, "/shows/trending", params, &probe); err != nil {
		return fmt.Errorf("trakt api key validation: %w", err)
	}
	return nil
}

// makeRequest performs a GET against path, decoding the JSON response into
// result. Headers required by Trakt API v2 are set on every request.
func (c *Client) makeRequest(ctx context.Context, path string, params url.Values, result interface{}) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	resp, err := c.doRequestWithRateLimit(ctx, reqURL)
	if err != nil {
		return fmt.Errorf("failed to make %s request: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return fmt.Errorf("%s request failed with status %d: %s", path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// doRequestWithRateLimit performs an HTTP request with automatic rate limit
// handling. Backoff doubles per attempt (1s, 2s, 4s, 8s, 16s); a Retry-After
// header, when present, overrides the computed delay.
func (c *Client) doRequestWithRateLimit(ctx context.Context, reqURL string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("trakt-api-version", "2")
		req.Header.Set("trakt-api-key", c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		_ = resp.Body.Close()

		if attempt == c.maxRetries {
			lastErr = fmt.Errorf("rate limit exceeded after %d retries (HTTP 429)", c.maxRetries)
			break
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
				delay = seconds
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

// readBodyForError reads at most maxErrorBodySize of the response body for
// inclusion in an error message.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}
