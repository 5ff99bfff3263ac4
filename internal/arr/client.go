// Listarr - Trakt List Synchronization for Sonarr and Radarr
// Copyright 2026 Listarr contributors
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/listarr/listarr

// Package arr implements clients for the Sonarr and Radarr REST APIs.
//
// Both services share the same API conventions (X-Api-Key header, JSON
// bodies, /api prefix), so a common client carries the HTTP plumbing and the
// per-service types add their endpoints on top. Requests that hit HTTP 429
// are retried with exponential backoff; production wiring adds a circuit
// breaker per service (see breaker.go).
package arr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

const maxErrorBodySize = 64 * 1024

// client is the shared HTTP layer for Sonarr and Radarr.
type client struct {
	baseURL        string
	apiKey         string
	http           *http.Client
	maxRetries     int
	retryBaseDelay time.Duration
}

func newClient(baseURL, apiKey string) client {
	return client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries:     5,
		retryBaseDelay: 1 * time.Second,
	}
}

// get performs a GET against path and decodes the JSON response into result.
func (c *client) get(ctx context.Context, path string, result interface{}) error {
	resp, err := c.doRequestWithRateLimit(ctx, http.MethodGet, path, nil)
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

// post marshals body, performs a POST against path, and accepts 200 or 201.
func (c *client) post(ctx context.Context, path string, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", path, err)
	}

	resp, err := c.doRequestWithRateLimit(ctx, http.MethodPost, path, payload)
	if err != nil {
		return fmt.Errorf("failed to make %s request: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody := readBodyForError(resp.Body)
		return fmt.Errorf("%s request failed with status %d: %s", path, resp.StatusCode, string(respBody))
	}
	return nil
}

// doRequestWithRateLimit performs the request with automatic HTTP 429
// handling: exponential backoff doubling per attempt, overridden by a
// Retry-After header when the server sends one.
func (c *client) doRequestWithRateLimit(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		var reader io.Reader = http.NoBody
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("X-Api-Key", c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
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

// systemStatus is the shared /api/system/status response shape. Only the
// version field matters: its presence proves the API key was accepted.
type systemStatus struct {
	Version string `json:"version"`
}

// profile is one quality profile from /api/profile.
type profile struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// validateStatus fetches /api/system/status and checks that a version came
// back. A reverse proxy answering 200 with an HTML body fails JSON decoding;
// a JSON body without a version is treated as a bad endpoint.
func (c *client) validateStatus(ctx context.Context, service string) error {
	var status systemStatus
	if err := c.get(ctx, "/api/system/status", &status); err != nil {
		return fmt.Errorf("%s validation: %w", service, err)
	}
	if status.Version == "" {
		return fmt.Errorf("%s validation: no version in system status response", service)
	}
	return nil
}
