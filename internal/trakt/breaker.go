// Listarr - Trakt List Synchronization for Sonarr and Radarr
// Copyright 2026 Listarr contributors
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/listarr/listarr

package trakt

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/listarr/listarr/internal/config"
	"github.com/listarr/listarr/internal/logging"
	"github.com/listarr/listarr/internal/metrics"
	"github.com/listarr/listarr/internal/models"
)

// CircuitBreakerClient wraps Client with a circuit breaker so a dead or
// degraded Trakt API fails fast instead of stalling every scheduled run.
//
// The breaker uses real time for its interval and timeout calculations; tests
// should mock the underlying client rather than the breaker.
type CircuitBreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewCircuitBreakerClient creates a Trakt client protected by a circuit
// breaker. The breaker opens at a 60% failure rate over at least 10 requests,
// stays open for 2 minutes, and allows 3 probe requests when half-open.
func NewCircuitBreakerClient(cfg *config.TraktConfig) *CircuitBreakerClient {
	client := NewClient(cfg)
	cbName := "trakt-api"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // closed

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening trakt circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &CircuitBreakerClient{
		client: client,
		cb:     cb,
		name:   cbName,
	}
}

func (cbc *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Trakt request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	return result, nil
}

// castResult type-casts the circuit breaker result with error checking.
func castResult[T any](result interface{}, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	typed, ok := result.([]T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// ValidateCredentials verifies the API key with circuit breaker protection.
func (cbc *CircuitBreakerClient) ValidateCredentials(ctx context.Context) error {
	_, err := cbc.execute(func() (interface{}, error) {
		return nil, cbc.client.ValidateCredentials(ctx)
	})
	return err
}

// TrendingShows retrieves trending shows with circuit breaker protection.
func (cbc *CircuitBreakerClient) TrendingShows(ctx context.Context, limit int) ([]models.Show, error) {
	return castResult[models.Show](cbc.execute(func() (interface{}, error) {
		return cbc.client.TrendingShows(ctx, limit)
	}))
}

// PopularShows retrieves popular shows with circuit breaker protection.
func (cbc *CircuitBreakerClient) PopularShows(ctx context.Context, limit int) ([]models.Show, error) {
	return castResult[models.Show](cbc.execute(func() (interface{}, error) {
		return cbc.client.PopularShows(ctx, limit)
	}))
}

// AnticipatedShows retrieves anticipated shows with circuit breaker protection.
func (cbc *CircuitBreakerClient) AnticipatedShows(ctx context.Context, limit int) ([]models.Show, error) {
	return castResult[models.Show](cbc.execute(func() (interface{}, error) {
		return cbc.client.AnticipatedShows(ctx, limit)
	}))
}

// TrendingMovies retrieves trending movies with circuit breaker protection.
func (cbc *CircuitBreakerClient) TrendingMovies(ctx context.Context, limit int) ([]models.Movie, error) {
	return castResult[models.Movie](cbc.execute(func() (interface{}, error) {
		return cbc.client.TrendingMovies(ctx, limit)
	}))
}

// PopularMovies retrieves popular movies with circuit breaker protection.
func (cbc *CircuitBreakerClient) PopularMovies(ctx context.Context, limit int) ([]models.Movie, error) {
	return castResult[models.Movie](cbc.execute(func() (interface{}, error) {
		return cbc.client.PopularMovies(ctx, limit)
	}))
}

// AnticipatedMovies retrieves anticipated movies with circuit breaker protection.
func (cbc *CircuitBreakerClient) AnticipatedMovies(ctx context.Context, limit int) ([]models.Movie, error) {
	return castResult[models.Movie](cbc.execute(func() (interface{}, error) {
		return cbc.client.AnticipatedMovies(ctx, limit)
	}))
}

// BoxOfficeMovies retrieves box office movies with circuit breaker protection.
func (cbc *CircuitBreakerClient) BoxOfficeMovies(ctx context.Context, limit int) ([]models.Movie, error) {
	return castResult[models.Movie](cbc.execute(func() (interface{}, error) {
		return cbc.client.BoxOfficeMovies(ctx, limit)
	}))
}
