// Listarr - Trakt List Synchronization for Sonarr and Radarr
// Copyright 2026 Listarr contributors
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/listarr/listarr

package arr

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
	"github.com/listarr/listarr/internal/reconcile"
)

// newBreaker builds a circuit breaker with the shared policy used for every
// upstream API: opens at a 60% failure rate over at least 10 requests, stays
// open for 2 minutes, allows 3 probe requests when half-open.
func newBreaker(name string) *gobreaker.CircuitBreaker[interface{}] {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0) // closed

	return gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        name,
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
				logging.Warn().Str("breaker", name).Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
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
}

func execute(cb *gobreaker.CircuitBreaker[interface{}], name string, fn func() (interface{}, error)) (interface{}, error) {
	result, err := cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(name, "rejected").Inc()
			logging.Warn().Err(err).Str("breaker", name).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(name, "failure").Inc()
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(name, "success").Inc()
	return result, nil
}

func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
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

// SonarrCircuitBreaker wraps Sonarr with circuit breaker protection. It
// implements reconcile.SeriesManager.
type SonarrCircuitBreaker struct {
	client *Sonarr
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewSonarrCircuitBreaker creates a protected Sonarr client.
func NewSonarrCircuitBreaker(cfg *config.SonarrConfig) *SonarrCircuitBreaker {
	name := "sonarr-api"
	return &SonarrCircuitBreaker{
		client: NewSonarr(cfg),
		cb:     newBreaker(name),
		name:   name,
	}
}

func (s *SonarrCircuitBreaker) ValidateCredentials(ctx context.Context) error {
	_, err := execute(s.cb, s.name, func() (interface{}, error) {
		return nil, s.client.ValidateCredentials(ctx)
	})
	return err
}

func (s *SonarrCircuitBreaker) ProfileID(ctx context.Context, name string) (int, error) {
	return castResult[int](execute(s.cb, s.name, func() (interface{}, error) {
		return s.client.ProfileID(ctx, name)
	}))
}

func (s *SonarrCircuitBreaker) Tags(ctx context.Context) (map[string]int, error) {
	return castResult[map[string]int](execute(s.cb, s.name, func() (interface{}, error) {
		return s.client.Tags(ctx)
	}))
}

func (s *SonarrCircuitBreaker) Series(ctx context.Context) (reconcile.Catalog, error) {
	return castResult[reconcile.Catalog](execute(s.cb, s.name, func() (interface{}, error) {
		return s.client.Series(ctx)
	}))
}

func (s *SonarrCircuitBreaker) AddSeries(ctx context.Context, req models.AddSeriesRequest) error {
	_, err := execute(s.cb, s.name, func() (interface{}, error) {
		return nil, s.client.AddSeries(ctx, req)
	})
	return err
}

// RadarrCircuitBreaker wraps Radarr with circuit breaker protection. It
// implements reconcile.MovieManager.
type RadarrCircuitBreaker struct {
	client *Radarr
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewRadarrCircuitBreaker creates a protected Radarr client.
func NewRadarrCircuitBreaker(cfg *config.RadarrConfig) *RadarrCircuitBreaker {
	name := "radarr-api"
	return &RadarrCircuitBreaker{
		client: NewRadarr(cfg),
		cb:     newBreaker(name),
		name:   name,
	}
}

func (r *RadarrCircuitBreaker) ValidateCredentials(ctx context.Context) error {
	_, err := execute(r.cb, r.name, func() (interface{}, error) {
		return nil, r.client.ValidateCredentials(ctx)
	})
	return err
}

func (r *RadarrCircuitBreaker) ProfileID(ctx context.Context, name string) (int, error) {
	return castResult[int](execute(r.cb, r.name, func() (interface{}, error) {
		return r.client.ProfileID(ctx, name)
	}))
}

func (r *RadarrCircuitBreaker) Movies(ctx context.Context) (reconcile.Catalog, error) {
	return castResult[reconcile.Catalog](execute(r.cb, r.name, func() (interface{}, error) {
		return r.client.Movies(ctx)
	}))
}

func (r *RadarrCircuitBreaker) AddMovie(ctx context.Context, req models.AddMovieRequest) error {
	_, err := execute(r.cb, r.name, func() (interface{}, error) {
		return nil, r.client.AddMovie(ctx, req)
	})
	return err
}
