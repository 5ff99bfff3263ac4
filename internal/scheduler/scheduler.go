// Listarr - Trakt List Synchronization for Sonarr and Radarr
// Copyright 2026 Listarr contributors
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/listarr/listarr

// Package scheduler drives automatic mode: each task (show sync, movie sync)
// runs on its own fixed interval, and all tasks execute sequentially on one
// goroutine so reconciliation runs never overlap.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/listarr/listarr/internal/metrics"
)

// defaultPollInterval is how often the loop checks for due tasks. Intervals
// are minutes-granular, so a 1-second poll keeps drift negligible.
const defaultPollInterval = time.Second

// RunFunc executes one scheduled reconciliation pass.
type RunFunc func(ctx context.Context) error

// task is one periodic job. nextRun is only touched from the scheduler
// goroutine (or from tests driving runDue directly).
type task struct {
	name     string
	interval time.Duration
	run      RunFunc
	nextRun  time.Time
}

// Scheduler runs registered tasks at fixed intervals, one at a time.
//
// A task's next run is scheduled relative to the completion of its previous
// run, so a slow reconciliation pushes the following one out instead of
// stacking up behind it.
type Scheduler struct {
	tasks        []*task
	pollInterval time.Duration
	logger       zerolog.Logger

	// now is swapped out by tests for a logical clock.
	now func() time.Time

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates an empty scheduler.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		pollInterval: defaultPollInterval,
		logger:       logger.With().Str("component", "scheduler").Logger(),
		now:          time.Now,
	}
}

// Add registers a task. The first run happens one full interval after Start,
// not immediately. Add must not be called after Start.
func (s *Scheduler) Add(name string, interval time.Duration, run RunFunc) {
	s.tasks = append(s.tasks, &task{
		name:     name,
		interval: interval,
		run:      run,
	})
}

// Start begins the scheduling loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already running")
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.mu.Unlock()

	start := s.now()
	for _, t := range s.tasks {
		t.nextRun = start.Add(t.interval)
		s.logger.Info().
			Str("task", t.name).
			Dur("interval", t.interval).
			Time("first_run", t.nextRun).
			Msg("Scheduled task")
	}

	go s.run(ctx)
	return nil
}

// Stop stops the scheduling loop and waits for it to finish. A reconciliation
// pass in flight completes before Stop returns.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	s.logger.Info().Msg("Stopping scheduler...")
	close(s.stopCh)
	<-s.doneCh

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.logger.Info().Msg("Scheduler stopped")
	return nil
}

// IsRunning reports whether the scheduling loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runDue(ctx)
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// runDue executes every task whose time has come, in registration order. One
// task failing (or panicking) never prevents the others from running.
func (s *Scheduler) runDue(ctx context.Context) {
	for _, t := range s.tasks {
		if s.now().Before(t.nextRun) {
			continue
		}
		s.execute(ctx, t)
		t.nextRun = s.now().Add(t.interval)
	}
}

func (s *Scheduler) execute(ctx context.Context, t *task) {
	start := s.now()
	log := s.logger.With().Str("task", t.name).Logger()
	log.Info().Msg("Running scheduled task")

	defer func() {
		if p := recover(); p != nil {
			metrics.SchedulerTicksTotal.WithLabelValues(t.name, "panic").Inc()
			log.Error().Interface("panic", p).Msg("Scheduled task panicked")
		}
	}()

	if err := t.run(ctx); err != nil {
		metrics.SchedulerTicksTotal.WithLabelValues(t.name, "failure").Inc()
		log.Error().Err(err).Dur("duration", s.now().Sub(start)).Msg("Scheduled task failed")
		return
	}

	metrics.SchedulerTicksTotal.WithLabelValues(t.name, "success").Inc()
	log.Info().Dur("duration", s.now().Sub(start)).Msg("Scheduled task completed")
}
