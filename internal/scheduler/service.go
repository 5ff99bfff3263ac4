// Listarr - Trakt List Synchronization for Sonarr and Radarr
// Copyright 2026 Listarr contributors
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/listarr/listarr

package scheduler

import (
	"context"
	"fmt"
)

// Service adapts the scheduler's Start/Stop lifecycle to suture's Serve
// pattern:
//  1. Start the scheduling loop
//  2. Block until the context is canceled
//  3. Stop and wait for any in-flight reconciliation to finish
//
// If Start fails, the error is returned immediately and suture restarts the
// service per its backoff policy.
type Service struct {
	scheduler *Scheduler
	name      string
}

// NewService wraps a scheduler as a supervised service.
func NewService(scheduler *Scheduler) *Service {
	return &Service{
		scheduler: scheduler,
		name:      "scheduler",
	}
}

// Serve implements suture.Service.
func (s *Service) Serve(ctx context.Context) error {
	if err := s.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("scheduler start failed: %w", err)
	}

	<-ctx.Done()

	if err := s.scheduler.Stop(); err != nil {
		return fmt.Errorf("scheduler stop failed: %w", err)
	}

	return ctx.Err()
}

// String implements fmt.Stringer; suture uses it in log messages.
func (s *Service) String() string {
	return s.name
}
