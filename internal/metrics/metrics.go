// Listarr - Trakt List Synchronization for Sonarr and Radarr
// Copyright 2026 Listarr contributors
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/listarr/listarr

// Package metrics provides Prometheus instrumentation for Listarr.
//
// Metrics are registered on the default registry via promauto and exposed at
// /metrics when the daemon metrics listener is enabled (metrics.enabled).
// One-shot CLI invocations still record metrics; they are simply never
// scraped.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsTotal counts reconciliation runs by media type and outcome.
	// result is "completed" or "aborted".
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listarr_runs_total",
			Help: "Total number of reconciliation runs",
		},
		[]string{"media_type", "result"},
	)

	// RunDuration observes end-to-end reconciliation run duration.
	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "listarr_run_duration_seconds",
			Help:    "Reconciliation run duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"media_type"},
	)

	// ItemsAdded counts successful additions to Sonarr/Radarr.
	ItemsAdded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listarr_items_added_total",
			Help: "Total number of items successfully added downstream",
		},
		[]string{"media_type"},
	)

	// ItemFailures counts per-item addition failures that the run survived.
	ItemFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listarr_item_failures_total",
			Help: "Total number of per-item addition failures",
		},
		[]string{"media_type"},
	)

	// ItemsBlacklisted counts candidates skipped by the blacklist evaluator.
	ItemsBlacklisted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listarr_items_blacklisted_total",
			Help: "Total number of candidates excluded by blacklist rules",
		},
		[]string{"media_type"},
	)

	// SchedulerTicksTotal counts scheduled task executions by task and outcome.
	SchedulerTicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listarr_scheduler_ticks_total",
			Help: "Total number of scheduled task executions",
		},
		[]string{"task", "result"},
	)

	// CircuitBreakerState reports breaker state per upstream API.
	// 0 = closed, 1 = half-open, 2 = open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "listarr_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// CircuitBreakerRequests counts protected calls by outcome:
	// success, failure, or rejected (circuit open).
	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listarr_circuit_breaker_requests_total",
			Help: "Total number of circuit breaker protected requests",
		},
		[]string{"name", "result"},
	)

	// CircuitBreakerTransitions counts breaker state changes.
	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listarr_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)
)
