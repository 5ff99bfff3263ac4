// Listarr - Trakt List Synchronization for Sonarr and Radarr
// Copyright 2026 Listarr contributors
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/listarr/listarr

// Package reconcile implements the list-reconciliation engine: it pulls a
// Trakt candidate list, removes everything the downstream service already
// tracks, orders the remainder by popularity, filters it through the
// configured blacklist, and adds the survivors one at a time with a bounded
// count and a fixed pause between attempts.
//
// A run proceeds through hard sequence points (validation, profile/tag
// resolution, catalog fetch, candidate fetch, dedup); a failure in any of them
// aborts the whole run with a ValidationError or FetchError. Once the apply
// loop starts, a single item's failure is logged and skipped, never fatal.
package reconcile

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Options are the per-invocation knobs of a reconciliation run, set from CLI
// flags or, in automatic mode, from the scheduler's task configuration.
type Options struct {
	// ListType selects the Trakt list: anticipated, trending, popular, and for
	// movies only, boxoffice.
	ListType string

	// AddLimit caps successful additions for the run. 0 = unlimited.
	AddLimit int

	// AddDelay is the pause between consecutive addition attempts.
	AddDelay time.Duration

	// NoSearch disables the downstream service's search-on-add.
	NoSearch bool
}

// ItemOutcome classifies what happened to one candidate in the apply loop.
type ItemOutcome int

const (
	// ItemAdded means the downstream service accepted the addition.
	ItemAdded ItemOutcome = iota
	// ItemSkipped means the blacklist excluded the candidate.
	ItemSkipped
	// ItemFailed means the addition was attempted and failed; the run
	// continued.
	ItemFailed
)

// String returns the lowercase label used in logs.
func (o ItemOutcome) String() string {
	switch o {
	case ItemAdded:
		return "added"
	case ItemSkipped:
		return "skipped"
	case ItemFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ItemResult records the outcome for one candidate.
type ItemResult struct {
	Title   string
	Year    int
	Outcome ItemOutcome
	Err     error // non-nil only for ItemFailed
}

// Result summarizes one completed reconciliation run.
type Result struct {
	RunID      string
	MediaType  string
	ListType   string
	Candidates int // candidates remaining after dedup
	Added      int
	Skipped    int
	Failed     int
	Items      []ItemResult
	Duration   time.Duration
}

// pacer spaces consecutive addition attempts. The first Wait returns
// immediately; each subsequent Wait blocks until the configured interval has
// elapsed since the previous one, so no pause trails the final attempt.
type pacer interface {
	Wait(ctx context.Context) error
}

type noopPacer struct{}

func (noopPacer) Wait(context.Context) error { return nil }

// newRatePacer builds a pacer from a rate limiter with burst 1: the limiter
// starts full, which gives exactly the "delay between attempts, none before
// the first" schedule the apply loop needs.
func newRatePacer(delay time.Duration) pacer {
	if delay <= 0 {
		return noopPacer{}
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}
