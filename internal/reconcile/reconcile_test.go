// Listarr - Trakt List Synchronization for Sonarr and Radarr
// Copyright 2026 Listarr contributors
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/listarr/listarr

package reconcile

import (
	"context"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestRatePacerFirstWaitIsImmediate(t *testing.T) {
	p := newRatePacer(100 * time.Millisecond)

	start := time.Now()
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait() error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("first Wait blocked for %s, want immediate", elapsed)
	}
}

func TestRatePacerSpacesConsecutiveWaits(t *testing.T) {
	const delay = 60 * time.Millisecond
	p := newRatePacer(delay)
	ctx := context.Background()

	if err := p.Wait(ctx); err != nil {
		t.Fatalf("first Wait() error: %v", err)
	}

	start := time.Now()
	if err := p.Wait(ctx); err != nil {
		t.Fatalf("second Wait() error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < delay/2 {
		t.Errorf("second Wait returned after %s, want roughly %s", elapsed, delay)
	}
}

func TestRatePacerZeroDelayNeverBlocks(t *testing.T) {
	for _, delay := range []time.Duration{0, -time.Second} {
		p := newRatePacer(delay)
		if _, ok := p.(noopPacer); !ok {
			t.Errorf("newRatePacer(%s) = %T, want noopPacer", delay, p)
		}
	}

	if _, ok := newRatePacer(time.Second).(*rate.Limiter); !ok {
		t.Error("positive delay should build a rate limiter pacer")
	}
}

func TestRatePacerHonorsContextCancellation(t *testing.T) {
	p := newRatePacer(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	if err := p.Wait(ctx); err != nil {
		t.Fatalf("first Wait() error: %v", err)
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	if err := p.Wait(ctx); err == nil {
		t.Error("Wait during a long delay should fail once the context is canceled")
	}
}
