// Listarr - Trakt List Synchronization for Sonarr and Radarr
// Copyright 2026 Listarr contributors
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/listarr/listarr

package main

import (
	"testing"
	"time"

	"github.com/listarr/listarr/internal/config"
)

// resetRunFlags clears the run command's flag state before and after a test.
func resetRunFlags(t *testing.T) {
	t.Helper()
	reset := func() {
		flagRunAddDelay = 0
		flagRunNoSearch = false
		for _, name := range []string{"add-delay", "no-search"} {
			if f := runCmd.Flags().Lookup(name); f != nil {
				f.Changed = false
			}
		}
	}
	reset()
	t.Cleanup(reset)
}

func TestRunCommandRegistersDelayAndSearchFlags(t *testing.T) {
	for _, name := range []string{"add-delay", "no-search"} {
		if runCmd.Flags().Lookup(name) == nil {
			t.Errorf("run command is missing the --%s flag", name)
		}
	}
}

func TestScheduledOptionsUseConfigDefaults(t *testing.T) {
	resetRunFlags(t)
	cfg = config.Default()
	cfg.Add.Delay = 2500 * time.Millisecond
	cfg.Add.Limit = 3

	opts := scheduledOptions(cfg.Automatic.Shows)
	if opts.ListType != "trending" {
		t.Errorf("ListType = %q, want trending", opts.ListType)
	}
	if opts.AddDelay != 2500*time.Millisecond {
		t.Errorf("AddDelay = %s, want config value 2.5s", opts.AddDelay)
	}
	if opts.AddLimit != 3 {
		t.Errorf("AddLimit = %d, want 3", opts.AddLimit)
	}
	if opts.NoSearch {
		t.Error("NoSearch should default to false")
	}
}

func TestScheduledOptionsDelayFlagOverridesConfig(t *testing.T) {
	resetRunFlags(t)
	cfg = config.Default()
	cfg.Add.Delay = 2500 * time.Millisecond

	if err := runCmd.Flags().Set("add-delay", "5"); err != nil {
		t.Fatalf("failed to set --add-delay: %v", err)
	}
	if err := runCmd.Flags().Set("no-search", "true"); err != nil {
		t.Fatalf("failed to set --no-search: %v", err)
	}

	opts := scheduledOptions(cfg.Automatic.Movies)
	if opts.AddDelay != 5*time.Second {
		t.Errorf("AddDelay = %s, want flag override 5s", opts.AddDelay)
	}
	if !opts.NoSearch {
		t.Error("NoSearch flag did not propagate")
	}
}
