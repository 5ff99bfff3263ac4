// Listarr - Trakt List Synchronization for Sonarr and Radarr
// Copyright 2026 Listarr contributors
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/listarr/listarr

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/listarr/listarr/internal/arr"
	"github.com/listarr/listarr/internal/logging"
	"github.com/listarr/listarr/internal/reconcile"
	"github.com/listarr/listarr/internal/trakt"
)

var showsCmd = &cobra.Command{
	Use:   "shows",
	Short: "Sync a Trakt show list into Sonarr",
	Long: `Fetch a Trakt show list (anticipated, trending, or popular), remove
everything Sonarr already tracks, and add the remainder ordered by votes.`,
	RunE: runShows,
}

//nolint:gochecknoinits // cobra command registration
func init() {
	addSyncFlags(showsCmd, "trending")
	rootCmd.AddCommand(showsCmd)
}

// syncOptions merges CLI flags over the configured defaults.
func syncOptions(cmd *cobra.Command, listType string) reconcile.Options {
	opts := reconcile.Options{
		ListType: listType,
		AddLimit: cfg.Add.Limit,
		AddDelay: cfg.Add.Delay,
		NoSearch: flagNoSearch,
	}
	if cmd.Flags().Changed("add-limit") {
		opts.AddLimit = flagAddLimit
	}
	if cmd.Flags().Changed("add-delay") {
		opts.AddDelay = time.Duration(flagAddDelay * float64(time.Second))
	}
	return opts
}

func runShows(cmd *cobra.Command, args []string) error {
	if cfg.Sonarr.URL == "" {
		return fmt.Errorf("sonarr is not configured; set sonarr.url and sonarr.api_key")
	}

	ctx, cancel := signalContext()
	defer cancel()

	source := trakt.NewCircuitBreakerClient(&cfg.Trakt)
	sonarr := arr.NewSonarrCircuitBreaker(&cfg.Sonarr)
	reconciler := reconcile.NewShowReconciler(source, sonarr, cfg, logging.Logger())

	result, err := reconciler.Run(ctx, syncOptions(cmd, flagListType))
	if err != nil {
		return err
	}

	logging.Info().
		Int("added", result.Added).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("Show sync finished")
	return nil
}
