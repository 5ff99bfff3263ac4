// Listarr - Trakt List Synchronization for Sonarr and Radarr
// Copyright 2026 Listarr contributors
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/listarr/listarr

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/listarr/listarr/internal/arr"
	"github.com/listarr/listarr/internal/logging"
	"github.com/listarr/listarr/internal/reconcile"
	"github.com/listarr/listarr/internal/trakt"
)

var moviesCmd = &cobra.Command{
	Use:   "movies",
	Short: "Sync a Trakt movie list into Radarr",
	Long: `Fetch a Trakt movie list (anticipated, trending, popular, or
boxoffice), remove everything Radarr already tracks, and add the remainder
ordered by votes.`,
	RunE: runMovies,
}

//nolint:gochecknoinits // cobra command registration
func init() {
	addSyncFlags(moviesCmd, "trending")
	rootCmd.AddCommand(moviesCmd)
}

func runMovies(cmd *cobra.Command, args []string) error {
	if cfg.Radarr.URL == "" {
		return fmt.Errorf("radarr is not configured; set radarr.url and radarr.api_key")
	}

	ctx, cancel := signalContext()
	defer cancel()

	source := trakt.NewCircuitBreakerClient(&cfg.Trakt)
	radarr := arr.NewRadarrCircuitBreaker(&cfg.Radarr)
	reconciler := reconcile.NewMovieReconciler(source, radarr, cfg, logging.Logger())

	result, err := reconciler.Run(ctx, syncOptions(cmd, flagListType))
	if err != nil {
		return err
	}

	logging.Info().
		Int("added", result.Added).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("Movie sync finished")
	return nil
}
