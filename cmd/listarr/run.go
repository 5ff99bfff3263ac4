// Listarr - Trakt List Synchronization for Sonarr and Radarr
// Copyright 2026 Listarr contributors
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/listarr/listarr

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"

	"github.com/listarr/listarr/internal/arr"
	"github.com/listarr/listarr/internal/config"
	"github.com/listarr/listarr/internal/logging"
	"github.com/listarr/listarr/internal/metrics"
	"github.com/listarr/listarr/internal/reconcile"
	"github.com/listarr/listarr/internal/scheduler"
	"github.com/listarr/listarr/internal/trakt"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scheduling daemon",
	Long: `Run show and movie syncs continuously on the intervals set in
automatic.shows.interval and automatic.movies.interval (minutes). The first
run of each task happens one full interval after startup.`,
}

var (
	flagRunAddDelay float64
	flagRunNoSearch bool
)

//nolint:gochecknoinits // cobra command registration
func init() {
	runCmd.RunE = runDaemon
	runCmd.Flags().Float64Var(&flagRunAddDelay, "add-delay", 0, "seconds between additions (0 = config value)")
	runCmd.Flags().BoolVar(&flagRunNoSearch, "no-search", false, "do not search for added items")
	rootCmd.AddCommand(runCmd)
}

// scheduledOptions are the per-run options used by every scheduled pass.
func scheduledOptions(task config.TaskConfig) reconcile.Options {
	opts := reconcile.Options{
		ListType: task.ListType,
		AddLimit: cfg.Add.Limit,
		AddDelay: cfg.Add.Delay,
		NoSearch: flagRunNoSearch,
	}
	if runCmd.Flags().Changed("add-delay") {
		opts.AddDelay = time.Duration(flagRunAddDelay * float64(time.Second))
	}
	return opts
}

func runDaemon(cmd *cobra.Command, args []string) error {
	if cfg.Sonarr.URL == "" && cfg.Radarr.URL == "" {
		return fmt.Errorf("neither sonarr nor radarr is configured; nothing to schedule")
	}

	ctx, cancel := signalContext()
	defer cancel()

	source := trakt.NewCircuitBreakerClient(&cfg.Trakt)
	sched := scheduler.New(logging.Logger())

	if cfg.Sonarr.URL != "" {
		sonarr := arr.NewSonarrCircuitBreaker(&cfg.Sonarr)
		reconciler := reconcile.NewShowReconciler(source, sonarr, cfg, logging.Logger())
		sched.Add("shows", time.Duration(cfg.Automatic.Shows.Interval)*time.Minute, func(ctx context.Context) error {
			_, err := reconciler.Run(ctx, scheduledOptions(cfg.Automatic.Shows))
			return err
		})
	}
	if cfg.Radarr.URL != "" {
		radarr := arr.NewRadarrCircuitBreaker(&cfg.Radarr)
		reconciler := reconcile.NewMovieReconciler(source, radarr, cfg, logging.Logger())
		sched.Add("movies", time.Duration(cfg.Automatic.Movies.Interval)*time.Minute, func(ctx context.Context) error {
			_, err := reconciler.Run(ctx, scheduledOptions(cfg.Automatic.Movies))
			return err
		})
	}

	// Supervise the scheduler (and the metrics listener when enabled) so a
	// panic in either restarts the service instead of killing the daemon.
	handler := &sutureslog.Handler{Logger: logging.NewSlogLogger()}
	root := suture.New("listarr", suture.Spec{
		EventHook:        handler.MustHook(),
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		Timeout:          10 * time.Second,
	})

	root.Add(scheduler.NewService(sched))
	if cfg.Metrics.Enabled {
		root.Add(metrics.NewServer(cfg.Metrics.Listen, logging.Logger()))
		logging.Info().Str("addr", cfg.Metrics.Listen).Msg("Metrics listener enabled")
	}

	logging.Info().Str("version", version).Msg("Starting listarr daemon")
	errCh := root.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, stopping...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("supervisor error: %w", err)
		}
		return nil
	}

	// Wait for the supervisor to finish draining.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	logging.Info().Msg("Daemon stopped")
	return nil
}
