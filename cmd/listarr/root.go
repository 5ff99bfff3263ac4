// Listarr - Trakt List Synchronization for Sonarr and Radarr
// Copyright 2026 Listarr contributors
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/listarr/listarr

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/listarr/listarr/internal/config"
	"github.com/listarr/listarr/internal/logging"
)

var (
	cfgFile string
	cfg     *config.Config

	// Per-invocation flags shared by shows and movies.
	flagListType string
	flagAddLimit int
	flagAddDelay float64
	flagNoSearch bool
)

var rootCmd = &cobra.Command{
	Use:   "listarr",
	Short: "Sync Trakt lists into Sonarr and Radarr",
	Long: `Listarr pulls trending, popular, anticipated, and box office lists
from Trakt and adds the entries your Sonarr and Radarr instances are not
already tracking, honoring blacklist filters, add limits, and pacing.

Example usage:
  listarr shows --list-type trending --add-limit 5
  listarr movies --list-type boxoffice
  listarr run                # daemon mode with scheduled syncs`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		return initConfig()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

//nolint:gochecknoinits // cobra command registration
func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml, /etc/listarr/config.yaml)")
}

// addSyncFlags registers the flags shared by the shows and movies commands.
func addSyncFlags(cmd *cobra.Command, defaultListType string) {
	cmd.Flags().StringVar(&flagListType, "list-type", defaultListType, "trakt list to sync")
	cmd.Flags().IntVar(&flagAddLimit, "add-limit", 0, "stop after this many additions (0 = config value)")
	cmd.Flags().Float64Var(&flagAddDelay, "add-delay", 0, "seconds between additions (0 = config value)")
	cmd.Flags().BoolVar(&flagNoSearch, "no-search", false, "do not search for added items")
}

// initConfig loads and validates configuration, then configures logging.
func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFile(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	return nil
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
