// Listarr - Trakt List Synchronization for Sonarr and Radarr
// Copyright 2026 Listarr contributors
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/listarr/listarr

// Listarr syncs Trakt trending, popular, anticipated, and box office lists
// into Sonarr and Radarr. One-shot syncs run via the shows and movies
// subcommands; run starts the scheduling daemon.
package main

import (
	"os"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
