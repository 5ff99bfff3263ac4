// Listarr - Trakt List Synchronization for Sonarr and Radarr
// Copyright 2026 Listarr contributors
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/listarr/listarr

// Package config loads and validates Listarr configuration.
//
// Configuration Loading Order (Koanf v2), highest priority last:
//  1. Defaults: built-in values for every optional setting
//  2. Config File: YAML config file (config.yaml, or CONFIG_PATH)
//  3. Environment Variables: LISTARR_-prefixed overrides
//
// Config is immutable after Load() and safe for concurrent read access.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Trakt     TraktConfig     `koanf:"trakt"`
	Sonarr    SonarrConfig    `koanf:"sonarr"`
	Radarr    RadarrConfig    `koanf:"radarr"`
	Filters   FiltersConfig   `koanf:"filters"`
	Automatic AutomaticConfig `koanf:"automatic"`
	Add       AddConfig       `koanf:"add"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// TraktConfig holds Trakt API settings. APIKey is the Trakt application
// client ID; no OAuth user flow is required for the public list endpoints.
type TraktConfig struct {
	URL       string `koanf:"url"`
	APIKey    string `koanf:"api_key"`
	ListLimit int    `koanf:"list_limit"` // items requested per list fetch
}

// SonarrConfig holds the Sonarr connection and add-request settings.
//
// Tags maps a Sonarr tag label to the Trakt network names that should receive
// it, e.g. {"hbo": ["hbo", "hbo max"]}. Labels must exist in Sonarr already;
// unknown labels are skipped at run time.
type SonarrConfig struct {
	URL        string              `koanf:"url"`
	APIKey     string              `koanf:"api_key"`
	Profile    string              `koanf:"profile"`
	RootFolder string              `koanf:"root_folder"`
	Tags       map[string][]string `koanf:"tags"`
	// TagMatch selects how network patterns match: "exact" or "substring".
	TagMatch string `koanf:"tag_match"`
}

// RadarrConfig holds the Radarr connection and add-request settings.
type RadarrConfig struct {
	URL        string `koanf:"url"`
	APIKey     string `koanf:"api_key"`
	Profile    string `koanf:"profile"`
	RootFolder string `koanf:"root_folder"`
}

// BlacklistConfig enumerates the exclusion dimensions for one media type.
// Empty dimensions never exclude anything.
type BlacklistConfig struct {
	Genres        []string `koanf:"blacklisted_genres"`
	Networks      []string `koanf:"blacklisted_networks"` // shows only
	Countries     []string `koanf:"blacklisted_countries"`
	MinYear       int      `koanf:"blacklisted_min_year"`
	MaxYear       int      `koanf:"blacklisted_max_year"`
	MinVotes      int      `koanf:"blacklisted_min_votes"`
	TitleKeywords []string `koanf:"blacklisted_title_keywords"`
	// MinRating excludes items rated below the floor. Items without a rating
	// are never excluded by this dimension.
	MinRating float64 `koanf:"blacklisted_min_rating"`
}

// FiltersConfig groups the per-media-type blacklists.
type FiltersConfig struct {
	Shows  BlacklistConfig `koanf:"shows"`
	Movies BlacklistConfig `koanf:"movies"`
}

// TaskConfig configures one automatic-mode task.
type TaskConfig struct {
	// Interval between runs, in minutes.
	Interval int `koanf:"interval"`
	// ListType is the Trakt list fetched on each scheduled run.
	ListType string `koanf:"list_type"`
}

// AutomaticConfig configures the scheduler loop started by `listarr run`.
type AutomaticConfig struct {
	Shows  TaskConfig `koanf:"shows"`
	Movies TaskConfig `koanf:"movies"`
}

// AddConfig holds the defaults for the apply loop; both can be overridden per
// invocation with --add-delay / --add-limit.
type AddConfig struct {
	// Delay between consecutive addition attempts.
	Delay time.Duration `koanf:"delay"`
	// Limit caps successful additions per run. 0 = unlimited.
	Limit int `koanf:"limit"`
}

// MetricsConfig configures the optional Prometheus endpoint in daemon mode.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Listen  string `koanf:"listen"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Default returns a Config with all default values. Defaults are applied
// first, then overridden by the config file and environment variables.
func Default() *Config {
	return &Config{
		Trakt: TraktConfig{
			URL:       "https://api.trakt.tv",
			APIKey:    "",
			ListLimit: 100,
		},
		Sonarr: SonarrConfig{
			URL:        "",
			APIKey:     "",
			Profile:    "HD-1080p",
			RootFolder: "/tv/",
			Tags:       map[string][]string{},
			TagMatch:   "exact",
		},
		Radarr: RadarrConfig{
			URL:        "",
			APIKey:     "",
			Profile:    "HD-1080p",
			RootFolder: "/movies/",
		},
		Filters: FiltersConfig{
			Shows:  BlacklistConfig{},
			Movies: BlacklistConfig{},
		},
		Automatic: AutomaticConfig{
			Shows:  TaskConfig{Interval: 60, ListType: "trending"},
			Movies: TaskConfig{Interval: 30, ListType: "trending"},
		},
		Add: AddConfig{
			Delay: 2500 * time.Millisecond,
			Limit: 0,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  ":9707",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Caller: false,
		},
	}
}
