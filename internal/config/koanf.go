// Listarr - Trakt List Synchronization for Sonarr and Radarr
// Copyright 2026 Listarr contributors
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/listarr/listarr

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/listarr/config.yaml",
	"/etc/listarr/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix namespaces Listarr environment variables.
const envPrefix = "LISTARR_"

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in values
//  2. Config File: optional YAML file (if found)
//  3. Environment Variables: LISTARR_* overrides (highest priority)
//
// The result is validated before being returned; a missing required option or
// malformed value is a configuration error, not a runtime one.
func Load() (*Config, error) {
	return LoadFile(findConfigFile())
}

// LoadFile loads configuration like Load but from an explicit config file
// path. An empty path skips the file layer.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envTransformFunc maps LISTARR_ environment variable names onto koanf config
// paths. Section names never contain underscores, so the first underscore after
// the prefix separates the section from the (possibly underscored) key:
//
//	LISTARR_TRAKT_API_KEY       -> trakt.api_key
//	LISTARR_SONARR_ROOT_FOLDER  -> sonarr.root_folder
//	LISTARR_LOGGING_LEVEL       -> logging.level
//
// The automatic and filters sections nest one level deeper
// (section_subsection_key):
//
//	LISTARR_AUTOMATIC_SHOWS_INTERVAL          -> automatic.shows.interval
//	LISTARR_FILTERS_MOVIES_BLACKLISTED_GENRES -> filters.movies.blacklisted_genres
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))

	parts := strings.SplitN(key, "_", 2)
	if len(parts) != 2 {
		return ""
	}
	section, rest := parts[0], parts[1]

	switch section {
	case "automatic", "filters":
		sub := strings.SplitN(rest, "_", 2)
		if len(sub) != 2 {
			return ""
		}
		return section + "." + sub[0] + "." + sub[1]
	case "trakt", "sonarr", "radarr", "add", "metrics", "logging":
		return section + "." + rest
	default:
		return ""
	}
}

// sliceConfigPaths defines which config paths are parsed as comma-separated
// slices when they arrive from the environment as plain strings.
var sliceConfigPaths = []string{
	"filters.shows.blacklisted_genres",
	"filters.shows.blacklisted_networks",
	"filters.shows.blacklisted_countries",
	"filters.shows.blacklisted_title_keywords",
	"filters.movies.blacklisted_genres",
	"filters.movies.blacklisted_networks",
	"filters.movies.blacklisted_countries",
	"filters.movies.blacklisted_title_keywords",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars come in as strings but the config expects
// slices; values already loaded as slices from YAML are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}
