// Listarr - Trakt List Synchronization for Sonarr and Radarr
// Copyright 2026 Listarr contributors
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/listarr/listarr

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ShowListTypes enumerates the Trakt list variants valid for shows.
var ShowListTypes = []string{"anticipated", "trending", "popular"}

// MovieListTypes enumerates the Trakt list variants valid for movies.
var MovieListTypes = []string{"anticipated", "trending", "popular", "boxoffice"}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateTrakt(); err != nil {
		return err
	}
	if err := c.validateSonarr(); err != nil {
		return err
	}
	if err := c.validateRadarr(); err != nil {
		return err
	}
	if err := c.validateAutomatic(); err != nil {
		return err
	}
	if err := c.validateAdd(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTrakt() error {
	if c.Trakt.APIKey == "" {
		return fmt.Errorf("trakt.api_key is required")
	}
	if err := validateHTTPURL(c.Trakt.URL, "trakt.url"); err != nil {
		return err
	}
	if c.Trakt.ListLimit <= 0 {
		return fmt.Errorf("trakt.list_limit must be positive, got %d", c.Trakt.ListLimit)
	}
	return nil
}

// validateSonarr checks the Sonarr section when it is configured at all.
// An empty section is valid: the movies subcommand does not need Sonarr.
func (c *Config) validateSonarr() error {
	if c.Sonarr.URL == "" && c.Sonarr.APIKey == "" {
		return nil
	}
	if err := validateHTTPURL(c.Sonarr.URL, "sonarr.url"); err != nil {
		return err
	}
	if c.Sonarr.APIKey == "" {
		return fmt.Errorf("sonarr.api_key is required when sonarr.url is set")
	}
	if c.Sonarr.Profile == "" {
		return fmt.Errorf("sonarr.profile is required")
	}
	if c.Sonarr.RootFolder == "" {
		return fmt.Errorf("sonarr.root_folder is required")
	}
	switch c.Sonarr.TagMatch {
	case "exact", "substring":
	default:
		return fmt.Errorf("sonarr.tag_match must be \"exact\" or \"substring\", got %q", c.Sonarr.TagMatch)
	}
	return nil
}

func (c *Config) validateRadarr() error {
	if c.Radarr.URL == "" && c.Radarr.APIKey == "" {
		return nil
	}
	if err := validateHTTPURL(c.Radarr.URL, "radarr.url"); err != nil {
		return err
	}
	if c.Radarr.APIKey == "" {
		return fmt.Errorf("radarr.api_key is required when radarr.url is set")
	}
	if c.Radarr.Profile == "" {
		return fmt.Errorf("radarr.profile is required")
	}
	if c.Radarr.RootFolder == "" {
		return fmt.Errorf("radarr.root_folder is required")
	}
	return nil
}

func (c *Config) validateAutomatic() error {
	if c.Automatic.Shows.Interval <= 0 {
		return fmt.Errorf("automatic.shows.interval must be positive, got %d", c.Automatic.Shows.Interval)
	}
	if c.Automatic.Movies.Interval <= 0 {
		return fmt.Errorf("automatic.movies.interval must be positive, got %d", c.Automatic.Movies.Interval)
	}
	if !contains(ShowListTypes, c.Automatic.Shows.ListType) {
		return fmt.Errorf("automatic.shows.list_type must be one of %s, got %q",
			strings.Join(ShowListTypes, ", "), c.Automatic.Shows.ListType)
	}
	if !contains(MovieListTypes, c.Automatic.Movies.ListType) {
		return fmt.Errorf("automatic.movies.list_type must be one of %s, got %q",
			strings.Join(MovieListTypes, ", "), c.Automatic.Movies.ListType)
	}
	return nil
}

func (c *Config) validateAdd() error {
	if c.Add.Delay < 0 {
		return fmt.Errorf("add.delay must not be negative, got %s", c.Add.Delay)
	}
	if c.Add.Limit < 0 {
		return fmt.Errorf("add.limit must not be negative, got %d", c.Add.Limit)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "disabled":
	default:
		return fmt.Errorf("logging.level %q is not a recognized level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be \"json\" or \"console\", got %q", c.Logging.Format)
	}
	return nil
}

// validateHTTPURL checks that a value parses as an absolute http(s) URL.
func validateHTTPURL(raw, field string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", field)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is invalid: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", field, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s is missing a host", field)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
