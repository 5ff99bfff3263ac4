// Listarr - Trakt List Synchronization for Sonarr and Radarr
// Copyright 2026 Listarr contributors
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/listarr/listarr

package filter

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// TagMatchMode selects how tag rule network patterns are compared.
type TagMatchMode int

const (
	// TagMatchExact requires the pattern to equal the network name.
	TagMatchExact TagMatchMode = iota
	// TagMatchSubstring requires the pattern to appear within the network name.
	TagMatchSubstring
)

// ParseTagMatchMode converts the config string ("exact" or "substring") to a
// TagMatchMode. Unrecognized values fall back to exact.
func ParseTagMatchMode(mode string) TagMatchMode {
	if strings.EqualFold(mode, "substring") {
		return TagMatchSubstring
	}
	return TagMatchExact
}

// ResolveTags maps a show's originating network to the Sonarr tag IDs that
// should be attached on add.
//
// rules maps a tag label to the network patterns that earn it; known maps the
// tag labels Sonarr reported to their numeric IDs (labels lowercased). A rule
// whose label is unknown to Sonarr is skipped with a warning, never fatal. An
// empty result is a valid outcome: the show is added untagged.
//
// All comparisons are case-insensitive. The returned IDs are sorted so the add
// request payload is deterministic.
func ResolveTags(network string, rules map[string][]string, known map[string]int, mode TagMatchMode, log zerolog.Logger) []int {
	if network == "" || len(rules) == 0 {
		return nil
	}

	netLower := strings.ToLower(network)
	var ids []int

	for label, patterns := range rules {
		if !matchesNetwork(netLower, patterns, mode) {
			continue
		}

		id, ok := known[strings.ToLower(label)]
		if !ok {
			log.Warn().Str("tag", label).Str("network", network).
				Msg("Tag configured for network is unknown to Sonarr, skipping")
			continue
		}
		ids = append(ids, id)
	}

	sort.Ints(ids)
	return ids
}

func matchesNetwork(netLower string, patterns []string, mode TagMatchMode) bool {
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if mode == TagMatchSubstring {
			if strings.Contains(netLower, p) {
				return true
			}
		} else if netLower == p {
			return true
		}
	}
	return false
}
