// Listarr - Trakt List Synchronization for Sonarr and Radarr
// Copyright 2026 Listarr contributors
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/listarr/listarr

// Package filter implements the pure decision logic of a reconciliation run:
// the blacklist evaluator, which decides per candidate whether any configured
// exclusion dimension matches, and the tag resolver, which maps a show's
// originating network onto Sonarr tag IDs.
//
// Everything here is side-effect free and safe for concurrent use; rule sets
// are immutable once built.
package filter

import (
	"strings"

	"github.com/listarr/listarr/internal/config"
)

// Candidate is the projection of a show or movie that the blacklist evaluator
// inspects. Zero-valued fields never match an exclusion dimension, so a
// candidate with missing metadata is filtered only on what it carries.
type Candidate struct {
	Title   string
	Year    int
	Country string
	Network string // empty for movies
	Genres  []string
	Votes   int
	Rating  float64
}

// Rules is a compiled blacklist rule set for one media type. All string
// matching is case-insensitive; the constructor lowercases everything once so
// evaluation is allocation-free.
type Rules struct {
	genres        map[string]struct{}
	networks      map[string]struct{}
	countries     map[string]struct{}
	minYear       int
	maxYear       int
	minVotes      int
	titleKeywords []string
	minRating     float64
}

// NewRules compiles a blacklist configuration into an evaluable rule set.
func NewRules(cfg config.BlacklistConfig) *Rules {
	return &Rules{
		genres:        lowerSet(cfg.Genres),
		networks:      lowerSet(cfg.Networks),
		countries:     lowerSet(cfg.Countries),
		minYear:       cfg.MinYear,
		maxYear:       cfg.MaxYear,
		minVotes:      cfg.MinVotes,
		titleKeywords: lowerSlice(cfg.TitleKeywords),
		minRating:     cfg.MinRating,
	}
}

// Blacklisted reports whether any configured, non-empty dimension matches the
// candidate. Dimensions combine with OR: a candidate survives only if it fails
// every exclusion test. Unconfigured dimensions never exclude.
func (r *Rules) Blacklisted(c Candidate) bool {
	return r.genreBlacklisted(c.Genres) ||
		r.networkBlacklisted(c.Network) ||
		r.countryBlacklisted(c.Country) ||
		r.yearBlacklisted(c.Year) ||
		r.votesBlacklisted(c.Votes) ||
		r.titleBlacklisted(c.Title) ||
		r.ratingBlacklisted(c.Rating)
}

// genreBlacklisted is true when the candidate's genre set intersects the
// excluded set.
func (r *Rules) genreBlacklisted(genres []string) bool {
	if len(r.genres) == 0 {
		return false
	}
	for _, g := range genres {
		if _, ok := r.genres[strings.ToLower(g)]; ok {
			return true
		}
	}
	return false
}

func (r *Rules) networkBlacklisted(network string) bool {
	if len(r.networks) == 0 || network == "" {
		return false
	}
	_, ok := r.networks[strings.ToLower(network)]
	return ok
}

func (r *Rules) countryBlacklisted(country string) bool {
	if len(r.countries) == 0 || country == "" {
		return false
	}
	_, ok := r.countries[strings.ToLower(country)]
	return ok
}

// yearBlacklisted is true when the candidate falls outside the configured
// keep-range. An unknown year (0) never matches.
func (r *Rules) yearBlacklisted(year int) bool {
	if year == 0 {
		return false
	}
	if r.minYear > 0 && year < r.minYear {
		return true
	}
	if r.maxYear > 0 && year > r.maxYear {
		return true
	}
	return false
}

func (r *Rules) votesBlacklisted(votes int) bool {
	return r.minVotes > 0 && votes < r.minVotes
}

func (r *Rules) titleBlacklisted(title string) bool {
	if len(r.titleKeywords) == 0 || title == "" {
		return false
	}
	lower := strings.ToLower(title)
	for _, kw := range r.titleKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ratingBlacklisted applies the minimum-rating floor. Candidates without a
// rating (0) are never excluded by this dimension.
func (r *Rules) ratingBlacklisted(rating float64) bool {
	return r.minRating > 0 && rating > 0 && rating < r.minRating
}

func lowerSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			set[strings.ToLower(v)] = struct{}{}
		}
	}
	return set
}

func lowerSlice(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, strings.ToLower(v))
		}
	}
	return out
}
