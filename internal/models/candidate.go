// Listarr - Trakt List Synchronization for Sonarr and Radarr
// Copyright 2026 Listarr contributors
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/listarr/listarr

// Package models defines the domain records shared between the Trakt client,
// the Sonarr/Radarr clients, and the reconciliation engine.
//
// Candidate records (Show, Movie) are normalized from the Trakt list variants
// (trending, popular, anticipated, box office all wrap the underlying object
// differently) and are immutable for the duration of a reconciliation run.
package models

// IDSet holds the external identifiers Trakt reports for a show or movie.
// TVDB is the catalog key for Sonarr, TMDB for Radarr; Slug is used in add
// requests for both.
type IDSet struct {
	Trakt int    `json:"trakt"`
	Slug  string `json:"slug"`
	TVDB  int    `json:"tvdb"`
	IMDB  string `json:"imdb"`
	TMDB  int    `json:"tmdb"`
}

// Show is one candidate series from a Trakt list.
type Show struct {
	Title   string   `json:"title"`
	Year    int      `json:"year"`
	Country string   `json:"country"`
	Network string   `json:"network"`
	Status  string   `json:"status"`
	Genres  []string `json:"genres"`
	Votes   int      `json:"votes"`
	Rating  float64  `json:"rating"`
	IDs     IDSet    `json:"ids"`
}

// Movie is one candidate movie from a Trakt list.
type Movie struct {
	Title   string   `json:"title"`
	Year    int      `json:"year"`
	Country string   `json:"country"`
	Genres  []string `json:"genres"`
	Votes   int      `json:"votes"`
	Rating  float64  `json:"rating"`
	IDs     IDSet    `json:"ids"`
}
