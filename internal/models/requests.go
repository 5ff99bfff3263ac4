// Listarr - Trakt List Synchronization for Sonarr and Radarr
// Copyright 2026 Listarr contributors
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/listarr/listarr

package models

// AddSeriesRequest carries everything Sonarr needs to start tracking a series.
type AddSeriesRequest struct {
	TVDBID     int
	Title      string
	TitleSlug  string
	ProfileID  int
	RootFolder string
	TagIDs     []int
	Search     bool
}

// AddMovieRequest carries everything Radarr needs to start tracking a movie.
type AddMovieRequest struct {
	TMDBID     int
	Title      string
	Year       int
	TitleSlug  string
	ProfileID  int
	RootFolder string
	Search     bool
}
