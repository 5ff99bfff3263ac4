// Listarr - Trakt List Synchronization for Sonarr and Radarr
// Copyright 2026 Listarr contributors
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/listarr/listarr

package trakt

import (
	"context"
	"net/url"
	"strconv"

	"github.com/listarr/listarr/internal/models"
)

// Trakt wraps each list variant differently: trending entries carry a watcher
// count, anticipated entries a list count, box office entries a revenue
// figure, and popular lists return the bare object. The wire types below
// mirror those shapes; normalization flattens them all into models.Show /
// models.Movie.

type traktIDs struct {
	Trakt int    `json:"trakt"`
	Slug  string `json:"slug"`
	TVDB  int    `json:"tvdb"`
	IMDB  string `json:"imdb"`
	TMDB  int    `json:"tmdb"`
}

type traktShow struct {
	Title   string   `json:"title"`
	Year    int      `json:"year"`
	IDs     traktIDs `json:"ids"`
	Country string   `json:"country"`
	Network string   `json:"network"`
	Status  string   `json:"status"`
	Genres  []string `json:"genres"`
	Votes   int      `json:"votes"`
	Rating  float64  `json:"rating"`
}

type traktMovie struct {
	Title   string   `json:"title"`
	Year    int      `json:"year"`
	IDs     traktIDs `json:"ids"`
	Country string   `json:"country"`
	Genres  []string `json:"genres"`
	Votes   int      `json:"votes"`
	Rating  float64  `json:"rating"`
}

type trendingShowEntry struct {
	Watchers int       `json:"watchers"`
	Show     traktShow `json:"show"`
}

type anticipatedShowEntry struct {
	ListCount int       `json:"list_count"`
	Show      traktShow `json:"show"`
}

type trendingMovieEntry struct {
	Watchers int        `json:"watchers"`
	Movie    traktMovie `json:"movie"`
}

type anticipatedMovieEntry struct {
	ListCount int        `json:"list_count"`
	Movie     traktMovie `json:"movie"`
}

type boxOfficeEntry struct {
	Revenue int        `json:"revenue"`
	Movie   traktMovie `json:"movie"`
}

func normalizeShow(s traktShow) models.Show {
	return models.Show{
		Title:   s.Title,
		Year:    s.Year,
		Country: s.Country,
		Network: s.Network,
		Status:  s.Status,
		Genres:  s.Genres,
		Votes:   s.Votes,
		Rating:  s.Rating,
		IDs: models.IDSet{
			Trakt: s.IDs.Trakt,
			Slug:  s.IDs.Slug,
			TVDB:  s.IDs.TVDB,
			IMDB:  s.IDs.IMDB,
			TMDB:  s.IDs.TMDB,
		},
	}
}

func normalizeMovie(m traktMovie) models.Movie {
	return models.Movie{
		Title:   m.Title,
		Year:    m.Year,
		Country: m.Country,
		Genres:  m.Genres,
		Votes:   m.Votes,
		Rating:  m.Rating,
		IDs: models.IDSet{
			Trakt: m.IDs.Trakt,
			Slug:  m.IDs.Slug,
			TVDB:  m.IDs.TVDB,
			IMDB:  m.IDs.IMDB,
			TMDB:  m.IDs.TMDB,
		},
	}
}

// listParams builds the common query parameters: extended=full is required
// for votes, rating, country, network, and genres to appear in the payload.
func listParams(limit int) url.Values {
	params := url.Values{}
	params.Set("extended", "full")
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	return params
}

// TrendingShows returns the shows most watched over the last 24 hours.
func (c *Client) TrendingShows(ctx context.Context, limit int) ([]models.Show, error) {
	var entries []trendingShowEntry
	if err := c.makeRequest(ctx, "/shows/trending", listParams(limit), &entries); err != nil {
		return nil, err
	}
	shows := make([]models.Show, 0, len(entries))
	for _, e := range entries {
		shows = append(shows, normalizeShow(e.Show))
	}
	return shows, nil
}

// PopularShows returns the most popular shows. Popular lists are not wrapped;
// the payload is a bare array of show objects.
func (c *Client) PopularShows(ctx context.Context, limit int) ([]models.Show, error) {
	var entries []traktShow
	if err := c.makeRequest(ctx, "/shows/popular", listParams(limit), &entries); err != nil {
		return nil, err
	}
	shows := make([]models.Show, 0, len(entries))
	for _, e := range entries {
		shows = append(shows, normalizeShow(e))
	}
	return shows, nil
}

// AnticipatedShows returns the shows most listed before their release.
func (c *Client) AnticipatedShows(ctx context.Context, limit int) ([]models.Show, error) {
	var entries []anticipatedShowEntry
	if err := c.makeRequest(ctx, "/shows/anticipated", listParams(limit), &entries); err != nil {
		return nil, err
	}
	shows := make([]models.Show, 0, len(entries))
	for _, e := range entries {
		shows = append(shows, normalizeShow(e.Show))
	}
	return shows, nil
}

// TrendingMovies returns the movies most watched over the last 24 hours.
func (c *Client) TrendingMovies(ctx context.Context, limit int) ([]models.Movie, error) {
	var entries []trendingMovieEntry
	if err := c.makeRequest(ctx, "/movies/trending", listParams(limit), &entries); err != nil {
		return nil, err
	}
	movies := make([]models.Movie, 0, len(entries))
	for _, e := range entries {
		movies = append(movies, normalizeMovie(e.Movie))
	}
	return movies, nil
}

// PopularMovies returns the most popular movies as a bare array.
func (c *Client) PopularMovies(ctx context.Context, limit int) ([]models.Movie, error) {
	var entries []traktMovie
	if err := c.makeRequest(ctx, "/movies/popular", listParams(limit), &entries); err != nil {
		return nil, err
	}
	movies := make([]models.Movie, 0, len(entries))
	for _, e := range entries {
		movies = append(movies, normalizeMovie(e))
	}
	return movies, nil
}

// AnticipatedMovies returns the movies most listed before their release.
func (c *Client) AnticipatedMovies(ctx context.Context, limit int) ([]models.Movie, error) {
	var entries []anticipatedMovieEntry
	if err := c.makeRequest(ctx, "/movies/anticipated", listParams(limit), &entries); err != nil {
		return nil, err
	}
	movies := make([]models.Movie, 0, len(entries))
	for _, e := range entries {
		movies = append(movies, normalizeMovie(e.Movie))
	}
	return movies, nil
}

// BoxOfficeMovies returns the top grossing movies of the last weekend. The
// endpoint ignores limit; Trakt always returns the top 10.
func (c *Client) BoxOfficeMovies(ctx context.Context, _ int) ([]models.Movie, error) {
	params := url.Values{}
	params.Set("extended", "full")

	var entries []boxOfficeEntry
	if err := c.makeRequest(ctx, "/movies/boxoffice", params, &entries); err != nil {
		return nil, err
	}
	movies := make([]models.Movie, 0, len(entries))
	for _, e := range entries {
		movies = append(movies, normalizeMovie(e.Movie))
	}
	return movies, nil
}
