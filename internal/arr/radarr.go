// Listarr - Trakt List Synchronization for Sonarr and Radarr
// Copyright 2026 Listarr contributors
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/listarr/listarr

package arr

import (
	"context"
	"fmt"
	"strings"

	"github.com/listarr/listarr/internal/config"
	"github.com/listarr/listarr/internal/models"
	"github.com/listarr/listarr/internal/reconcile"
)

// Radarr is a client for the Radarr REST API. It implements
// reconcile.MovieManager.
type Radarr struct {
	client
}

// NewRadarr creates a Radarr client from configuration.
func NewRadarr(cfg *config.RadarrConfig) *Radarr {
	return &Radarr{client: newClient(cfg.URL, cfg.APIKey)}
}

// ValidateCredentials verifies the Radarr URL and API key.
func (r *Radarr) ValidateCredentials(ctx context.Context) error {
	return r.validateStatus(ctx, "radarr")
}

// ProfileID resolves a quality profile name to its ID, case-insensitively.
func (r *Radarr) ProfileID(ctx context.Context, name string) (int, error) {
	var profiles []profile
	if err := r.get(ctx, "/api/profile", &profiles); err != nil {
		return 0, err
	}
	for _, p := range profiles {
		if strings.EqualFold(p.Name, name) {
			return p.ID, nil
		}
	}
	return 0, fmt.Errorf("quality profile %q not found in radarr", name)
}

// radarrMovie is the subset of /api/movie needed for deduplication.
type radarrMovie struct {
	TMDBID int `json:"tmdbId"`
}

// Movies returns the TMDb IDs of every movie Radarr already tracks.
func (r *Radarr) Movies(ctx context.Context) (reconcile.Catalog, error) {
	var movies []radarrMovie
	if err := r.get(ctx, "/api/movie", &movies); err != nil {
		return nil, err
	}
	catalog := make(reconcile.Catalog, len(movies))
	for _, m := range movies {
		catalog[m.TMDBID] = struct{}{}
	}
	return catalog, nil
}

// addMoviePayload is the POST /api/movie request body.
type addMoviePayload struct {
	TMDBID              int             `json:"tmdbId"`
	Title               string          `json:"title"`
	Year                int             `json:"year"`
	TitleSlug           string          `json:"titleSlug"`
	QualityProfileID    int             `json:"qualityProfileId"`
	RootFolderPath      string          `json:"rootFolderPath"`
	MinimumAvailability string          `json:"minimumAvailability"`
	Monitored           bool            `json:"monitored"`
	AddOptions          movieAddOptions `json:"addOptions"`
}

type movieAddOptions struct {
	SearchForMovie bool `json:"searchForMovie"`
}

// AddMovie adds one movie to Radarr, monitored, with optional search.
// Availability is fixed at "released" so Radarr only grabs finished releases.
func (r *Radarr) AddMovie(ctx context.Context, req models.AddMovieRequest) error {
	return r.post(ctx, "/api/movie", addMoviePayload{
		TMDBID:              req.TMDBID,
		Title:               req.Title,
		Year:                req.Year,
		TitleSlug:           req.TitleSlug,
		QualityProfileID:    req.ProfileID,
		RootFolderPath:      req.RootFolder,
		MinimumAvailability: "released",
		Monitored:           true,
		AddOptions: movieAddOptions{
			SearchForMovie: req.Search,
		},
	})
}
