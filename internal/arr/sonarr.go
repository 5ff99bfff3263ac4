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

// Sonarr is a client for the Sonarr REST API. It implements
// reconcile.SeriesManager.
type Sonarr struct {
	client
}

// NewSonarr creates a Sonarr client from configuration.
func NewSonarr(cfg *config.SonarrConfig) *Sonarr {
	return &Sonarr{client: newClient(cfg.URL, cfg.APIKey)}
}

// ValidateCredentials verifies the Sonarr URL and API key.
func (s *Sonarr) ValidateCredentials(ctx context.Context) error {
	return s.validateStatus(ctx, "sonarr")
}

// ProfileID resolves a quality profile name to its ID, case-insensitively.
func (s *Sonarr) ProfileID(ctx context.Context, name string) (int, error) {
	var profiles []profile
	if err := s.get(ctx, "/api/profile", &profiles); err != nil {
		return 0, err
	}
	for _, p := range profiles {
		if strings.EqualFold(p.Name, name) {
			return p.ID, nil
		}
	}
	return 0, fmt.Errorf("quality profile %q not found in sonarr", name)
}

// sonarrTag is one tag from /api/tag.
type sonarrTag struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// Tags returns all Sonarr tags keyed by lowercased label.
func (s *Sonarr) Tags(ctx context.Context) (map[string]int, error) {
	var tags []sonarrTag
	if err := s.get(ctx, "/api/tag", &tags); err != nil {
		return nil, err
	}
	byLabel := make(map[string]int, len(tags))
	for _, t := range tags {
		byLabel[strings.ToLower(t.Label)] = t.ID
	}
	return byLabel, nil
}

// sonarrSeries is the subset of /api/series needed for deduplication.
type sonarrSeries struct {
	TVDBID int `json:"tvdbId"`
}

// Series returns the TVDb IDs of every series Sonarr already tracks.
func (s *Sonarr) Series(ctx context.Context) (reconcile.Catalog, error) {
	var series []sonarrSeries
	if err := s.get(ctx, "/api/series", &series); err != nil {
		return nil, err
	}
	catalog := make(reconcile.Catalog, len(series))
	for _, sr := range series {
		catalog[sr.TVDBID] = struct{}{}
	}
	return catalog, nil
}

// addSeriesPayload is the POST /api/series request body. Seasons are left
// empty; Sonarr populates them from its own metadata lookup on add.
type addSeriesPayload struct {
	TVDBID           int              `json:"tvdbId"`
	Title            string           `json:"title"`
	TitleSlug        string           `json:"titleSlug"`
	QualityProfileID int              `json:"qualityProfileId"`
	RootFolderPath   string           `json:"rootFolderPath"`
	Tags             []int            `json:"tags"`
	Seasons          []struct{}       `json:"seasons"`
	SeasonFolder     bool             `json:"seasonFolder"`
	Monitored        bool             `json:"monitored"`
	AddOptions       seriesAddOptions `json:"addOptions"`
}

type seriesAddOptions struct {
	IgnoreEpisodesWithFiles    bool `json:"ignoreEpisodesWithFiles"`
	IgnoreEpisodesWithoutFiles bool `json:"ignoreEpisodesWithoutFiles"`
	SearchForMissingEpisodes   bool `json:"searchForMissingEpisodes"`
}

// AddSeries adds one series to Sonarr, monitored, with optional search.
func (s *Sonarr) AddSeries(ctx context.Context, req models.AddSeriesRequest) error {
	tags := req.TagIDs
	if tags == nil {
		tags = []int{}
	}
	return s.post(ctx, "/api/series", addSeriesPayload{
		TVDBID:           req.TVDBID,
		Title:            req.Title,
		TitleSlug:        req.TitleSlug,
		QualityProfileID: req.ProfileID,
		RootFolderPath:   req.RootFolder,
		Tags:             tags,
		Seasons:          []struct{}{},
		SeasonFolder:     true,
		Monitored:        true,
		AddOptions: seriesAddOptions{
			SearchForMissingEpisodes: req.Search,
		},
	})
}
