// Listarr - Trakt List Synchronization for Sonarr and Radarr
// Copyright 2026 Listarr contributors
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/listarr/listarr

package reconcile

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/listarr/listarr/internal/config"
	"github.com/listarr/listarr/internal/filter"
	"github.com/listarr/listarr/internal/metrics"
	"github.com/listarr/listarr/internal/models"
)

// ShowSource is the recommendation-service surface the show reconciler
// consumes. Implemented by trakt.Client and by mocks in tests.
type ShowSource interface {
	ValidateCredentials(ctx context.Context) error
	AnticipatedShows(ctx context.Context, limit int) ([]models.Show, error)
	TrendingShows(ctx context.Context, limit int) ([]models.Show, error)
	PopularShows(ctx context.Context, limit int) ([]models.Show, error)
}

// SeriesManager is the downstream TV catalog surface. Implemented by
// arr.Sonarr.
type SeriesManager interface {
	ValidateCredentials(ctx context.Context) error
	ProfileID(ctx context.Context, name string) (int, error)
	Tags(ctx context.Context) (map[string]int, error)
	Series(ctx context.Context) (Catalog, error)
	AddSeries(ctx context.Context, req models.AddSeriesRequest) error
}

// ShowReconciler runs one reconciliation pass for series.
type ShowReconciler struct {
	source ShowSource
	sonarr SeriesManager

	rules      *filter.Rules
	tagRules   map[string][]string
	tagMode    filter.TagMatchMode
	profile    string
	rootFolder string
	listLimit  int

	logger zerolog.Logger

	// newPacer is swapped out by tests to observe pacing.
	newPacer func(time.Duration) pacer
}

// NewShowReconciler wires a show reconciler from configuration.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewShowReconciler(source ShowSource, sonarr SeriesManager, cfg *config.Config, logger zerolog.Logger) *ShowReconciler {
	return &ShowReconciler{
		source:     source,
		sonarr:     sonarr,
		rules:      filter.NewRules(cfg.Filters.Shows),
		tagRules:   cfg.Sonarr.Tags,
		tagMode:    filter.ParseTagMatchMode(cfg.Sonarr.TagMatch),
		profile:    cfg.Sonarr.Profile,
		rootFolder: cfg.Sonarr.RootFolder,
		listLimit:  cfg.Trakt.ListLimit,
		logger:     logger.With().Str("component", "reconciler").Str("media_type", "show").Logger(),
		newPacer:   newRatePacer,
	}
}

// showListFunc resolves the list type to the source call, before any network
// traffic happens. An unknown type is a configuration error.
func (r *ShowReconciler) showListFunc(listType string) (func(context.Context, int) ([]models.Show, error), error) {
	switch strings.ToLower(listType) {
	case "anticipated":
		return r.source.AnticipatedShows, nil
	case "trending":
		return r.source.TrendingShows, nil
	case "popular":
		return r.source.PopularShows, nil
	default:
		return nil, fmt.Errorf("%w: %q is not valid for shows", ErrUnknownListType, listType)
	}
}

// Run executes one full reconciliation pass for shows and returns its
// summary. Per-item failures are folded into the Result; the returned error
// is non-nil when the run aborted (nil Result) or when the context was
// canceled mid-apply, in which case the partial Result is returned with it.
func (r *ShowReconciler) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	runID := uuid.New().String()
	log := r.logger.With().Str("run_id", runID).Str("list_type", opts.ListType).Logger()

	fetchList, err := r.showListFunc(opts.ListType)
	if err != nil {
		return nil, r.abort(log, start, err)
	}

	if err := r.source.ValidateCredentials(ctx); err != nil {
		return nil, r.abort(log, start, &ValidationError{Op: "trakt credentials", Err: err})
	}
	log.Info().Msg("Validated Trakt API key")

	if err := r.sonarr.ValidateCredentials(ctx); err != nil {
		return nil, r.abort(log, start, &ValidationError{Op: "sonarr url/api key", Err: err})
	}
	log.Info().Msg("Validated Sonarr URL and API key")

	profileID, err := r.sonarr.ProfileID(ctx, r.profile)
	if err != nil {
		return nil, r.abort(log, start, &ValidationError{Op: "sonarr profile " + r.profile, Err: err})
	}
	log.Info().Str("profile", r.profile).Int("profile_id", profileID).Msg("Resolved quality profile")

	knownTags, err := r.sonarr.Tags(ctx)
	if err != nil {
		return nil, r.abort(log, start, &ValidationError{Op: "sonarr tags", Err: err})
	}
	log.Info().Int("count", len(knownTags)).Msg("Retrieved Sonarr tags")

	catalog, err := r.sonarr.Series(ctx)
	if err != nil {
		return nil, r.abort(log, start, &FetchError{Op: "sonarr series list", Err: err})
	}
	log.Info().Int("count", len(catalog)).Msg("Retrieved Sonarr series list")

	candidates, err := fetchList(ctx, r.listLimit)
	if err != nil {
		return nil, r.abort(log, start, &FetchError{Op: "trakt " + opts.ListType + " shows", Err: err})
	}
	log.Info().Int("count", len(candidates)).Msg("Retrieved Trakt shows list")

	remaining, err := Dedup(catalog, candidates, func(s models.Show) int { return s.IDs.TVDB })
	if err != nil {
		return nil, r.abort(log, start, &FetchError{Op: "dedup against sonarr catalog", Err: err})
	}
	log.Info().Int("count", len(remaining)).Msg("Removed series already tracked by Sonarr")

	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].Votes > remaining[j].Votes
	})

	result := &Result{
		RunID:      runID,
		MediaType:  "show",
		ListType:   opts.ListType,
		Candidates: len(remaining),
	}

	wait := r.newPacer(opts.AddDelay)

	for _, show := range remaining {
		if r.rules.Blacklisted(showCandidate(show)) {
			result.Skipped++
			result.Items = append(result.Items, ItemResult{Title: show.Title, Year: show.Year, Outcome: ItemSkipped})
			metrics.ItemsBlacklisted.WithLabelValues("show").Inc()
			continue
		}

		if err := wait.Wait(ctx); err != nil {
			// Context canceled mid-run; report what was done so far.
			result.Duration = time.Since(start)
			return result, err
		}

		log.Info().
			Str("title", show.Title).
			Str("genres", strings.Join(show.Genres, ", ")).
			Str("network", show.Network).
			Str("country", strings.ToUpper(show.Country)).
			Msg("Adding series")

		tagIDs := filter.ResolveTags(show.Network, r.tagRules, knownTags, r.tagMode, log)

		if err := r.addSeries(ctx, show, profileID, tagIDs, opts); err != nil {
			log.Error().Err(err).Str("title", show.Title).Int("year", show.Year).Msg("FAILED adding series")
			result.Failed++
			result.Items = append(result.Items, ItemResult{Title: show.Title, Year: show.Year, Outcome: ItemFailed, Err: err})
			metrics.ItemFailures.WithLabelValues("show").Inc()
			continue
		}

		log.Info().Str("title", show.Title).Int("year", show.Year).Ints("tags", tagIDs).Msg("ADDED series")
		result.Added++
		result.Items = append(result.Items, ItemResult{Title: show.Title, Year: show.Year, Outcome: ItemAdded})
		metrics.ItemsAdded.WithLabelValues("show").Inc()

		if opts.AddLimit > 0 && result.Added >= opts.AddLimit {
			log.Info().Int("add_limit", opts.AddLimit).Msg("Reached add limit, stopping")
			break
		}
	}

	result.Duration = time.Since(start)
	metrics.RunsTotal.WithLabelValues("show", "completed").Inc()
	metrics.RunDuration.WithLabelValues("show").Observe(result.Duration.Seconds())
	log.Info().
		Int("added", result.Added).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Dur("duration", result.Duration).
		Msg("Added new series to Sonarr")
	return result, nil
}

// addSeries performs one addition attempt. A panic in the attempt is folded
// into the per-item error so one bad record cannot end the run.
func (r *ShowReconciler) addSeries(ctx context.Context, show models.Show, profileID int, tagIDs []int, opts Options) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic while adding %q: %v", show.Title, p)
		}
	}()

	return r.sonarr.AddSeries(ctx, models.AddSeriesRequest{
		TVDBID:     show.IDs.TVDB,
		Title:      show.Title,
		TitleSlug:  show.IDs.Slug,
		ProfileID:  profileID,
		RootFolder: r.rootFolder,
		TagIDs:     tagIDs,
		Search:     !opts.NoSearch,
	})
}

// abort records an aborted run and passes the error through.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func (r *ShowReconciler) abort(log zerolog.Logger, start time.Time, err error) error {
	metrics.RunsTotal.WithLabelValues("show", "aborted").Inc()
	metrics.RunDuration.WithLabelValues("show").Observe(time.Since(start).Seconds())
	log.Error().Err(err).Msg("Aborting show reconciliation")
	return err
}

// showCandidate projects a show onto the blacklist evaluator's view.
func showCandidate(s models.Show) filter.Candidate {
	return filter.Candidate{
		Title:   s.Title,
		Year:    s.Year,
		Country: s.Country,
		Network: s.Network,
		Genres:  s.Genres,
		Votes:   s.Votes,
		Rating:  s.Rating,
	}
}
