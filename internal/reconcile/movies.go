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

// MovieSource is the recommendation-service surface the movie reconciler
// consumes. Implemented by trakt.Client and by mocks in tests.
type MovieSource interface {
	ValidateCredentials(ctx context.Context) error
	AnticipatedMovies(ctx context.Context, limit int) ([]models.Movie, error)
	TrendingMovies(ctx context.Context, limit int) ([]models.Movie, error)
	PopularMovies(ctx context.Context, limit int) ([]models.Movie, error)
	BoxOfficeMovies(ctx context.Context, limit int) ([]models.Movie, error)
}

// MovieManager is the downstream movie catalog surface. Implemented by
// arr.Radarr.
type MovieManager interface {
	ValidateCredentials(ctx context.Context) error
	ProfileID(ctx context.Context, name string) (int, error)
	Movies(ctx context.Context) (Catalog, error)
	AddMovie(ctx context.Context, req models.AddMovieRequest) error
}

// MovieReconciler runs one reconciliation pass for movies.
type MovieReconciler struct {
	source MovieSource
	radarr MovieManager

	rules      *filter.Rules
	profile    string
	rootFolder string
	listLimit  int

	logger zerolog.Logger

	newPacer func(time.Duration) pacer
}

// NewMovieReconciler wires a movie reconciler from configuration.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewMovieReconciler(source MovieSource, radarr MovieManager, cfg *config.Config, logger zerolog.Logger) *MovieReconciler {
	return &MovieReconciler{
		source:     source,
		radarr:     radarr,
		rules:      filter.NewRules(cfg.Filters.Movies),
		profile:    cfg.Radarr.Profile,
		rootFolder: cfg.Radarr.RootFolder,
		listLimit:  cfg.Trakt.ListLimit,
		logger:     logger.With().Str("component", "reconciler").Str("media_type", "movie").Logger(),
		newPacer:   newRatePacer,
	}
}

func (r *MovieReconciler) movieListFunc(listType string) (func(context.Context, int) ([]models.Movie, error), error) {
	switch strings.ToLower(listType) {
	case "anticipated":
		return r.source.AnticipatedMovies, nil
	case "trending":
		return r.source.TrendingMovies, nil
	case "popular":
		return r.source.PopularMovies, nil
	case "boxoffice":
		return r.source.BoxOfficeMovies, nil
	default:
		return nil, fmt.Errorf("%w: %q is not valid for movies", ErrUnknownListType, listType)
	}
}

// Run executes one full reconciliation pass for movies and returns its
// summary. Per-item failures are folded into the Result; the returned error
// is non-nil when the run aborted (nil Result) or when the context was
// canceled mid-apply, in which case the partial Result is returned with it.
func (r *MovieReconciler) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	runID := uuid.New().String()
	log := r.logger.With().Str("run_id", runID).Str("list_type", opts.ListType).Logger()

	fetchList, err := r.movieListFunc(opts.ListType)
	if err != nil {
		return nil, r.abort(log, start, err)
	}

	if err := r.source.ValidateCredentials(ctx); err != nil {
		return nil, r.abort(log, start, &ValidationError{Op: "trakt credentials", Err: err})
	}
	log.Info().Msg("Validated Trakt API key")

	if err := r.radarr.ValidateCredentials(ctx); err != nil {
		return nil, r.abort(log, start, &ValidationError{Op: "radarr url/api key", Err: err})
	}
	log.Info().Msg("Validated Radarr URL and API key")

	profileID, err := r.radarr.ProfileID(ctx, r.profile)
	if err != nil {
		return nil, r.abort(log, start, &ValidationError{Op: "radarr profile " + r.profile, Err: err})
	}
	log.Info().Str("profile", r.profile).Int("profile_id", profileID).Msg("Resolved quality profile")

	catalog, err := r.radarr.Movies(ctx)
	if err != nil {
		return nil, r.abort(log, start, &FetchError{Op: "radarr movie list", Err: err})
	}
	log.Info().Int("count", len(catalog)).Msg("Retrieved Radarr movie list")

	candidates, err := fetchList(ctx, r.listLimit)
	if err != nil {
		return nil, r.abort(log, start, &FetchError{Op: "trakt " + opts.ListType + " movies", Err: err})
	}
	log.Info().Int("count", len(candidates)).Msg("Retrieved Trakt movies list")

	remaining, err := Dedup(catalog, candidates, func(m models.Movie) int { return m.IDs.TMDB })
	if err != nil {
		return nil, r.abort(log, start, &FetchError{Op: "dedup against radarr catalog", Err: err})
	}
	log.Info().Int("count", len(remaining)).Msg("Removed movies already tracked by Radarr")

	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].Votes > remaining[j].Votes
	})

	result := &Result{
		RunID:      runID,
		MediaType:  "movie",
		ListType:   opts.ListType,
		Candidates: len(remaining),
	}

	wait := r.newPacer(opts.AddDelay)

	for _, movie := range remaining {
		if r.rules.Blacklisted(movieCandidate(movie)) {
			result.Skipped++
			result.Items = append(result.Items, ItemResult{Title: movie.Title, Year: movie.Year, Outcome: ItemSkipped})
			metrics.ItemsBlacklisted.WithLabelValues("movie").Inc()
			continue
		}

		if err := wait.Wait(ctx); err != nil {
			result.Duration = time.Since(start)
			return result, err
		}

		log.Info().
			Str("title", movie.Title).
			Int("year", movie.Year).
			Str("genres", strings.Join(movie.Genres, ", ")).
			Str("country", strings.ToUpper(movie.Country)).
			Msg("Adding movie")

		if err := r.addMovie(ctx, movie, profileID, opts); err != nil {
			log.Error().Err(err).Str("title", movie.Title).Int("year", movie.Year).Msg("FAILED adding movie")
			result.Failed++
			result.Items = append(result.Items, ItemResult{Title: movie.Title, Year: movie.Year, Outcome: ItemFailed, Err: err})
			metrics.ItemFailures.WithLabelValues("movie").Inc()
			continue
		}

		log.Info().Str("title", movie.Title).Int("year", movie.Year).Msg("ADDED movie")
		result.Added++
		result.Items = append(result.Items, ItemResult{Title: movie.Title, Year: movie.Year, Outcome: ItemAdded})
		metrics.ItemsAdded.WithLabelValues("movie").Inc()

		if opts.AddLimit > 0 && result.Added >= opts.AddLimit {
			log.Info().Int("add_limit", opts.AddLimit).Msg("Reached add limit, stopping")
			break
		}
	}

	result.Duration = time.Since(start)
	metrics.RunsTotal.WithLabelValues("movie", "completed").Inc()
	metrics.RunDuration.WithLabelValues("movie").Observe(result.Duration.Seconds())
	log.Info().
		Int("added", result.Added).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Dur("duration", result.Duration).
		Msg("Added new movies to Radarr")
	return result, nil
}

func (r *MovieReconciler) addMovie(ctx context.Context, movie models.Movie, profileID int, opts Options) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic while adding %q: %v", movie.Title, p)
		}
	}()

	return r.radarr.AddMovie(ctx, models.AddMovieRequest{
		TMDBID:     movie.IDs.TMDB,
		Title:      movie.Title,
		Year:       movie.Year,
		TitleSlug:  movie.IDs.Slug,
		ProfileID:  profileID,
		RootFolder: r.rootFolder,
		Search:     !opts.NoSearch,
	})
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func (r *MovieReconciler) abort(log zerolog.Logger, start time.Time, err error) error {
	metrics.RunsTotal.WithLabelValues("movie", "aborted").Inc()
	metrics.RunDuration.WithLabelValues("movie").Observe(time.Since(start).Seconds())
	log.Error().Err(err).Msg("Aborting movie reconciliation")
	return err
}

// movieCandidate projects a movie onto the blacklist evaluator's view.
func movieCandidate(m models.Movie) filter.Candidate {
	return filter.Candidate{
		Title:   m.Title,
		Year:    m.Year,
		Country: m.Country,
		Genres:  m.Genres,
		Votes:   m.Votes,
		Rating:  m.Rating,
	}
}
