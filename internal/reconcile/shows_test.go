// Listarr - Trakt List Synchronization for Sonarr and Radarr
// Copyright 2026 Listarr contributors
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/listarr/listarr

package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/listarr/listarr/internal/config"
	"github.com/listarr/listarr/internal/models"
)

// mockShowSource records which list was fetched and serves canned candidates.
type mockShowSource struct {
	shows          []models.Show
	validateErr    error
	fetchErr       error
	fetchedList    string
	validateCalled bool
}

func (m *mockShowSource) ValidateCredentials(context.Context) error {
	m.validateCalled = true
	return m.validateErr
}

func (m *mockShowSource) list(name string) ([]models.Show, error) {
	m.fetchedList = name
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.shows, nil
}

func (m *mockShowSource) AnticipatedShows(context.Context, int) ([]models.Show, error) {
	return m.list("anticipated")
}

func (m *mockShowSource) TrendingShows(context.Context, int) ([]models.Show, error) {
	return m.list("trending")
}

func (m *mockShowSource) PopularShows(context.Context, int) ([]models.Show, error) {
	return m.list("popular")
}

// mockSeriesManager records additions and fails on demand per TVDb ID.
type mockSeriesManager struct {
	catalog     Catalog
	tags        map[string]int
	profileID   int
	validateErr error
	profileErr  error
	seriesErr   error
	failTVDB    map[int]error
	panicTVDB   int

	added          []models.AddSeriesRequest
	validateCalled bool
}

func (m *mockSeriesManager) ValidateCredentials(context.Context) error {
	m.validateCalled = true
	return m.validateErr
}

func (m *mockSeriesManager) ProfileID(context.Context, string) (int, error) {
	if m.profileErr != nil {
		return 0, m.profileErr
	}
	return m.profileID, nil
}

func (m *mockSeriesManager) Tags(context.Context) (map[string]int, error) {
	if m.tags == nil {
		return map[string]int{}, nil
	}
	return m.tags, nil
}

func (m *mockSeriesManager) Series(context.Context) (Catalog, error) {
	if m.seriesErr != nil {
		return nil, m.seriesErr
	}
	if m.catalog == nil {
		return Catalog{}, nil
	}
	return m.catalog, nil
}

func (m *mockSeriesManager) AddSeries(_ context.Context, req models.AddSeriesRequest) error {
	if m.panicTVDB != 0 && req.TVDBID == m.panicTVDB {
		panic("malformed series record")
	}
	if err, ok := m.failTVDB[req.TVDBID]; ok {
		return err
	}
	m.added = append(m.added, req)
	return nil
}

// countingPacer counts Wait invocations without sleeping.
type countingPacer struct{ waits int }

func (p *countingPacer) Wait(context.Context) error {
	p.waits++
	return nil
}

func testShowConfig() *config.Config {
	cfg := config.Default()
	cfg.Trakt.APIKey = "key"
	cfg.Sonarr.URL = "http://localhost:8989"
	cfg.Sonarr.APIKey = "key"
	return cfg
}

func newTestShowReconciler(src *mockShowSource, mgr *mockSeriesManager, cfg *config.Config) (*ShowReconciler, *countingPacer) {
	if cfg == nil {
		cfg = testShowConfig()
	}
	r := NewShowReconciler(src, mgr, cfg, zerolog.Nop())
	pc := &countingPacer{}
	r.newPacer = func(time.Duration) pacer { return pc }
	return r, pc
}

func show(tvdb, votes int, title string) models.Show {
	return models.Show{
		Title: title,
		Year:  2024,
		IDs:   models.IDSet{TVDB: tvdb, Slug: title},
		Votes: votes,
	}
}

func TestShowRunDedupsSortsAndAdds(t *testing.T) {
	src := &mockShowSource{shows: []models.Show{
		show(5, 900, "tracked"),
		show(7, 100, "low"),
		show(9, 500, "high"),
	}}
	mgr := &mockSeriesManager{catalog: Catalog{5: {}}, profileID: 1}
	r, _ := newTestShowReconciler(src, mgr, nil)

	result, err := r.Run(context.Background(), Options{ListType: "anticipated"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Candidates != 2 || result.Added != 2 {
		t.Fatalf("Run() candidates=%d added=%d, want 2 and 2", result.Candidates, result.Added)
	}
	if src.fetchedList != "anticipated" {
		t.Errorf("fetched list = %q, want anticipated", src.fetchedList)
	}
	// More votes first.
	if mgr.added[0].TVDBID != 9 || mgr.added[1].TVDBID != 7 {
		t.Errorf("add order = [%d %d], want [9 7]", mgr.added[0].TVDBID, mgr.added[1].TVDBID)
	}
	if result.MediaType != "show" || result.RunID == "" {
		t.Errorf("result identity = %q/%q, want show with a run id", result.MediaType, result.RunID)
	}
}

func TestShowRunStableSortPreservesTies(t *testing.T) {
	src := &mockShowSource{shows: []models.Show{
		show(1, 300, "first"),
		show(2, 300, "second"),
		show(3, 300, "third"),
	}}
	mgr := &mockSeriesManager{profileID: 1}
	r, _ := newTestShowReconciler(src, mgr, nil)

	if _, err := r.Run(context.Background(), Options{ListType: "trending"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for i, want := range []int{1, 2, 3} {
		if mgr.added[i].TVDBID != want {
			t.Errorf("added[%d].TVDBID = %d, want %d", i, mgr.added[i].TVDBID, want)
		}
	}
}

func TestShowRunAddLimitStopsRun(t *testing.T) {
	src := &mockShowSource{shows: []models.Show{
		show(1, 500, "a"), show(2, 400, "b"), show(3, 300, "c"),
	}}
	mgr := &mockSeriesManager{profileID: 1}
	r, _ := newTestShowReconciler(src, mgr, nil)

	result, err := r.Run(context.Background(), Options{ListType: "trending", AddLimit: 2})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Added != 2 || len(mgr.added) != 2 {
		t.Errorf("added = %d (%d requests), want 2", result.Added, len(mgr.added))
	}
}

func TestShowRunFailedItemsDoNotCountTowardLimit(t *testing.T) {
	src := &mockShowSource{shows: []models.Show{
		show(1, 500, "a"), show(2, 400, "b"), show(3, 300, "c"),
	}}
	mgr := &mockSeriesManager{
		profileID: 1,
		failTVDB:  map[int]error{1: errors.New("sonarr rejected it")},
	}
	r, _ := newTestShowReconciler(src, mgr, nil)

	result, err := r.Run(context.Background(), Options{ListType: "trending", AddLimit: 2})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Failed != 1 || result.Added != 2 {
		t.Errorf("failed=%d added=%d, want 1 and 2", result.Failed, result.Added)
	}
	if mgr.added[0].TVDBID != 2 || mgr.added[1].TVDBID != 3 {
		t.Errorf("added IDs = [%d %d], want [2 3]", mgr.added[0].TVDBID, mgr.added[1].TVDBID)
	}
}

func TestShowRunRecoversFromAddPanic(t *testing.T) {
	src := &mockShowSource{shows: []models.Show{
		show(1, 500, "bad"), show(2, 400, "good"),
	}}
	mgr := &mockSeriesManager{profileID: 1, panicTVDB: 1}
	r, _ := newTestShowReconciler(src, mgr, nil)

	result, err := r.Run(context.Background(), Options{ListType: "trending"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Failed != 1 || result.Added != 1 {
		t.Errorf("failed=%d added=%d, want 1 and 1", result.Failed, result.Added)
	}
}

func TestShowRunBlacklistSkipsWithoutPacing(t *testing.T) {
	cfg := testShowConfig()
	cfg.Filters.Shows.Genres = []string{"reality"}

	src := &mockShowSource{shows: []models.Show{
		{Title: "junk", Year: 2024, IDs: models.IDSet{TVDB: 1}, Votes: 900, Genres: []string{"Reality"}},
		show(2, 100, "keeper"),
	}}
	mgr := &mockSeriesManager{profileID: 1}
	r, pc := newTestShowReconciler(src, mgr, cfg)

	result, err := r.Run(context.Background(), Options{ListType: "trending"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Skipped != 1 || result.Added != 1 {
		t.Errorf("skipped=%d added=%d, want 1 and 1", result.Skipped, result.Added)
	}
	// Only attempted additions consume the pacer.
	if pc.waits != 1 {
		t.Errorf("pacer waits = %d, want 1", pc.waits)
	}
}

func TestShowRunUnknownListTypeMakesNoNetworkCalls(t *testing.T) {
	src := &mockShowSource{}
	mgr := &mockSeriesManager{profileID: 1}
	r, _ := newTestShowReconciler(src, mgr, nil)

	_, err := r.Run(context.Background(), Options{ListType: "boxoffice"})
	if !errors.Is(err, ErrUnknownListType) {
		t.Fatalf("Run() error = %v, want ErrUnknownListType", err)
	}
	if src.validateCalled || mgr.validateCalled {
		t.Error("collaborators were contacted despite invalid list type")
	}
}

func TestShowRunAbortsOnValidationFailure(t *testing.T) {
	src := &mockShowSource{validateErr: errors.New("401 unauthorized")}
	mgr := &mockSeriesManager{profileID: 1}
	r, _ := newTestShowReconciler(src, mgr, nil)

	_, err := r.Run(context.Background(), Options{ListType: "trending"})
	if !IsValidation(err) {
		t.Fatalf("Run() error = %v, want ValidationError", err)
	}
}

func TestShowRunAbortsOnCatalogFetchFailure(t *testing.T) {
	src := &mockShowSource{shows: []models.Show{show(1, 1, "a")}}
	mgr := &mockSeriesManager{profileID: 1, seriesErr: errors.New("503")}
	r, _ := newTestShowReconciler(src, mgr, nil)

	_, err := r.Run(context.Background(), Options{ListType: "trending"})
	if !IsFetch(err) {
		t.Fatalf("Run() error = %v, want FetchError", err)
	}
	if len(mgr.added) != 0 {
		t.Errorf("additions attempted after fetch failure: %d", len(mgr.added))
	}
}

func TestShowRunAbortsOnCandidateFetchFailure(t *testing.T) {
	src := &mockShowSource{fetchErr: errors.New("trakt 500")}
	mgr := &mockSeriesManager{profileID: 1}
	r, _ := newTestShowReconciler(src, mgr, nil)

	_, err := r.Run(context.Background(), Options{ListType: "popular"})
	if !IsFetch(err) {
		t.Fatalf("Run() error = %v, want FetchError", err)
	}
}

func TestShowRunPropagatesTagsToRequest(t *testing.T) {
	cfg := testShowConfig()
	cfg.Sonarr.Tags = map[string][]string{"hbo": {"hbo"}}

	src := &mockShowSource{shows: []models.Show{
		{Title: "drama", Year: 2024, IDs: models.IDSet{TVDB: 1}, Votes: 10, Network: "HBO"},
	}}
	mgr := &mockSeriesManager{profileID: 4, tags: map[string]int{"hbo": 12}}
	r, _ := newTestShowReconciler(src, mgr, cfg)

	if _, err := r.Run(context.Background(), Options{ListType: "trending"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(mgr.added) != 1 {
		t.Fatalf("added %d series, want 1", len(mgr.added))
	}
	req := mgr.added[0]
	if req.ProfileID != 4 {
		t.Errorf("ProfileID = %d, want 4", req.ProfileID)
	}
	if len(req.TagIDs) != 1 || req.TagIDs[0] != 12 {
		t.Errorf("TagIDs = %v, want [12]", req.TagIDs)
	}
	if !req.Search {
		t.Error("Search = false, want true by default")
	}
}

func TestShowRunNoSearchDisablesSearch(t *testing.T) {
	src := &mockShowSource{shows: []models.Show{show(1, 1, "a")}}
	mgr := &mockSeriesManager{profileID: 1}
	r, _ := newTestShowReconciler(src, mgr, nil)

	if _, err := r.Run(context.Background(), Options{ListType: "trending", NoSearch: true}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if mgr.added[0].Search {
		t.Error("Search = true, want false with NoSearch")
	}
}

func TestShowRunContextCancelReturnsPartialResult(t *testing.T) {
	src := &mockShowSource{shows: []models.Show{show(1, 1, "a"), show(2, 1, "b")}}
	mgr := &mockSeriesManager{profileID: 1}
	cfg := testShowConfig()
	r := NewShowReconciler(src, mgr, cfg, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	added := 0
	r.newPacer = func(time.Duration) pacer {
		return pacerFunc(func(ctx context.Context) error {
			if added >= 1 {
				cancel()
			}
			added++
			return ctx.Err()
		})
	}

	result, err := r.Run(ctx, Options{ListType: "trending"})
	if err == nil {
		t.Fatal("Run() error = nil, want context error")
	}
	if result == nil || result.Added != 1 {
		t.Fatalf("partial result = %+v, want Added=1", result)
	}
}

type pacerFunc func(context.Context) error

func (f pacerFunc) Wait(ctx context.Context) error { return f(ctx) }
