// Listarr - Trakt List Synchronization for Sonarr and Radarr
// Copyright 2026 Listarr contributors
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/listarr/listarr

package arr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/listarr/listarr/internal/config"
	"github.com/listarr/listarr/internal/models"
)

func newTestSonarr(t *testing.T, handler http.Handler) *Sonarr {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s := NewSonarr(&config.SonarrConfig{URL: srv.URL, APIKey: "sonarr-key"})
	s.retryBaseDelay = time.Millisecond
	return s
}

func TestSonarrValidateCredentials(t *testing.T) {
	s := newTestSonarr(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/system/status" {
			t.Errorf("path = %q, want /api/system/status", r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "sonarr-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"version": "3.0.10"}`))
	}))

	if err := s.ValidateCredentials(context.Background()); err != nil {
		t.Errorf("ValidateCredentials() error = %v", err)
	}
}

func TestSonarrValidateCredentialsRejectsNonJSON(t *testing.T) {
	// A reverse proxy login page returning HTML must not pass validation.
	s := newTestSonarr(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>login</body></html>`))
	}))

	if err := s.ValidateCredentials(context.Background()); err == nil {
		t.Error("ValidateCredentials() error = nil, want decode error")
	}
}

func TestSonarrProfileIDCaseInsensitive(t *testing.T) {
	s := newTestSonarr(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/profile" {
			t.Errorf("path = %q, want /api/profile", r.URL.Path)
		}
		w.Write([]byte(`[{"id": 1, "name": "Any"}, {"id": 4, "name": "HD-1080p"}]`))
	}))

	id, err := s.ProfileID(context.Background(), "hd-1080p")
	if err != nil {
		t.Fatalf("ProfileID() error = %v", err)
	}
	if id != 4 {
		t.Errorf("ProfileID() = %d, want 4", id)
	}
}

func TestSonarrProfileIDNotFound(t *testing.T) {
	s := newTestSonarr(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 1, "name": "Any"}]`))
	}))

	if _, err := s.ProfileID(context.Background(), "Ultra-HD"); err == nil {
		t.Error("ProfileID() error = nil, want not found")
	}
}

func TestSonarrTagsLowercasesLabels(t *testing.T) {
	s := newTestSonarr(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 7, "label": "HBO"}, {"id": 9, "label": "netflix"}]`))
	}))

	tags, err := s.Tags(context.Background())
	if err != nil {
		t.Fatalf("Tags() error = %v", err)
	}
	if tags["hbo"] != 7 || tags["netflix"] != 9 {
		t.Errorf("Tags() = %v, want hbo=7 netflix=9", tags)
	}
}

func TestSonarrSeriesBuildsCatalog(t *testing.T) {
	s := newTestSonarr(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"tvdbId": 100}, {"tvdbId": 200}]`))
	}))

	catalog, err := s.Series(context.Background())
	if err != nil {
		t.Fatalf("Series() error = %v", err)
	}
	if len(catalog) != 2 {
		t.Fatalf("catalog size = %d, want 2", len(catalog))
	}
	if _, ok := catalog[100]; !ok {
		t.Error("catalog missing tvdbId 100")
	}
}

func TestSonarrAddSeriesPayload(t *testing.T) {
	var got addSeriesPayload
	s := newTestSonarr(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/series" {
			t.Errorf("%s %s, want POST /api/series", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))

	err := s.AddSeries(context.Background(), models.AddSeriesRequest{
		TVDBID:     4242,
		Title:      "Dark Waters",
		TitleSlug:  "dark-waters",
		ProfileID:  4,
		RootFolder: "/tv/",
		TagIDs:     []int{7},
		Search:     true,
	})
	if err != nil {
		t.Fatalf("AddSeries() error = %v", err)
	}

	if got.TVDBID != 4242 || got.QualityProfileID != 4 || got.RootFolderPath != "/tv/" {
		t.Errorf("payload = %+v", got)
	}
	if !got.Monitored || !got.SeasonFolder {
		t.Error("series must be added monitored with season folders")
	}
	if !got.AddOptions.SearchForMissingEpisodes {
		t.Error("SearchForMissingEpisodes = false, want true")
	}
	if len(got.Tags) != 1 || got.Tags[0] != 7 {
		t.Errorf("tags = %v, want [7]", got.Tags)
	}
}

func TestSonarrAddSeriesNilTagsSerializeAsEmptyArray(t *testing.T) {
	var raw map[string]json.RawMessage
	s := newTestSonarr(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))

	if err := s.AddSeries(context.Background(), models.AddSeriesRequest{TVDBID: 1}); err != nil {
		t.Fatalf("AddSeries() error = %v", err)
	}
	if string(raw["tags"]) != "[]" {
		t.Errorf("tags serialized as %s, want []", raw["tags"])
	}
}

func TestSonarrAddSeriesErrorIncludesBody(t *testing.T) {
	s := newTestSonarr(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`[{"errorMessage": "This series has already been added"}]`))
	}))

	err := s.AddSeries(context.Background(), models.AddSeriesRequest{TVDBID: 1})
	if err == nil {
		t.Fatal("AddSeries() error = nil, want 400 error")
	}
	if !strings.Contains(err.Error(), "already been added") {
		t.Errorf("error = %v, want body included", err)
	}
}

func TestSonarrRetriesOn429(t *testing.T) {
	var calls atomic.Int32
	s := newTestSonarr(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[]`))
	}))

	if _, err := s.Series(context.Background()); err != nil {
		t.Fatalf("Series() error = %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server calls = %d, want 2", got)
	}
}
