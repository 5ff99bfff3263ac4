// Listarr - Trakt List Synchronization for Sonarr and Radarr
// Copyright 2026 Listarr contributors
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/listarr/listarr

package reconcile

import (
	"errors"
	"testing"

	"github.com/listarr/listarr/internal/models"
)

func showWithTVDB(id int) models.Show {
	return models.Show{Title: "show", IDs: models.IDSet{TVDB: id}}
}

func TestDedupRemovesTrackedPreservesOrder(t *testing.T) {
	catalog := Catalog{5: {}}
	candidates := []models.Show{showWithTVDB(5), showWithTVDB(7), showWithTVDB(9)}

	remaining, err := Dedup(catalog, candidates, func(s models.Show) int { return s.IDs.TVDB })
	if err != nil {
		t.Fatalf("Dedup() error = %v", err)
	}

	want := []int{7, 9}
	if len(remaining) != len(want) {
		t.Fatalf("Dedup() kept %d candidates, want %d", len(remaining), len(want))
	}
	for i, id := range want {
		if remaining[i].IDs.TVDB != id {
			t.Errorf("remaining[%d].IDs.TVDB = %d, want %d", i, remaining[i].IDs.TVDB, id)
		}
	}
}

func TestDedupEmptyResultIsValid(t *testing.T) {
	catalog := Catalog{1: {}, 2: {}}
	candidates := []models.Show{showWithTVDB(1), showWithTVDB(2)}

	remaining, err := Dedup(catalog, candidates, func(s models.Show) int { return s.IDs.TVDB })
	if err != nil {
		t.Fatalf("Dedup() error = %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("Dedup() kept %d candidates, want 0", len(remaining))
	}
}

func TestDedupEmptyCatalogKeepsEverything(t *testing.T) {
	candidates := []models.Show{showWithTVDB(1), showWithTVDB(2)}

	remaining, err := Dedup(Catalog{}, candidates, func(s models.Show) int { return s.IDs.TVDB })
	if err != nil {
		t.Fatalf("Dedup() error = %v", err)
	}
	if len(remaining) != 2 {
		t.Errorf("Dedup() kept %d candidates, want 2", len(remaining))
	}
}

func TestDedupNilInputs(t *testing.T) {
	id := func(s models.Show) int { return s.IDs.TVDB }

	if _, err := Dedup(nil, []models.Show{}, id); !errors.Is(err, ErrNilCatalog) {
		t.Errorf("Dedup(nil catalog) error = %v, want ErrNilCatalog", err)
	}
	if _, err := Dedup(Catalog{}, nil, id); !errors.Is(err, ErrNilCandidates) {
		t.Errorf("Dedup(nil candidates) error = %v, want ErrNilCandidates", err)
	}
}

func TestDedupKeepsDuplicateUntrackedCandidates(t *testing.T) {
	// Dedup only removes what the catalog tracks; repeated candidates from the
	// source pass through untouched.
	candidates := []models.Show{showWithTVDB(3), showWithTVDB(3)}

	remaining, err := Dedup(Catalog{}, candidates, func(s models.Show) int { return s.IDs.TVDB })
	if err != nil {
		t.Fatalf("Dedup() error = %v", err)
	}
	if len(remaining) != 2 {
		t.Errorf("Dedup() kept %d candidates, want 2", len(remaining))
	}
}
