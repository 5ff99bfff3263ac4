// Listarr - Trakt List Synchronization for Sonarr and Radarr
// Copyright 2026 Listarr contributors
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/listarr/listarr

package reconcile

// Catalog is the set of external identifiers a downstream service already
// tracks: TVDb IDs for Sonarr, TMDb IDs for Radarr. It is snapshotted once per
// run; a concurrent add by another client is accepted as out of scope.
type Catalog map[int]struct{}

// Dedup returns the candidates whose identifier is not already in the catalog,
// preserving input order. An empty result is a valid outcome (everything is
// already tracked); a nil catalog or candidate slice is an error so a failed
// fetch upstream cannot masquerade as "nothing to do".
func Dedup[T any](catalog Catalog, candidates []T, id func(T) int) ([]T, error) {
	if catalog == nil {
		return nil, ErrNilCatalog
	}
	if candidates == nil {
		return nil, ErrNilCandidates
	}

	remaining := make([]T, 0, len(candidates))
	for _, c := range candidates {
		if _, exists := catalog[id(c)]; !exists {
			remaining = append(remaining, c)
		}
	}
	return remaining, nil
}
