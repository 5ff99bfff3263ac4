// Listarr - Trakt List Synchronization for Sonarr and Radarr
// Copyright 2026 Listarr contributors
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/listarr/listarr

package reconcile

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions the caller distinguishes by identity.
var (
	// ErrUnknownListType is returned for a list type the media type does not
	// support. It is detected before any network call is made.
	ErrUnknownListType = errors.New("unknown list type")

	// ErrNilCatalog is returned when deduplication receives no catalog at all,
	// as opposed to an empty one.
	ErrNilCatalog = errors.New("catalog is nil")

	// ErrNilCandidates is returned when deduplication receives no candidate
	// list at all, as opposed to an empty one.
	ErrNilCandidates = errors.New("candidate list is nil")
)

// ValidationError marks a fatal pre-flight failure: unreachable collaborator,
// bad credentials, or an unresolvable profile or tag set. It aborts the
// current run before any state downstream is touched.
type ValidationError struct {
	Op  string
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %v", e.Op, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// FetchError marks a failed catalog or candidate list retrieval. Like a
// validation failure it aborts the current run; proceeding without a dedup
// basis or a candidate list is meaningless.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed: %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsFetch reports whether err is (or wraps) a FetchError.
func IsFetch(err error) bool {
	var f *FetchError
	return errors.As(err, &f)
}
