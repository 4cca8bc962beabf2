// Package apperr defines sentinel errors shared across Othala services.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")

	// ErrDataUnavailable means the note corpus could not be fetched. No
	// partial graph is exposed; callers retry the whole build.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrInternalConsistency means graph data violated its own invariant
	// (an edge referencing a missing node). Indicates a construction bug.
	ErrInternalConsistency = errors.New("internal consistency fault")
)
