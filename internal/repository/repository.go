package repository

import "errors"

// Sentinel errors shared by all repositories. PostgreSQL driver errors are
// translated at this boundary so callers never match on pgx internals.
var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrVersionConflict indicates an optimistic save lost the race: the
	// row's version changed between read and write. The caller must
	// re-read and retry or fail the request.
	ErrVersionConflict = errors.New("row was modified concurrently")
)
