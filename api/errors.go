package api

import "errors"

// Sentinel error kinds shared across the core. Wrap these with
// fmt.Errorf("...: %w", ...) at the point of failure; compare with errors.Is.
var (
	// ErrStoreError indicates a failure to read or decode a posting list.
	ErrStoreError = errors.New("rankcore: store error")
	// ErrInvariantViolation indicates a malformed query graph: a Deleted
	// node was encountered, or the resolver's queue drained without
	// reaching the End node.
	ErrInvariantViolation = errors.New("rankcore: invariant violation")
	// ErrUnsupported indicates phrase resolution was requested.
	ErrUnsupported = errors.New("rankcore: unsupported")
	// ErrCancelled indicates the caller cancelled the search's context.
	ErrCancelled = errors.New("rankcore: cancelled")
	// ErrBadRequest indicates from/length were negative, or a ranking
	// rule returned a bucket that was not a subset of its universe.
	ErrBadRequest = errors.New("rankcore: bad request")
)
