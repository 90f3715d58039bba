package interview

import "errors"

// Error taxonomy surfaced by the state machine and its collaborators.
// Handlers map these onto HTTP statuses; everything else wraps one of them.
var (
	// ErrSessionNotFound indicates an unknown session ID.
	ErrSessionNotFound = errors.New("interview: session not found")

	// ErrSessionCompleted indicates a response was submitted after the
	// session reached a terminal state.
	ErrSessionCompleted = errors.New("interview: session already completed")

	// ErrSessionNotTerminal indicates a report was requested on an active
	// session without ending it first.
	ErrSessionNotTerminal = errors.New("interview: session not terminal")

	// ErrValidation indicates missing or empty required input.
	ErrValidation = errors.New("interview: validation failed")

	// ErrStoreUnavailable indicates a transient session store failure.
	// Safe to retry: no partial write is committed.
	ErrStoreUnavailable = errors.New("interview: session store unavailable")

	// ErrSinkUnavailable indicates a transient report sink failure.
	ErrSinkUnavailable = errors.New("interview: report sink unavailable")

	// ErrRevisionConflict indicates a concurrent update raced this one.
	// The caller may reload and retry.
	ErrRevisionConflict = errors.New("interview: session revision conflict")
)
