package engine

import "errors"

// Errors returned by engine operations. Only Start surfaces errors to
// the caller; steady-state failures are logged and recovered locally
// because a crashed engine is worse than a missed expansion.
var (
	// ErrAlreadyRunning indicates Start was called on a running engine.
	ErrAlreadyRunning = errors.New("expansion engine is already running")

	// ErrHookUnavailable indicates the OS denied or could not install
	// the global key listener. The engine stays stopped.
	ErrHookUnavailable = errors.New("keyboard hook unavailable")

	// ErrLookupFailed indicates the snippet lookup collaborator errored
	// (distinct from a plain miss).
	ErrLookupFailed = errors.New("snippet lookup failed")

	// ErrChannelSaturated indicates the hand-off channel was full and a
	// detection was dropped.
	ErrChannelSaturated = errors.New("expansion channel saturated")
)
