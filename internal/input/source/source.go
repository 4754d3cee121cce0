// Package source abstracts the OS-level keyboard listeners that feed
// the expansion engine.
//
// A Source is a small state machine: Idle until Start installs the
// underlying listener and returns the receive end of an event channel,
// Monitoring while events flow, and Idle again after Stop. Stop
// guarantees that no new events are delivered once it returns; events
// already in flight may be dropped.
package source

import (
	"errors"

	"github.com/typely/typely/internal/input/key"
)

// Errors returned by keyboard sources.
var (
	// ErrAlreadyMonitoring indicates Start was called while monitoring.
	ErrAlreadyMonitoring = errors.New("keyboard source is already monitoring")

	// ErrNotMonitoring indicates Stop was called while idle.
	ErrNotMonitoring = errors.New("keyboard source is not monitoring")

	// ErrHookDenied indicates the OS refused the global listener,
	// usually a permissions problem (accessibility / input group).
	ErrHookDenied = errors.New("os denied keyboard hook installation")
)

// Source produces a stream of raw keyboard events.
type Source interface {
	// Start installs the listener and returns the event channel.
	// The channel is closed when the source stops.
	Start() (<-chan key.Event, error)

	// Stop uninstalls the listener. It is safe to call when idle.
	Stop() error

	// Running reports whether the source is monitoring.
	Running() bool
}

// Capacity of a source's outbound event channel. Raw key events are
// tiny and the engine drains quickly; the buffer only absorbs bursts so
// the OS callback never blocks.
const eventChanSize = 256
