package key

import (
	"fmt"
	"time"
	"unicode"
)

// Action describes the direction of a key event as reported by the
// OS-level hook.
type Action uint8

const (
	// ActionDown is a key press.
	ActionDown Action = iota

	// ActionUp is a key release.
	ActionUp

	// ActionPress is a synthetic press+release reported as one event.
	// Some hook backends deliver repeats this way. It participates in
	// modifier tracking only, never in buffering.
	ActionPress
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionDown:
		return "Down"
	case ActionUp:
		return "Up"
	case ActionPress:
		return "Press"
	default:
		return "Unknown"
	}
}

// Event represents a single raw keyboard event from a Source.
type Event struct {
	// Key identifies the key.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Action is the event direction (down, up, press).
	Action Action

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// NewRuneEvent creates a key-down event for a character.
func NewRuneEvent(r rune) Event {
	return Event{
		Key:       KeyRune,
		Rune:      r,
		Action:    ActionDown,
		Timestamp: time.Now(),
	}
}

// NewSpecialEvent creates an event for a special key.
func NewSpecialEvent(key Key, action Action) Event {
	return Event{
		Key:       key,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsChar returns true if this is a printable character.
func (e Event) IsChar() bool {
	return e.IsRune() && unicode.IsPrint(e.Rune)
}

// IsDown returns true for key-down events.
func (e Event) IsDown() bool {
	return e.Action == ActionDown
}

// String returns a compact representation like "a Down" or "Escape Up".
func (e Event) String() string {
	if e.IsRune() {
		if e.Rune == ' ' {
			return fmt.Sprintf("Space %s", e.Action)
		}
		return fmt.Sprintf("%c %s", e.Rune, e.Action)
	}
	return fmt.Sprintf("%s %s", e.Key, e.Action)
}

// Equals returns true if two events represent the same key motion.
// Timestamps are not compared.
func (e Event) Equals(other Event) bool {
	return e.Key == other.Key &&
		e.Rune == other.Rune &&
		e.Action == other.Action
}
