package key

import "sync"

// ModifierState holds the four independent modifier flags derived from
// press/release events of the standalone modifier keys.
type ModifierState struct {
	Ctrl  bool
	Shift bool
	Alt   bool
	Meta  bool
}

// HasAny returns true if any modifier is held.
func (s ModifierState) HasAny() bool {
	return !s.Modifier().IsEmpty()
}

// Chorded returns true when a non-character chord modifier is held.
// Shift is excluded since it only changes the character produced.
func (s ModifierState) Chorded() bool {
	return !s.Modifier().Without(ModShift).IsEmpty()
}

// Modifier converts the state to a Modifier bitmask.
func (s ModifierState) Modifier() Modifier {
	m := ModNone
	if s.Ctrl {
		m = m.With(ModCtrl)
	}
	if s.Shift {
		m = m.With(ModShift)
	}
	if s.Alt {
		m = m.With(ModAlt)
	}
	if s.Meta {
		m = m.With(ModMeta)
	}
	return m
}

// Tracker maintains ModifierState from a raw event stream.
//
// It is read from the engine's listener goroutine and reset from control
// calls on other goroutines, so all access goes through the mutex.
type Tracker struct {
	mu    sync.Mutex
	state ModifierState
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Observe updates the modifier flags from a raw event.
// Non-modifier keys are ignored.
func (t *Tracker) Observe(ev Event) {
	if !ev.Key.IsModifier() {
		return
	}

	// ActionPress is a press+release pair collapsed into one event; it
	// leaves the flag released.
	held := ev.Action == ActionDown

	t.mu.Lock()
	defer t.mu.Unlock()

	switch ev.Key {
	case KeyCtrlLeft, KeyCtrlRight:
		t.state.Ctrl = held
	case KeyShiftLeft, KeyShiftRight:
		t.state.Shift = held
	case KeyAltLeft, KeyAltRight:
		t.state.Alt = held
	case KeyMetaLeft, KeyMetaRight:
		t.state.Meta = held
	}
}

// State returns a copy of the current modifier state.
func (t *Tracker) State() ModifierState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Reset clears all modifier flags wholesale.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = ModifierState{}
}
