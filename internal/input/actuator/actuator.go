// Package actuator abstracts synthetic keyboard input: the backspaces
// and typed text that perform a visible replacement in whatever field
// currently has focus.
//
// Replacement is two steps, delete then type, and the OS gives no way
// to make them atomic. A user keystroke can land between them; the
// engine accepts this rather than pretending otherwise.
package actuator

import "errors"

// ErrActuationFailed indicates a synthetic input call was rejected by
// the OS. The failed expansion is abandoned, never retried: a retry
// could delete user text twice.
var ErrActuationFailed = errors.New("synthetic input failed")

// Actuator produces synthetic keyboard input.
type Actuator interface {
	// TypeText synthesizes keystrokes producing text in the focused
	// input field.
	TypeText(text string) error

	// SendBackspaces synthesizes count backspace keystrokes with a
	// minimum inter-key delay.
	SendBackspaces(count int) error

	// ReplaceTrailing deletes the last triggerLen characters and types
	// replacement in their place. Not atomic at the OS level.
	ReplaceTrailing(triggerLen int, replacement string) error
}
