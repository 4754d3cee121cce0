package actuator

import (
	"fmt"
	"time"

	"github.com/go-vgo/robotgo"
)

// DefaultKeyDelay is the minimum pause between synthesized backspaces.
// Some applications drop keystrokes arriving faster than this.
const DefaultKeyDelay = 2 * time.Millisecond

// System synthesizes input through robotgo, hitting the same OS input
// layer a real keyboard does.
type System struct {
	keyDelay time.Duration
}

// NewSystem creates a system actuator. A non-positive delay falls back
// to DefaultKeyDelay.
func NewSystem(keyDelay time.Duration) *System {
	if keyDelay <= 0 {
		keyDelay = DefaultKeyDelay
	}
	return &System{keyDelay: keyDelay}
}

// TypeText types text into the focused field.
func (s *System) TypeText(text string) error {
	if text == "" {
		return nil
	}
	robotgo.TypeStr(text)
	return nil
}

// SendBackspaces taps backspace count times, pausing between taps.
func (s *System) SendBackspaces(count int) error {
	for i := 0; i < count; i++ {
		if err := robotgo.KeyTap("backspace"); err != nil {
			return fmt.Errorf("%w: backspace %d/%d: %v", ErrActuationFailed, i+1, count, err)
		}
		time.Sleep(s.keyDelay)
	}
	return nil
}

// ReplaceTrailing deletes the trigger then types the replacement.
func (s *System) ReplaceTrailing(triggerLen int, replacement string) error {
	if err := s.SendBackspaces(triggerLen); err != nil {
		return err
	}
	return s.TypeText(replacement)
}
