package actuator

import (
	"fmt"
	"io"
	"sync"
)

// Writer is an Actuator that renders replacements onto an io.Writer
// instead of injecting OS input. Backspaces are emitted as "\b \b" so a
// terminal visibly erases the trigger. Used by the daemon's terminal
// mode, where typed text is echoed locally.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter creates a writer-backed actuator.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// TypeText writes text.
func (a *Writer) TypeText(text string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, err := io.WriteString(a.w, text); err != nil {
		return fmt.Errorf("%w: %v", ErrActuationFailed, err)
	}
	return nil
}

// SendBackspaces writes count destructive backspaces.
func (a *Writer) SendBackspaces(count int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := 0; i < count; i++ {
		if _, err := io.WriteString(a.w, "\b \b"); err != nil {
			return fmt.Errorf("%w: %v", ErrActuationFailed, err)
		}
	}
	return nil
}

// ReplaceTrailing erases the trigger then writes the replacement.
func (a *Writer) ReplaceTrailing(triggerLen int, replacement string) error {
	if err := a.SendBackspaces(triggerLen); err != nil {
		return err
	}
	return a.TypeText(replacement)
}
