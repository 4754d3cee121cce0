package actuator

import "sync"

// Call records one actuation performed by a Fake.
type Call struct {
	// Backspaces is the number of deletions requested (0 for a plain
	// TypeText call).
	Backspaces int

	// Text is the typed replacement ("" for a plain SendBackspaces).
	Text string
}

// Fake is a recording Actuator for tests.
type Fake struct {
	mu    sync.Mutex
	calls []Call

	// Err, when set, is returned by every operation.
	Err error
}

// NewFake creates a fake actuator.
func NewFake() *Fake {
	return &Fake{}
}

// TypeText records the typed text.
func (f *Fake) TypeText(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return f.Err
	}
	f.calls = append(f.calls, Call{Text: text})
	return nil
}

// SendBackspaces records the deletion count.
func (f *Fake) SendBackspaces(count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return f.Err
	}
	f.calls = append(f.calls, Call{Backspaces: count})
	return nil
}

// ReplaceTrailing records the composite operation as a single call.
func (f *Fake) ReplaceTrailing(triggerLen int, replacement string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return f.Err
	}
	f.calls = append(f.calls, Call{Backspaces: triggerLen, Text: replacement})
	return nil
}

// Calls returns a copy of the recorded calls.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}
