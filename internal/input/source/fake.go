package source

import (
	"sync"

	"github.com/typely/typely/internal/input/key"
)

// Fake is an in-memory Source for tests and wiring exercises.
// Events pushed with Emit appear on the channel returned by Start.
type Fake struct {
	mu      sync.Mutex
	events  chan key.Event
	running bool

	// StartErr, when set, is returned by Start. Lets tests simulate a
	// denied hook.
	StartErr error
}

// NewFake creates an idle fake source.
func NewFake() *Fake {
	return &Fake{}
}

// Start transitions to monitoring.
func (f *Fake) Start() (<-chan key.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.StartErr != nil {
		return nil, f.StartErr
	}
	if f.running {
		return nil, ErrAlreadyMonitoring
	}

	f.events = make(chan key.Event, eventChanSize)
	f.running = true
	return f.events, nil
}

// Stop transitions back to idle and closes the event channel.
func (f *Fake) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.running {
		return nil
	}
	f.running = false
	close(f.events)
	f.events = nil
	return nil
}

// Running reports whether the fake is monitoring.
func (f *Fake) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

// Emit delivers one event to the engine. Events emitted while idle are
// dropped, mirroring a real hook that was uninstalled.
func (f *Fake) Emit(ev key.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.running {
		return
	}
	select {
	case f.events <- ev:
	default:
	}
}

// EmitText is a convenience that emits key-down rune events for each
// character of text.
func (f *Fake) EmitText(text string) {
	for _, r := range text {
		f.Emit(key.NewRuneEvent(r))
	}
}
