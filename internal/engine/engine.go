// Package engine implements the real-time text-expansion engine: it
// consumes raw keyboard events, maintains the rolling text buffer, runs
// trigger detection on every printable keystroke, and hands detected
// triggers to a single asynchronous consumer that resolves the snippet
// and drives the actuator.
//
// Two execution contexts cooperate. The listener goroutine owns all
// buffer mutation (single-writer discipline) and must never block: a
// full hand-off channel drops the detection rather than stalling input
// processing. The consumer goroutine drains detections strictly in
// FIFO order, one at a time, so two expansions can never interleave
// their actuation.
package engine

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/typely/typely/internal/engine/buffer"
	"github.com/typely/typely/internal/input/actuator"
	"github.com/typely/typely/internal/input/key"
	"github.com/typely/typely/internal/input/source"
	"github.com/typely/typely/internal/logging"
	"github.com/typely/typely/internal/trigger"
)

// State is the engine lifecycle state.
type State int32

const (
	// StateStopped is the initial and final state.
	StateStopped State = iota
	// StateStarting is transient while Start installs the source.
	StateStarting
	// StateRunning means events are flowing.
	StateRunning
	// StateStopping is transient while Stop tears down.
	StateStopping
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateStarting:
		return "Starting"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	default:
		return "Unknown"
	}
}

// ExpansionEvent is the hand-off message from the listener to the
// consumer. Immutable once constructed; it flows through the channel
// exactly once.
type ExpansionEvent struct {
	// Trigger is the matched trigger text, marker included.
	Trigger string

	// TriggerLength is the number of characters to delete.
	TriggerLength int

	// BufferText is the buffer snapshot at detection time, passed to
	// the lookup as context.
	BufferText string
}

// Expansion is a lookup result.
type Expansion struct {
	// Text is the expanded replacement.
	Text string

	// Matched is false for a miss or an inactive snippet. A miss is
	// not an error: the typed trigger is simply left untouched.
	Matched bool
}

// Lookup resolves a trigger to its expanded text. Implementations own
// usage accounting; the engine never counts expansions itself. The call
// sits on the consumer's critical path and must return promptly.
type Lookup interface {
	ResolveAndExpand(trigger, context string) (Expansion, error)
}

// Stats are the engine's running counters.
type Stats struct {
	// Queued is the number of detections handed off.
	Queued uint64
	// Dropped is the number of detections lost to a full channel.
	Dropped uint64
	// Expanded is the number of completed actuations.
	Expanded uint64
	// Failed is the number of lookups or actuations that errored.
	Failed uint64
}

// handoffSize bounds the detection hand-off channel.
const handoffSize = 100

// Engine is the text-expansion orchestrator.
type Engine struct {
	// mu guards state, cfg, matcher and buf. The listener goroutine is
	// the only buffer writer; the lock exists for control calls
	// (UpdateConfig, Stop) arriving on other goroutines.
	mu      sync.Mutex
	state   State
	cfg     Config
	matcher *trigger.Matcher
	buf     *buffer.Buffer

	mods *key.Tracker

	src    source.Source
	act    actuator.Actuator
	lookup Lookup
	log    *logging.Logger

	expansions chan ExpansionEvent
	stopCh     chan struct{}
	wg         sync.WaitGroup

	queued   atomic.Uint64
	dropped  atomic.Uint64
	expanded atomic.Uint64
	failed   atomic.Uint64
}

// New creates a stopped engine. A nil logger disables engine logging.
func New(src source.Source, act actuator.Actuator, lookup Lookup, cfg Config, log *logging.Logger) *Engine {
	if log == nil {
		log = logging.Null
	}
	return &Engine{
		cfg:     cfg,
		matcher: trigger.NewMatcher(cfg.Patterns...),
		buf:     buffer.New(cfg.BufferSize),
		mods:    key.NewTracker(),
		src:     src,
		act:     act,
		lookup:  lookup,
		log:     log.WithComponent("engine"),
	}
}

// Start installs the keyboard source and spawns the listener and
// consumer goroutines. It fails with ErrAlreadyRunning when the engine
// is not stopped, and with ErrHookUnavailable when the source cannot be
// installed; in the latter case the engine remains stopped and must not
// appear running.
func (e *Engine) Start() error {
	e.mu.Lock()
	if e.state != StateStopped {
		e.mu.Unlock()
		return ErrAlreadyRunning
	}
	e.state = StateStarting
	e.mu.Unlock()

	events, err := e.src.Start()
	if err != nil {
		e.mu.Lock()
		e.state = StateStopped
		e.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrHookUnavailable, err)
	}

	e.mu.Lock()
	e.expansions = make(chan ExpansionEvent, handoffSize)
	e.stopCh = make(chan struct{})
	e.mods.Reset()
	e.buf.Clear()
	e.state = StateRunning
	stopCh := e.stopCh
	expansions := e.expansions
	e.mu.Unlock()

	e.wg.Add(2)
	go e.listen(events, stopCh)
	go e.consume(expansions, stopCh)

	e.log.Info("expansion engine started")
	return nil
}

// Stop flips the engine out of Running, stops the keyboard source and
// waits for both goroutines to exit. Idempotent: calling it on a
// stopped (or concurrently stopping) engine is a no-op.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.state != StateRunning {
		e.mu.Unlock()
		return
	}
	e.state = StateStopping
	stopCh := e.stopCh
	e.mu.Unlock()

	close(stopCh)
	if err := e.src.Stop(); err != nil {
		e.log.Warn("keyboard source stop: %v", err)
	}
	e.wg.Wait()

	e.mu.Lock()
	e.state = StateStopped
	e.mu.Unlock()

	e.log.Info("expansion engine stopped")
}

// Running reports whether the engine is in the Running state.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == StateRunning
}

// StateName returns the current lifecycle state.
func (e *Engine) StateName() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// UpdateConfig replaces the configuration in place. If the buffer
// capacity shrank, the live buffer front is trimmed immediately so the
// most recent characters survive.
func (e *Engine) UpdateConfig(cfg Config) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cfg = cfg
	e.matcher = trigger.NewMatcher(cfg.Patterns...)
	e.buf.Resize(cfg.BufferSize)
	e.log.Debug("config updated: buffer=%d timeout=%s delay=%s enabled=%v",
		cfg.BufferSize, cfg.TriggerTimeout, cfg.ExpansionDelay, cfg.Enabled)
}

// Config returns a copy of the current configuration.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// BufferSnapshot returns the current buffer contents. Intended for
// introspection (status output, tests).
func (e *Engine) BufferSnapshot() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.Snapshot()
}

// Stats returns the engine's counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Queued:   e.queued.Load(),
		Dropped:  e.dropped.Load(),
		Expanded: e.expanded.Load(),
		Failed:   e.failed.Load(),
	}
}

// listen is the listener-goroutine loop: one iteration per raw event.
func (e *Engine) listen(events <-chan key.Event, stopCh <-chan struct{}) {
	defer e.wg.Done()

	for {
		select {
		case <-stopCh:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			e.handleEvent(ev)
		}
	}
}

// handleEvent applies one raw event to the buffer and scans for
// triggers. Runs on the listener goroutine only.
func (e *Engine) handleEvent(ev key.Event) {
	// Modifier flags track both directions; everything else below only
	// looks at key-down events.
	e.mods.Observe(ev)

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.cfg.Enabled {
		return
	}
	if ev.Action != key.ActionDown {
		return
	}

	switch {
	case ev.Key.IsModifier(), ev.Key == key.KeyEscape:
		// A trigger cannot span a chord or an escape.
		e.buf.Clear()

	case ev.Key == key.KeyBackspace:
		e.buf.PopN(1)

	case ev.Key.IsWordBoundary():
		e.buf.Clear()

	case ev.IsChar():
		if ev.Rune == ' ' {
			// Space ends the word like Return and Tab do.
			e.buf.Clear()
			return
		}
		if mods := e.mods.State().Modifier(); !mods.Without(key.ModShift).IsEmpty() {
			// Ctrl/Alt/Meta chords are commands, not typing.
			e.log.Debug("ignoring chord %s+%c", mods, ev.Rune)
			return
		}

		// Expiry is judged against the previous keystroke: a long-idle
		// buffer holds a stale partial trigger, so discard it before
		// accepting this character, and skip matching this cycle.
		expired := e.buf.IsExpired(e.cfg.TriggerTimeout)
		if expired {
			e.buf.Clear()
		}
		e.buf.Push(ev.Rune)
		if expired {
			return
		}

		e.scanLocked()

	default:
		// Arrows, function keys and the rest have no buffer effect.
	}
}

// scanLocked runs trigger detection over the buffer and queues an
// expansion when the right-most match ends exactly at the typing
// cursor. Caller holds e.mu.
func (e *Engine) scanLocked() {
	text := e.buf.Snapshot()
	matches := e.matcher.FindTriggers(text)
	if len(matches) == 0 {
		return
	}

	last := matches[len(matches)-1]
	if last.End != e.buf.Len() {
		// Stale match mid-buffer; only a trigger at the cursor fires.
		return
	}

	event := ExpansionEvent{
		Trigger:       last.Trigger,
		TriggerLength: last.Len(),
		BufferText:    text,
	}

	select {
	case e.expansions <- event:
		e.queued.Add(1)
	default:
		// Never block the listener: drop and log.
		e.dropped.Add(1)
		e.log.Warn("%v: dropping detection %q", ErrChannelSaturated, last.Trigger)
	}
}

// consume is the single consumer loop. Detections are processed fully,
// one at a time, in arrival order.
func (e *Engine) consume(expansions <-chan ExpansionEvent, stopCh <-chan struct{}) {
	defer e.wg.Done()

	for {
		select {
		case <-stopCh:
			return
		case ev := <-expansions:
			e.expand(ev, stopCh)
		}
	}
}

// expand resolves one detection and actuates the replacement. All
// failures are local: logged, counted, never propagated.
func (e *Engine) expand(ev ExpansionEvent, stopCh <-chan struct{}) {
	cfg := e.Config()

	if cfg.ExpansionDelay > 0 {
		// Let the OS settle the triggering keystroke. A stop request
		// abandons the item rather than holding shutdown hostage.
		timer := time.NewTimer(cfg.ExpansionDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-stopCh:
			return
		}
	}

	result, err := e.lookup.ResolveAndExpand(ev.Trigger, ev.BufferText)
	if err != nil {
		e.failed.Add(1)
		e.log.Error("%v: %q: %v", ErrLookupFailed, ev.Trigger, err)
		return
	}
	if !result.Matched {
		e.log.Debug("no active snippet for %q", ev.Trigger)
		return
	}

	if err := e.act.ReplaceTrailing(ev.TriggerLength, result.Text); err != nil {
		// No retry: a second attempt could double-delete user text.
		e.failed.Add(1)
		e.log.Error("actuation failed for %q: %v", ev.Trigger, err)
		return
	}

	e.expanded.Add(1)
	e.log.Info("expanded %q (%d chars in)", ev.Trigger, len(result.Text))
}
