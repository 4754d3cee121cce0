package source

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/typely/typely/internal/input/key"
)

// Terminal is a Source that captures keys from the controlling terminal
// via tcell. It sees only keys typed while the terminal has focus, so it
// needs no OS-level hook or extra permissions. Used by the daemon's
// --terminal mode and for trying out snippets interactively.
//
// Terminals report key presses only, so every event carries ActionDown.
// Chorded keys (Ctrl/Alt/Meta plus a rune) are surfaced as a modifier
// down, the key, then the modifier up, which lets the engine apply its
// usual modifier handling to a stream that has no real key-ups.
type Terminal struct {
	mu      sync.Mutex
	screen  tcell.Screen
	events  chan key.Event
	running bool
}

// NewTerminal creates an idle terminal source.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// Start initializes the screen and begins polling for key events.
func (t *Terminal) Start() (<-chan key.Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return nil, ErrAlreadyMonitoring
	}

	if err := t.screen.Init(); err != nil {
		return nil, err
	}

	t.events = make(chan key.Event, eventChanSize)
	t.running = true

	go t.pollLoop(t.events)

	return t.events, nil
}

// Stop finalizes the screen. PollEvent unblocks and returns nil after
// Fini, which ends the poll loop and closes the event channel.
func (t *Terminal) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return nil
	}
	t.running = false
	t.screen.Fini()
	return nil
}

// Running reports whether the source is monitoring.
func (t *Terminal) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *Terminal) pollLoop(events chan<- key.Event) {
	defer close(events)

	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}

		keyEv, ok := ev.(*tcell.EventKey)
		if !ok {
			continue
		}

		for _, converted := range convertKeyEvent(keyEv) {
			select {
			case events <- converted:
			default:
				// Never block the poll loop; drop on overflow.
			}
		}
	}
}

// convertKeyEvent maps one tcell key event to zero or more raw events.
func convertKeyEvent(ev *tcell.EventKey) []key.Event {
	var out []key.Event

	mods := ev.Modifiers()
	var wrap []key.Key
	if mods&tcell.ModCtrl != 0 {
		wrap = append(wrap, key.KeyCtrlLeft)
	}
	if mods&tcell.ModAlt != 0 {
		wrap = append(wrap, key.KeyAltLeft)
	}
	if mods&tcell.ModMeta != 0 {
		wrap = append(wrap, key.KeyMetaLeft)
	}

	for _, k := range wrap {
		out = append(out, key.NewSpecialEvent(k, key.ActionDown))
	}

	switch ev.Key() {
	case tcell.KeyRune:
		out = append(out, key.NewRuneEvent(ev.Rune()))
	case tcell.KeyEnter:
		out = append(out, key.NewSpecialEvent(key.KeyEnter, key.ActionDown))
	case tcell.KeyTab:
		out = append(out, key.NewSpecialEvent(key.KeyTab, key.ActionDown))
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		out = append(out, key.NewSpecialEvent(key.KeyBackspace, key.ActionDown))
	case tcell.KeyEscape:
		out = append(out, key.NewSpecialEvent(key.KeyEscape, key.ActionDown))
	case tcell.KeyDelete:
		out = append(out, key.NewSpecialEvent(key.KeyDelete, key.ActionDown))
	case tcell.KeyUp:
		out = append(out, key.NewSpecialEvent(key.KeyUp, key.ActionDown))
	case tcell.KeyDown:
		out = append(out, key.NewSpecialEvent(key.KeyDown, key.ActionDown))
	case tcell.KeyLeft:
		out = append(out, key.NewSpecialEvent(key.KeyLeft, key.ActionDown))
	case tcell.KeyRight:
		out = append(out, key.NewSpecialEvent(key.KeyRight, key.ActionDown))
	case tcell.KeyHome:
		out = append(out, key.NewSpecialEvent(key.KeyHome, key.ActionDown))
	case tcell.KeyEnd:
		out = append(out, key.NewSpecialEvent(key.KeyEnd, key.ActionDown))
	default:
		// Unmapped control keys are not interesting to the engine.
	}

	for i := len(wrap) - 1; i >= 0; i-- {
		out = append(out, key.NewSpecialEvent(wrap[i], key.ActionUp))
	}

	return out
}
