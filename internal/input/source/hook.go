package source

import (
	"sync"

	hook "github.com/robotn/gohook"

	"github.com/typely/typely/internal/input/key"
)

// Hook is a Source backed by an OS-global keyboard listener (gohook).
// It sees keystrokes system-wide, regardless of the focused application.
// The OS may require extra privileges for this (accessibility approval
// on macOS, membership of the input group on Linux); when installation
// is refused the start fails with ErrHookDenied.
//
// gohook owns its own callback thread. The bridge goroutine here does
// nothing but convert and forward, so the global hook is never stalled
// by downstream work.
type Hook struct {
	mu      sync.Mutex
	events  chan key.Event
	stop    chan struct{}
	running bool
}

// NewHook creates an idle global-hook source.
func NewHook() *Hook {
	return &Hook{}
}

// Start installs the global hook.
func (h *Hook) Start() (<-chan key.Event, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.running {
		return nil, ErrAlreadyMonitoring
	}

	raw := hook.Start()
	if raw == nil {
		return nil, ErrHookDenied
	}

	h.events = make(chan key.Event, eventChanSize)
	h.stop = make(chan struct{})
	h.running = true

	go h.bridge(raw, h.events, h.stop)

	return h.events, nil
}

// Stop uninstalls the hook. Idempotent.
func (h *Hook) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.running {
		return nil
	}
	h.running = false
	close(h.stop)
	hook.End()
	return nil
}

// Running reports whether the hook is installed.
func (h *Hook) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.running
}

func (h *Hook) bridge(raw chan hook.Event, events chan<- key.Event, stop <-chan struct{}) {
	defer close(events)

	for {
		select {
		case <-stop:
			return
		case ev, ok := <-raw:
			if !ok {
				return
			}
			converted, ok := convertHookEvent(ev)
			if !ok {
				continue
			}
			select {
			case events <- converted:
			case <-stop:
				return
			default:
				// Overflow: drop rather than stall the hook thread.
			}
		}
	}
}

// convertHookEvent maps a gohook event onto the key model. Mouse and
// wheel events are discarded.
func convertHookEvent(ev hook.Event) (key.Event, bool) {
	var action key.Action
	switch ev.Kind {
	case hook.KeyDown, hook.KeyHold:
		action = key.ActionDown
	case hook.KeyUp:
		action = key.ActionUp
	default:
		return key.Event{}, false
	}

	if k, ok := specialFromName(hook.RawcodetoKeychar(ev.Rawcode)); ok {
		return key.NewSpecialEvent(k, action), true
	}

	if ev.Keychar != 0 && ev.Keychar != 65535 {
		e := key.NewRuneEvent(ev.Keychar)
		e.Action = action
		return e, true
	}

	return key.Event{}, false
}

// specialFromName maps gohook key names to special keys. Names not
// listed here are either printable (handled via Keychar) or irrelevant.
func specialFromName(name string) (key.Key, bool) {
	switch name {
	case "enter", "return":
		return key.KeyEnter, true
	case "tab":
		return key.KeyTab, true
	case "backspace", "delete_or_backspace":
		return key.KeyBackspace, true
	case "delete":
		return key.KeyDelete, true
	case "esc", "escape":
		return key.KeyEscape, true
	case "ctrl", "lctrl", "control":
		return key.KeyCtrlLeft, true
	case "rctrl":
		return key.KeyCtrlRight, true
	case "shift", "lshift":
		return key.KeyShiftLeft, true
	case "rshift":
		return key.KeyShiftRight, true
	case "alt", "lalt", "option":
		return key.KeyAltLeft, true
	case "ralt":
		return key.KeyAltRight, true
	case "cmd", "lcmd", "super", "win":
		return key.KeyMetaLeft, true
	case "rcmd":
		return key.KeyMetaRight, true
	case "up":
		return key.KeyUp, true
	case "down":
		return key.KeyDown, true
	case "left":
		return key.KeyLeft, true
	case "right":
		return key.KeyRight, true
	case "home":
		return key.KeyHome, true
	case "end":
		return key.KeyEnd, true
	case "pageup":
		return key.KeyPageUp, true
	case "pagedown":
		return key.KeyPageDown, true
	case "caps_lock", "capslock":
		return key.KeyCapsLock, true
	default:
		return key.KeyNone, false
	}
}
