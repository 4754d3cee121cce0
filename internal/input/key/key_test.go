package key

import (
	"testing"
)

func TestKeyIsModifier(t *testing.T) {
	tests := []struct {
		key    Key
		expect bool
	}{
		{KeyCtrlLeft, true},
		{KeyCtrlRight, true},
		{KeyShiftLeft, true},
		{KeyShiftRight, true},
		{KeyAltLeft, true},
		{KeyAltRight, true},
		{KeyMetaLeft, true},
		{KeyMetaRight, true},
		{KeyEscape, false},
		{KeyEnter, false},
		{KeyRune, false},
		{KeyCapsLock, false},
	}

	for _, tt := range tests {
		if got := tt.key.IsModifier(); got != tt.expect {
			t.Errorf("%s.IsModifier() = %v, want %v", tt.key, got, tt.expect)
		}
	}
}

func TestKeyIsWordBoundary(t *testing.T) {
	tests := []struct {
		key    Key
		expect bool
	}{
		{KeyEnter, true},
		{KeyTab, true},
		{KeyBackspace, false},
		{KeyEscape, false},
		{KeyRune, false},
	}

	for _, tt := range tests {
		if got := tt.key.IsWordBoundary(); got != tt.expect {
			t.Errorf("%s.IsWordBoundary() = %v, want %v", tt.key, got, tt.expect)
		}
	}
}

func TestKeyString(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{KeyNone, "None"},
		{KeyEscape, "Escape"},
		{KeyEnter, "Enter"},
		{KeyBackspace, "Backspace"},
		{KeyCtrlLeft, "CtrlLeft"},
		{KeyMetaRight, "MetaRight"},
		{KeyF12, "F12"},
		{KeyRune, "Rune"},
		{Key(9999), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.key.String(); got != tt.want {
			t.Errorf("Key.String() = %q, want %q", got, tt.want)
		}
	}
}

func TestEventIsChar(t *testing.T) {
	tests := []struct {
		name   string
		ev     Event
		expect bool
	}{
		{"letter", NewRuneEvent('a'), true},
		{"digit", NewRuneEvent('7'), true},
		{"space", NewRuneEvent(' '), true},
		{"colon", NewRuneEvent(':'), true},
		{"zero rune", Event{Key: KeyRune}, false},
		{"special", NewSpecialEvent(KeyEscape, ActionDown), false},
		{"control rune", Event{Key: KeyRune, Rune: '\x07', Action: ActionDown}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ev.IsChar(); got != tt.expect {
				t.Errorf("IsChar() = %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestEventString(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{NewRuneEvent('a'), "a Down"},
		{NewRuneEvent(' '), "Space Down"},
		{NewSpecialEvent(KeyEscape, ActionUp), "Escape Up"},
		{NewSpecialEvent(KeyBackspace, ActionDown), "Backspace Down"},
	}

	for _, tt := range tests {
		if got := tt.ev.String(); got != tt.want {
			t.Errorf("Event.String() = %q, want %q", got, tt.want)
		}
	}
}
