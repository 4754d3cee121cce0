package key

// Key represents a keyboard key.
// For character keys, use KeyRune and set the Rune field in Event.
type Key uint16

const (
	// KeyNone represents no key.
	KeyNone Key = iota

	// Special keys
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	// Arrow keys
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	// Function keys
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	// Modifier keys as observed by a global hook. Unlike terminal input,
	// an OS-level listener reports modifier presses as their own events.
	KeyCtrlLeft
	KeyCtrlRight
	KeyShiftLeft
	KeyShiftRight
	KeyAltLeft
	KeyAltRight
	KeyMetaLeft
	KeyMetaRight

	// Lock and misc keys
	KeyCapsLock
	KeyNumLock
	KeyScrollLock
	KeyPrintScreen
	KeyPause

	// KeyRune is used for character keys (letters, numbers, punctuation).
	// The actual character is stored in Event.Rune.
	KeyRune
)

// String returns a human-readable name for the key.
func (k Key) String() string {
	switch k {
	case KeyNone:
		return "None"
	case KeyEscape:
		return "Escape"
	case KeyEnter:
		return "Enter"
	case KeyTab:
		return "Tab"
	case KeyBackspace:
		return "Backspace"
	case KeyDelete:
		return "Delete"
	case KeyInsert:
		return "Insert"
	case KeyHome:
		return "Home"
	case KeyEnd:
		return "End"
	case KeyPageUp:
		return "PageUp"
	case KeyPageDown:
		return "PageDown"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyF1:
		return "F1"
	case KeyF2:
		return "F2"
	case KeyF3:
		return "F3"
	case KeyF4:
		return "F4"
	case KeyF5:
		return "F5"
	case KeyF6:
		return "F6"
	case KeyF7:
		return "F7"
	case KeyF8:
		return "F8"
	case KeyF9:
		return "F9"
	case KeyF10:
		return "F10"
	case KeyF11:
		return "F11"
	case KeyF12:
		return "F12"
	case KeyCtrlLeft:
		return "CtrlLeft"
	case KeyCtrlRight:
		return "CtrlRight"
	case KeyShiftLeft:
		return "ShiftLeft"
	case KeyShiftRight:
		return "ShiftRight"
	case KeyAltLeft:
		return "AltLeft"
	case KeyAltRight:
		return "AltRight"
	case KeyMetaLeft:
		return "MetaLeft"
	case KeyMetaRight:
		return "MetaRight"
	case KeyCapsLock:
		return "CapsLock"
	case KeyNumLock:
		return "NumLock"
	case KeyScrollLock:
		return "ScrollLock"
	case KeyPrintScreen:
		return "PrintScreen"
	case KeyPause:
		return "Pause"
	case KeyRune:
		return "Rune"
	default:
		return "Unknown"
	}
}

// IsModifier returns true for the standalone modifier keys
// (Ctrl, Shift, Alt, Meta in either position).
func (k Key) IsModifier() bool {
	switch k {
	case KeyCtrlLeft, KeyCtrlRight,
		KeyShiftLeft, KeyShiftRight,
		KeyAltLeft, KeyAltRight,
		KeyMetaLeft, KeyMetaRight:
		return true
	default:
		return false
	}
}

// IsWordBoundary returns true for keys that terminate a word while typing.
// A trigger cannot span one of these.
func (k Key) IsWordBoundary() bool {
	switch k {
	case KeyEnter, KeyTab:
		return true
	default:
		return false
	}
}

// IsSpecial returns true if this is a non-character key.
func (k Key) IsSpecial() bool {
	return k != KeyRune && k != KeyNone
}
