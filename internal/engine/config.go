package engine

import (
	"time"

	"github.com/typely/typely/internal/trigger"
)

// Config holds the engine's runtime tuning. It is replaceable while the
// engine runs via UpdateConfig.
type Config struct {
	// BufferSize bounds the rolling character buffer.
	BufferSize int

	// TriggerTimeout expires buffered characters after inactivity so
	// stale partial triggers are not matched.
	TriggerTimeout time.Duration

	// ExpansionDelay is waited before actuating so the OS settles the
	// triggering keystroke.
	ExpansionDelay time.Duration

	// Enabled gates all event processing; when false, events are
	// discarded unseen.
	Enabled bool

	// CaseSensitive controls snippet lookup, not detection; detection
	// is always byte-exact.
	CaseSensitive bool

	// Patterns are the trigger markers to detect.
	Patterns []trigger.Pattern
}

// DefaultConfig returns the stock engine configuration.
func DefaultConfig() Config {
	return Config{
		BufferSize:     100,
		TriggerTimeout: time.Second,
		ExpansionDelay: 50 * time.Millisecond,
		Enabled:        true,
		CaseSensitive:  true,
		Patterns:       trigger.DefaultPatterns(),
	}
}
