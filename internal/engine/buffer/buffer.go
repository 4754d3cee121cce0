// Package buffer implements the bounded, time-aware ring of recently
// typed characters that trigger detection runs against.
package buffer

import "time"

// Buffer is a capacity-bounded FIFO of runes. When full, pushing evicts
// the oldest rune. Every mutation stamps lastUpdate so stale contents can
// be expired.
//
// Buffer is not goroutine-safe; the engine serializes access to it.
type Buffer struct {
	content    []rune
	maxSize    int
	lastUpdate time.Time

	// now is the clock, swappable in tests.
	now func() time.Time
}

// DefaultSize is the default capacity in characters.
const DefaultSize = 100

// New creates a buffer with the given capacity.
// Non-positive sizes fall back to DefaultSize.
func New(maxSize int) *Buffer {
	if maxSize <= 0 {
		maxSize = DefaultSize
	}
	return &Buffer{
		content:    make([]rune, 0, maxSize),
		maxSize:    maxSize,
		lastUpdate: time.Now(),
		now:        time.Now,
	}
}

// Push appends one rune, evicting the oldest when at capacity.
func (b *Buffer) Push(r rune) {
	if len(b.content) >= b.maxSize {
		copy(b.content, b.content[1:])
		b.content = b.content[:len(b.content)-1]
	}
	b.content = append(b.content, r)
	b.lastUpdate = b.now()
}

// PopN removes up to n trailing runes. Popping past empty is a no-op.
func (b *Buffer) PopN(n int) {
	if n <= 0 {
		return
	}
	if n > len(b.content) {
		n = len(b.content)
	}
	b.content = b.content[:len(b.content)-n]
	b.lastUpdate = b.now()
}

// Snapshot returns the buffered text. It does not mutate the buffer.
func (b *Buffer) Snapshot() string {
	return string(b.content)
}

// Len returns the number of buffered runes.
func (b *Buffer) Len() int {
	return len(b.content)
}

// Clear empties the buffer.
func (b *Buffer) Clear() {
	b.content = b.content[:0]
	b.lastUpdate = b.now()
}

// IsExpired returns true if no mutation happened within timeout.
func (b *Buffer) IsExpired(timeout time.Duration) bool {
	return b.now().Sub(b.lastUpdate) > timeout
}

// Resize changes the capacity. Shrinking trims the front so the most
// recent runes are retained.
func (b *Buffer) Resize(maxSize int) {
	if maxSize <= 0 {
		maxSize = DefaultSize
	}
	b.maxSize = maxSize
	if len(b.content) > maxSize {
		b.content = append(b.content[:0:0], b.content[len(b.content)-maxSize:]...)
	}
}

// MaxSize returns the current capacity.
func (b *Buffer) MaxSize() int {
	return b.maxSize
}

// SetClock replaces the wall-clock source. Intended for tests.
func (b *Buffer) SetClock(now func() time.Time) {
	if now != nil {
		b.now = now
	}
}
