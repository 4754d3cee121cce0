package buffer

import (
	"testing"
	"time"
)

func TestPushAndSnapshot(t *testing.T) {
	b := New(10)

	for _, r := range "hello" {
		b.Push(r)
	}

	if got := b.Snapshot(); got != "hello" {
		t.Errorf("Snapshot() = %q, want %q", got, "hello")
	}
	if b.Len() != 5 {
		t.Errorf("Len() = %d, want 5", b.Len())
	}
}

func TestPushEvictsOldest(t *testing.T) {
	b := New(5)

	for _, r := range "abcdef" {
		b.Push(r)
	}

	if got := b.Snapshot(); got != "bcdef" {
		t.Errorf("Snapshot() = %q, want %q (FIFO eviction)", got, "bcdef")
	}
	if b.Len() != 5 {
		t.Errorf("Len() = %d, want max size 5", b.Len())
	}
}

func TestLenNeverExceedsMax(t *testing.T) {
	b := New(3)

	for i := 0; i < 100; i++ {
		b.Push(rune('a' + i%26))
		if b.Len() > 3 {
			t.Fatalf("Len() = %d exceeds max size 3 after %d pushes", b.Len(), i+1)
		}
	}

	// The tail must hold exactly the most recent three runes.
	want := string([]rune{'a' + 97%26, 'a' + 98%26, 'a' + 99%26})
	if got := b.Snapshot(); got != want {
		t.Errorf("Snapshot() = %q, want %q", got, want)
	}
}

func TestPopN(t *testing.T) {
	tests := []struct {
		name string
		seed string
		n    int
		want string
	}{
		{"pop some", "hello", 2, "hel"},
		{"pop all", "hi", 2, ""},
		{"pop past empty", "hi", 10, ""},
		{"pop zero", "hi", 0, "hi"},
		{"pop negative", "hi", -1, "hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(10)
			for _, r := range tt.seed {
				b.Push(r)
			}
			b.PopN(tt.n)
			if got := b.Snapshot(); got != tt.want {
				t.Errorf("Snapshot() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClearIdempotent(t *testing.T) {
	b := New(10)
	for _, r := range "hello" {
		b.Push(r)
	}

	b.Clear()
	if b.Len() != 0 {
		t.Fatalf("Len() = %d after Clear, want 0", b.Len())
	}

	b.Clear()
	if b.Len() != 0 || b.Snapshot() != "" {
		t.Fatal("second Clear must leave the buffer empty with no error")
	}
}

func TestIsExpired(t *testing.T) {
	b := New(10)

	current := time.Now()
	b.SetClock(func() time.Time { return current })

	b.Push('a')
	if b.IsExpired(time.Second) {
		t.Fatal("buffer should not be expired immediately after a push")
	}

	current = current.Add(500 * time.Millisecond)
	if b.IsExpired(time.Second) {
		t.Fatal("buffer should not be expired before the timeout elapses")
	}

	current = current.Add(time.Second)
	if !b.IsExpired(time.Second) {
		t.Fatal("buffer should be expired past the timeout")
	}

	// Any mutation refreshes the clock.
	b.Push('b')
	if b.IsExpired(time.Second) {
		t.Fatal("push should refresh lastUpdate")
	}
}

func TestResizeShrinkTrimsFront(t *testing.T) {
	b := New(10)
	for _, r := range "abcde" {
		b.Push(r)
	}

	b.Resize(3)

	if got := b.Snapshot(); got != "cde" {
		t.Errorf("Snapshot() = %q after shrink, want %q", got, "cde")
	}
	if b.MaxSize() != 3 {
		t.Errorf("MaxSize() = %d, want 3", b.MaxSize())
	}

	// Growing again keeps contents.
	b.Resize(10)
	if got := b.Snapshot(); got != "cde" {
		t.Errorf("Snapshot() = %q after grow, want %q", got, "cde")
	}
}

func TestNewClampsSize(t *testing.T) {
	b := New(0)
	if b.MaxSize() != DefaultSize {
		t.Errorf("MaxSize() = %d, want DefaultSize %d", b.MaxSize(), DefaultSize)
	}

	b = New(-5)
	if b.MaxSize() != DefaultSize {
		t.Errorf("MaxSize() = %d, want DefaultSize %d", b.MaxSize(), DefaultSize)
	}
}
