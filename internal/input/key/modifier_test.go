package key

import "testing"

func TestModifierWithWithout(t *testing.T) {
	m := ModNone.With(ModCtrl).With(ModAlt)
	if !m.HasCtrl() || !m.HasAlt() {
		t.Fatalf("With() = %v, want Ctrl+Alt", m)
	}
	m = m.Without(ModAlt)
	if m.HasAlt() {
		t.Fatalf("Without(ModAlt) = %v, Alt still set", m)
	}
	if !m.HasCtrl() {
		t.Fatalf("Without(ModAlt) = %v, Ctrl dropped", m)
	}
	if !m.Without(ModCtrl).IsEmpty() {
		t.Fatal("removing the last modifier should yield ModNone")
	}
}

func TestModifierString(t *testing.T) {
	tests := []struct {
		mod  Modifier
		want string
	}{
		{ModNone, ""},
		{ModCtrl, "Ctrl"},
		{ModShift, "Shift"},
		{ModCtrl | ModAlt, "Ctrl+Alt"},
		{ModCtrl | ModShift | ModMeta, "Ctrl+Shift+Meta"},
	}

	for _, tt := range tests {
		if got := tt.mod.String(); got != tt.want {
			t.Errorf("%#x.String() = %q, want %q", uint8(tt.mod), got, tt.want)
		}
	}
}

func TestChordDetectionUsesBitmask(t *testing.T) {
	tr := NewTracker()
	tr.Observe(NewSpecialEvent(KeyCtrlLeft, ActionDown))
	tr.Observe(NewSpecialEvent(KeyShiftLeft, ActionDown))

	mods := tr.State().Modifier()
	if mods.Without(ModShift).IsEmpty() {
		t.Fatal("Ctrl+Shift should remain a chord after masking Shift")
	}

	tr.Observe(NewSpecialEvent(KeyCtrlLeft, ActionUp))
	mods = tr.State().Modifier()
	if !mods.Without(ModShift).IsEmpty() {
		t.Fatalf("Shift alone should not be a chord, got %s", mods)
	}
}
