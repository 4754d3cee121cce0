package trigger

import (
	"reflect"
	"testing"
)

func TestFindTriggersStandardPattern(t *testing.T) {
	m := NewDefaultMatcher()

	got := m.FindTriggers("Hello ::world and ::test!")
	want := []Match{
		{Trigger: "::world", Start: 6, End: 13},
		{Trigger: "::test", Start: 18, End: 24},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindTriggers() = %+v, want %+v", got, want)
	}
}

func TestFindTriggersAllPatterns(t *testing.T) {
	m := NewMatcher(
		Pattern{Marker: "::", Enabled: true},
		Pattern{Marker: "@", Enabled: true},
		Pattern{Marker: "#", Enabled: true},
	)

	got := m.FindTriggers("Test ::colon @at and #hash triggers")
	if len(got) != 3 {
		t.Fatalf("FindTriggers() returned %d matches, want 3: %+v", len(got), got)
	}
	if got[0].Trigger != "::colon" || got[1].Trigger != "@at" || got[2].Trigger != "#hash" {
		t.Errorf("unexpected triggers: %+v", got)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Start < got[i-1].Start {
			t.Errorf("matches not sorted by start position: %+v", got)
		}
	}
}

func TestFindTriggersDisabledPatterns(t *testing.T) {
	m := NewDefaultMatcher() // only "::" enabled

	got := m.FindTriggers("Reach me @home or #work or ::here")
	if len(got) != 1 {
		t.Fatalf("FindTriggers() = %+v, want only the :: match", got)
	}
	if got[0].Trigger != "::here" {
		t.Errorf("Trigger = %q, want %q", got[0].Trigger, "::here")
	}
}

func TestFindTriggersEdgeCases(t *testing.T) {
	m := NewDefaultMatcher()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty text", "", nil},
		{"no triggers", "plain text", nil},
		{"bare marker", "stuck ::", nil},
		{"marker then space", ":: spaced", nil},
		{"trigger at start", "::go now", []string{"::go"}},
		{"trigger at end", "now ::go", []string{"::go"}},
		{"underscore and hyphen", "::snake_case-x", []string{"::snake_case-x"}},
		{"punctuation terminates", "::done!", []string{"::done"}},
		{"triple colon", ":::x", []string{"::x"}},
		{"adjacent triggers", "::a ::b", []string{"::a", "::b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := m.FindTriggers(tt.text)
			var got []string
			for _, match := range matches {
				got = append(got, match.Trigger)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindTriggers(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestMatchOffsets(t *testing.T) {
	m := NewDefaultMatcher()

	matches := m.FindTriggers("x ::ab y")
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}

	match := matches[0]
	if match.Start != 2 || match.End != 6 {
		t.Errorf("range = [%d,%d), want [2,6)", match.Start, match.End)
	}
	if match.Len() != len("::ab") {
		t.Errorf("Len() = %d, want %d", match.Len(), len("::ab"))
	}
	if match.End <= match.Start {
		t.Error("End must be greater than Start")
	}
}

func TestFindTriggerAt(t *testing.T) {
	m := NewDefaultMatcher()
	text := "Hello ::world"

	match, ok := m.FindTriggerAt(text, 13)
	if !ok {
		t.Fatal("expected a match at the trigger's end")
	}
	if match.Trigger != "::world" {
		t.Errorf("Trigger = %q, want %q", match.Trigger, "::world")
	}

	if match, ok := m.FindTriggerAt(text, 8); !ok || match.Trigger != "::world" {
		t.Errorf("cursor inside trigger: got (%+v, %v)", match, ok)
	}

	if _, ok := m.FindTriggerAt(text, 5); ok {
		t.Error("cursor before the trigger should not match")
	}
}

func TestExtractPartial(t *testing.T) {
	m := NewDefaultMatcher()

	tests := []struct {
		name   string
		text   string
		cursor int
		want   string
		ok     bool
	}{
		{"partial trigger", "Hello ::wor", 11, "::wor", true},
		{"no marker", "Hello world", 11, "", false},
		{"bare marker", "Hello ::", 8, "", false},
		{"single colon", "Hello :wor", 10, "", false},
		{"cursor zero", "::wor", 0, "", false},
		{"cursor past end", "::wor", 99, "", false},
		{"trigger at text start", "::ab", 4, "::ab", true},
		{"interrupted by space", "::ab cd", 7, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.ExtractPartial(tt.text, tt.cursor)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ExtractPartial(%q, %d) = (%q, %v), want (%q, %v)",
					tt.text, tt.cursor, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestExtractPartialSingleCharMarker(t *testing.T) {
	m := NewMatcher(Pattern{Marker: "@", Enabled: true})

	got, ok := m.ExtractPartial("mail @jo", 8)
	if !ok || got != "@jo" {
		t.Errorf("ExtractPartial() = (%q, %v), want (%q, true)", got, ok, "@jo")
	}

	if _, ok := m.ExtractPartial("mail @", 6); ok {
		t.Error("bare @ should not be a partial trigger")
	}
}

func TestMatcherDeterminism(t *testing.T) {
	m := NewDefaultMatcher()
	text := "say ::hi and ::bye"

	first := m.FindTriggers(text)
	for i := 0; i < 50; i++ {
		if got := m.FindTriggers(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %+v vs %+v", i, got, first)
		}
	}
}
