// Package trigger implements detection of marker-prefixed triggers
// (for example "::sig") in buffered text.
//
// Matching is pure: for identical inputs and pattern configuration the
// result is identical on every call. Detection runs on every keystroke,
// so nothing here allocates state or touches a clock.
package trigger

import "sort"

// Pattern is a configurable trigger marker.
type Pattern struct {
	// Marker is the prefix that introduces a trigger, e.g. "::".
	Marker string

	// Enabled controls whether the marker participates in matching.
	Enabled bool
}

// DefaultPatterns returns the known markers. Only "::" is enabled
// by default.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{Marker: "::", Enabled: true},
		{Marker: "@", Enabled: false},
		{Marker: "#", Enabled: false},
	}
}

// Match is one detected trigger occurrence. Offsets are rune positions
// forming a half-open [Start, End) range that includes the marker.
type Match struct {
	Trigger string
	Start   int
	End     int
}

// Len returns the trigger length in runes.
func (m Match) Len() int {
	return m.End - m.Start
}

// Matcher finds triggers using a fixed set of enabled markers.
// It is immutable after construction and safe for concurrent use.
type Matcher struct {
	markers []string
}

// NewMatcher creates a matcher from the enabled subset of patterns.
// Longer markers are tried first so "::" wins over a hypothetical ":".
func NewMatcher(patterns ...Pattern) *Matcher {
	var markers []string
	for _, p := range patterns {
		if p.Enabled && p.Marker != "" {
			markers = append(markers, p.Marker)
		}
	}
	sort.Slice(markers, func(i, j int) bool {
		return len(markers[i]) > len(markers[j])
	})
	return &Matcher{markers: markers}
}

// NewDefaultMatcher creates a matcher with the default pattern set.
func NewDefaultMatcher() *Matcher {
	return NewMatcher(DefaultPatterns()...)
}

// isTriggerRune reports whether r may appear in a trigger body.
func isTriggerRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-':
		return true
	default:
		return false
	}
}

// markerAt returns the marker starting at position i, or "" if none.
func (m *Matcher) markerAt(runes []rune, i int) string {
	for _, marker := range m.markers {
		mr := []rune(marker)
		if i+len(mr) > len(runes) {
			continue
		}
		ok := true
		for j, r := range mr {
			if runes[i+j] != r {
				ok = false
				break
			}
		}
		if ok {
			return marker
		}
	}
	return ""
}

// FindTriggers returns all triggers in text, sorted ascending by start
// position. A trigger is a maximal run of [A-Za-z0-9_-] immediately
// preceded by an enabled marker; the marker is part of the match.
func (m *Matcher) FindTriggers(text string) []Match {
	runes := []rune(text)
	var matches []Match

	for i := 0; i < len(runes); {
		marker := m.markerAt(runes, i)
		if marker == "" {
			i++
			continue
		}

		body := i + len([]rune(marker))
		end := body
		for end < len(runes) && isTriggerRune(runes[end]) {
			end++
		}
		if end == body {
			// Marker with no body; keep scanning inside it in case a
			// shorter run starts later (":::x" matches "::x").
			i++
			continue
		}

		matches = append(matches, Match{
			Trigger: string(runes[i:end]),
			Start:   i,
			End:     end,
		})
		i = end
	}

	return matches
}

// FindTriggerAt returns the match whose inclusive [start, end] range
// contains cursor, or false if none does.
func (m *Matcher) FindTriggerAt(text string, cursor int) (Match, bool) {
	for _, match := range m.FindTriggers(text) {
		if cursor >= match.Start && cursor <= match.End {
			return match, true
		}
	}
	return Match{}, false
}

// ExtractPartial scans backward from cursor and returns the partially
// typed trigger ending there, e.g. "::wor" for text "Hello ::wor".
// It returns false if a non-trigger character is reached before a
// complete marker, or if nothing beyond the marker has been typed yet.
func (m *Matcher) ExtractPartial(text string, cursor int) (string, bool) {
	runes := []rune(text)
	if cursor <= 0 || cursor > len(runes) {
		return "", false
	}

	i := cursor - 1
	for i >= 0 {
		if isTriggerRune(runes[i]) {
			i--
			continue
		}
		// First non-body rune: it must complete an enabled marker.
		for _, marker := range m.markers {
			mr := []rune(marker)
			start := i - len(mr) + 1
			if start < 0 {
				continue
			}
			if m.markerAt(runes, start) != marker || start+len(mr)-1 != i {
				continue
			}
			partial := string(runes[start:cursor])
			if len([]rune(partial)) > len(mr) {
				return partial, true
			}
			return "", false
		}
		return "", false
	}
	return "", false
}
