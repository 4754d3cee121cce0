// Package snippet holds the expansion domain model: what a snippet is,
// what makes one valid, and how its replacement text is rendered.
package snippet

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Validation limits. Triggers stay short enough to type; replacements
// stay small enough to retype through the actuator.
const (
	MaxTriggerLen     = 50
	MaxReplacementLen = 10000
)

var (
	// ErrInvalidTrigger reports a trigger that fails validation.
	ErrInvalidTrigger = errors.New("invalid trigger")
	// ErrInvalidReplacement reports a replacement that fails validation.
	ErrInvalidReplacement = errors.New("invalid replacement")
)

// Kind distinguishes plain text snippets from Lua script snippets.
type Kind string

const (
	// KindText replaces the trigger with the replacement verbatim,
	// after placeholder substitution.
	KindText Kind = "text"
	// KindScript evaluates the replacement as a Lua chunk and types
	// whatever string it returns.
	KindScript Kind = "script"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindText || k == KindScript
}

// Snippet is one trigger-to-replacement mapping.
type Snippet struct {
	ID          uuid.UUID
	Trigger     string
	Replacement string
	Kind        Kind
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Active      bool
	UsageCount  uint64
	Tags        []string
}

// New builds a validated text snippet with a fresh ID.
func New(trigger, replacement string) (*Snippet, error) {
	return NewKind(trigger, replacement, KindText)
}

// NewKind builds a validated snippet of the given kind.
func NewKind(trigger, replacement string, kind Kind) (*Snippet, error) {
	if err := ValidateTrigger(trigger); err != nil {
		return nil, err
	}
	if err := ValidateReplacement(replacement); err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidReplacement, kind)
	}

	now := time.Now().UTC()
	return &Snippet{
		ID:          uuid.New(),
		Trigger:     trigger,
		Replacement: replacement,
		Kind:        kind,
		CreatedAt:   now,
		UpdatedAt:   now,
		Active:      true,
	}, nil
}

// ValidateTrigger enforces the trigger rules: non-empty, at most
// MaxTriggerLen bytes, no spaces, charset [A-Za-z0-9:_-].
func ValidateTrigger(trigger string) error {
	if trigger == "" {
		return fmt.Errorf("%w: empty", ErrInvalidTrigger)
	}
	if len(trigger) > MaxTriggerLen {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidTrigger, MaxTriggerLen)
	}
	if strings.ContainsRune(trigger, ' ') {
		return fmt.Errorf("%w: contains spaces", ErrInvalidTrigger)
	}
	for _, c := range trigger {
		if !isTriggerChar(c) {
			return fmt.Errorf("%w: character %q not allowed", ErrInvalidTrigger, c)
		}
	}
	return nil
}

func isTriggerChar(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == ':', c == '_', c == '-':
		return true
	}
	return false
}

// ValidateReplacement enforces the replacement rules: non-empty, at
// most MaxReplacementLen bytes.
func ValidateReplacement(replacement string) error {
	if replacement == "" {
		return fmt.Errorf("%w: empty", ErrInvalidReplacement)
	}
	if len(replacement) > MaxReplacementLen {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidReplacement, MaxReplacementLen)
	}
	return nil
}

// UpdateTrigger replaces the trigger after validation.
func (s *Snippet) UpdateTrigger(trigger string) error {
	if err := ValidateTrigger(trigger); err != nil {
		return err
	}
	s.Trigger = trigger
	s.touch()
	return nil
}

// UpdateReplacement replaces the replacement after validation.
func (s *Snippet) UpdateReplacement(replacement string) error {
	if err := ValidateReplacement(replacement); err != nil {
		return err
	}
	s.Replacement = replacement
	s.touch()
	return nil
}

// IncrementUsage bumps the usage counter.
func (s *Snippet) IncrementUsage() {
	s.UsageCount++
	s.touch()
}

// AddTag appends tag unless already present.
func (s *Snippet) AddTag(tag string) {
	for _, t := range s.Tags {
		if t == tag {
			return
		}
	}
	s.Tags = append(s.Tags, tag)
	s.touch()
}

// RemoveTag deletes tag if present.
func (s *Snippet) RemoveTag(tag string) {
	for i, t := range s.Tags {
		if t == tag {
			s.Tags = append(s.Tags[:i], s.Tags[i+1:]...)
			s.touch()
			return
		}
	}
}

// Activate marks the snippet eligible for expansion.
func (s *Snippet) Activate() {
	s.Active = true
	s.touch()
}

// Deactivate excludes the snippet from expansion without deleting it.
func (s *Snippet) Deactivate() {
	s.Active = false
	s.touch()
}

func (s *Snippet) touch() {
	s.UpdatedAt = time.Now().UTC()
}

// Expand renders the replacement with placeholder substitution. Script
// snippets are not rendered here; the resolver hands those to the Lua
// evaluator.
func (s *Snippet) Expand() string {
	return ExpandPlaceholders(s.Replacement, time.Now())
}

// ExpandPlaceholders substitutes the dynamic placeholders
// {date} {time} {datetime} {timestamp} {user} in text at the given
// moment. Unknown braced tokens pass through untouched.
func ExpandPlaceholders(text string, now time.Time) string {
	if !strings.ContainsRune(text, '{') {
		return text
	}

	pairs := []string{
		"{date}", now.Format("2006-01-02"),
		"{time}", now.Format("15:04:05"),
		"{datetime}", now.Format("2006-01-02 15:04:05"),
		"{timestamp}", strconv.FormatInt(now.Unix(), 10),
	}
	// {user} stays literal when the environment gives no name.
	if u := userName(); u != "" {
		pairs = append(pairs, "{user}", u)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

func userName() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return os.Getenv("USERNAME")
}
