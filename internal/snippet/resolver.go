package snippet

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/typely/typely/internal/engine"
	"github.com/typely/typely/internal/logging"
)

// ErrNotFound reports a trigger with no stored snippet.
var ErrNotFound = errors.New("snippet not found")

// Repository is the persistence surface the resolver needs.
type Repository interface {
	// GetByTrigger finds the snippet with the exact trigger, or
	// ErrNotFound.
	GetByTrigger(trigger string) (*Snippet, error)
	// GetByTriggerFold is GetByTrigger with case-insensitive matching.
	GetByTriggerFold(trigger string) (*Snippet, error)
	// IncrementUsage bumps the stored usage counter.
	IncrementUsage(id uuid.UUID) error
}

// ScriptEvaluator runs a script snippet's chunk and returns the text
// to type.
type ScriptEvaluator interface {
	Eval(chunk, trigger, context string) (string, error)
}

// Resolver turns detected triggers into replacement text. It is the
// engine's lookup collaborator and must stay prompt: one indexed read
// plus an optional script evaluation.
type Resolver struct {
	repo    Repository
	scripts ScriptEvaluator
	log     *logging.Logger

	// caseSensitive may be flipped by a config reload while the
	// engine is running.
	caseSensitive atomic.Bool
}

// NewResolver builds a resolver over the repository. scripts may be
// nil when script snippets are not in use; resolving one then fails.
func NewResolver(repo Repository, scripts ScriptEvaluator, caseSensitive bool, log *logging.Logger) *Resolver {
	if log == nil {
		log = logging.Null
	}
	r := &Resolver{
		repo:    repo,
		scripts: scripts,
		log:     log.WithComponent("resolver"),
	}
	r.caseSensitive.Store(caseSensitive)
	return r
}

// SetCaseSensitive updates the lookup mode.
func (r *Resolver) SetCaseSensitive(v bool) {
	r.caseSensitive.Store(v)
}

// ResolveAndExpand implements engine.Lookup. A missing or inactive
// snippet is a miss, not an error; store and script failures wrap
// engine.ErrLookupFailed.
func (r *Resolver) ResolveAndExpand(trigger, context string) (engine.Expansion, error) {
	s, err := r.repo.GetByTrigger(trigger)
	if errors.Is(err, ErrNotFound) && !r.caseSensitive.Load() {
		s, err = r.repo.GetByTriggerFold(trigger)
	}
	if errors.Is(err, ErrNotFound) {
		return engine.Expansion{}, nil
	}
	if err != nil {
		return engine.Expansion{}, fmt.Errorf("%w: %v", engine.ErrLookupFailed, err)
	}

	if !s.Active {
		r.log.Debug("trigger %q is inactive", s.Trigger)
		return engine.Expansion{}, nil
	}

	text, err := r.render(s, context)
	if err != nil {
		return engine.Expansion{}, err
	}

	// Usage accounting never blocks an expansion.
	if err := r.repo.IncrementUsage(s.ID); err != nil {
		r.log.Warn("usage count update failed for %q: %v", s.Trigger, err)
	}

	return engine.Expansion{Text: text, Matched: true}, nil
}

func (r *Resolver) render(s *Snippet, context string) (string, error) {
	switch s.Kind {
	case KindScript:
		if r.scripts == nil {
			return "", fmt.Errorf("%w: script snippets not enabled", engine.ErrLookupFailed)
		}
		text, err := r.scripts.Eval(s.Replacement, s.Trigger, context)
		if err != nil {
			return "", fmt.Errorf("%w: script %q: %v", engine.ErrLookupFailed, s.Trigger, err)
		}
		return text, nil
	default:
		return s.Expand(), nil
	}
}
