// Package script evaluates Lua script snippets. A script snippet's
// replacement is a Lua chunk that returns the text to type.
package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/typely/typely/internal/logging"
)

// DefaultTimeout bounds one script evaluation. Expansion is latency
// sensitive; a slow script is a broken script.
const DefaultTimeout = 2 * time.Second

var (
	// ErrScript reports a chunk that failed to compile or run.
	ErrScript = errors.New("script error")
	// ErrBadResult reports a chunk that did not return a string.
	ErrBadResult = errors.New("script must return a string")
)

// Evaluator runs script snippets in a sandboxed Lua state. Each
// evaluation gets a fresh state; the engine's single consumer already
// serializes calls, so no state is shared across goroutines.
type Evaluator struct {
	timeout time.Duration
	log     *logging.Logger
}

// NewEvaluator builds an evaluator. A non-positive timeout falls back
// to DefaultTimeout.
func NewEvaluator(timeout time.Duration, log *logging.Logger) *Evaluator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logging.Null
	}
	return &Evaluator{timeout: timeout, log: log.WithComponent("script")}
}

// Eval runs chunk with `trigger` and `context` bound as globals and
// returns the string the chunk returns.
func (e *Evaluator) Eval(chunk, trigger, context string) (string, error) {
	L := newSandboxedState()
	defer L.Close()

	L.SetGlobal("trigger", lua.LString(trigger))
	L.SetGlobal("context", lua.LString(context))
	registerHelpers(L)

	ctx, cancel := contextWithTimeout(e.timeout)
	defer cancel()
	L.SetContext(ctx)

	start := time.Now()
	if err := L.DoString(chunk); err != nil {
		e.log.Error("script for %q failed after %s: %v", trigger, time.Since(start), err)
		return "", fmt.Errorf("%w: %v", ErrScript, err)
	}
	e.log.Debug("script for %q ran in %s", trigger, time.Since(start))

	ret := L.Get(-1)
	switch v := ret.(type) {
	case lua.LString:
		return string(v), nil
	case lua.LNumber:
		return v.String(), nil
	default:
		return "", fmt.Errorf("%w, got %s", ErrBadResult, ret.Type())
	}
}

func contextWithTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

// newSandboxedState builds an LState with only the safe standard
// libraries and the file-loading globals removed.
func newSandboxedState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// io, os, debug and package stay closed; these globals could pull
	// code in from disk.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}

	return L
}

// registerHelpers exposes the typely table: the same dynamic values
// text snippets get as placeholders.
func registerHelpers(L *lua.LState) {
	t := L.NewTable()

	L.SetField(t, "date", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(time.Now().Format("2006-01-02")))
		return 1
	}))
	L.SetField(t, "time", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(time.Now().Format("15:04:05")))
		return 1
	}))
	L.SetField(t, "datetime", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(time.Now().Format("2006-01-02 15:04:05")))
		return 1
	}))
	L.SetField(t, "timestamp", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(time.Now().Unix()))
		return 1
	}))
	L.SetField(t, "user", L.NewFunction(func(L *lua.LState) int {
		u := os.Getenv("USER")
		if u == "" {
			u = os.Getenv("USERNAME")
		}
		L.Push(lua.LString(u))
		return 1
	}))

	L.SetGlobal("typely", t)
}
