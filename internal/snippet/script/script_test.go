package script

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/typely/typely/internal/logging"
)

func TestEvalReturnsString(t *testing.T) {
	e := NewEvaluator(0, nil)

	got, err := e.Eval(`return "hello " .. trigger`, "::hi", "")
	if err != nil {
		t.Fatalf("Eval() error: %v", err)
	}
	if got != "hello ::hi" {
		t.Errorf("Eval() = %q, want %q", got, "hello ::hi")
	}
}

func TestEvalSeesContext(t *testing.T) {
	e := NewEvaluator(0, nil)

	got, err := e.Eval(`return string.upper(context)`, "::x", "abc")
	if err != nil {
		t.Fatal(err)
	}
	if got != "ABC" {
		t.Errorf("got %q, want %q", got, "ABC")
	}
}

func TestEvalNumberResult(t *testing.T) {
	e := NewEvaluator(0, nil)

	got, err := e.Eval(`return 6 * 7`, "::x", "")
	if err != nil {
		t.Fatal(err)
	}
	if got != "42" {
		t.Errorf("got %q, want %q", got, "42")
	}
}

func TestEvalHelpers(t *testing.T) {
	e := NewEvaluator(0, nil)

	got, err := e.Eval(`return typely.date()`, "::x", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, perr := time.Parse("2006-01-02", got); perr != nil {
		t.Errorf("typely.date() = %q, not a date", got)
	}
}

func TestEvalNonStringResult(t *testing.T) {
	e := NewEvaluator(0, nil)

	_, err := e.Eval(`return {}`, "::x", "")
	if !errors.Is(err, ErrBadResult) {
		t.Fatalf("err = %v, want ErrBadResult", err)
	}
}

func TestEvalSyntaxError(t *testing.T) {
	e := NewEvaluator(0, nil)

	_, err := e.Eval(`return ((`, "::x", "")
	if !errors.Is(err, ErrScript) {
		t.Fatalf("err = %v, want ErrScript", err)
	}
}

func TestEvalSandboxBlocksLoaders(t *testing.T) {
	e := NewEvaluator(0, nil)

	for _, chunk := range []string{
		`return type(dofile)`,
		`return type(loadfile)`,
		`return type(load)`,
	} {
		got, err := e.Eval(chunk, "::x", "")
		if err != nil {
			t.Fatalf("Eval(%q) error: %v", chunk, err)
		}
		if got != "nil" {
			t.Errorf("Eval(%q) = %q, want loader removed", chunk, got)
		}
	}
}

func TestEvalLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: logging.LevelDebug, Output: &buf})
	e := NewEvaluator(0, log)

	_, err := e.Eval(`error("boom")`, "::x", "")
	if !errors.Is(err, ErrScript) {
		t.Fatalf("err = %v, want ErrScript", err)
	}
	if out := buf.String(); !strings.Contains(out, "::x") || !strings.Contains(out, "boom") {
		t.Errorf("failure not logged, output: %q", out)
	}

	buf.Reset()
	if _, err := e.Eval(`return "ok"`, "::y", ""); err != nil {
		t.Fatal(err)
	}
	if out := buf.String(); !strings.Contains(out, "ran in") {
		t.Errorf("timing not logged, output: %q", out)
	}
}

func TestEvalTimeout(t *testing.T) {
	e := NewEvaluator(50*time.Millisecond, nil)

	start := time.Now()
	_, err := e.Eval(`while true do end`, "::x", "")
	if !errors.Is(err, ErrScript) {
		t.Fatalf("err = %v, want ErrScript", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("runaway script took %v to cancel", elapsed)
	}
	if !strings.Contains(err.Error(), "context") && !strings.Contains(err.Error(), "deadline") {
		// The exact message comes from the Lua runtime; a cancellation
		// of some form is all that matters.
		t.Logf("timeout surfaced as: %v", err)
	}
}
