package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/typely/typely/internal/config"
	"github.com/typely/typely/internal/engine"
	"github.com/typely/typely/internal/input/actuator"
	"github.com/typely/typely/internal/input/source"
	"github.com/typely/typely/internal/logging"
	"github.com/typely/typely/internal/snippet"
	"github.com/typely/typely/internal/store"
)

// newTestApp wires an App over fake input so no OS hook or terminal is
// needed.
func newTestApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()

	cfgPath := filepath.Join(dir, "typely.toml")
	cfg := config.Default()
	if err := config.Save(cfg, cfgPath); err != nil {
		t.Fatal(err)
	}

	st, err := store.Open(filepath.Join(dir, "typely.db"))
	if err != nil {
		t.Fatal(err)
	}

	resolver := snippet.NewResolver(st, nil, true, nil)
	eng := engine.New(source.NewFake(), actuator.NewFake(), resolver, cfg.EngineConfig(), nil)

	return &App{
		log:      logging.Null,
		cfg:      cfg,
		cfgPath:  cfgPath,
		store:    st,
		resolver: resolver,
		engine:   eng,
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	a := newTestApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for !a.Engine().Running() {
		if time.Now().After(deadline) {
			t.Fatal("engine never started")
		}
		time.Sleep(2 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	if a.Engine().Running() {
		t.Error("engine still running after Run returned")
	}
}

func TestShutdownConcurrentWithRun(t *testing.T) {
	a := newTestApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	// Shutdown from another goroutine while Run is still wiring the
	// watcher; the race detector flags unsynchronized watcher access.
	go a.Shutdown()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	a.Shutdown()
}

func TestShutdownIdempotent(t *testing.T) {
	a := newTestApp(t)
	a.Shutdown()
	a.Shutdown()
}

func TestApplyConfig(t *testing.T) {
	a := newTestApp(t)
	defer a.Shutdown()

	cfg := config.Default()
	cfg.Expansion.BufferSize = 7
	cfg.Expansion.CaseSensitive = false
	a.applyConfig(cfg)

	if got := a.engine.Config().BufferSize; got != 7 {
		t.Errorf("engine BufferSize = %d, want 7", got)
	}
}
