package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Expansion.BufferSize != 100 {
		t.Errorf("BufferSize = %d, want 100", cfg.Expansion.BufferSize)
	}
	if cfg.Expansion.TriggerTimeoutMS != 1000 {
		t.Errorf("TriggerTimeoutMS = %d, want 1000", cfg.Expansion.TriggerTimeoutMS)
	}
	if cfg.Expansion.ExpansionDelayMS != 50 {
		t.Errorf("ExpansionDelayMS = %d, want 50", cfg.Expansion.ExpansionDelayMS)
	}
	if !cfg.Expansion.Enabled || !cfg.Expansion.CaseSensitive {
		t.Error("expansion must default to enabled and case sensitive")
	}

	patterns := cfg.Patterns()
	if len(patterns) != 3 {
		t.Fatalf("got %d patterns, want 3", len(patterns))
	}
	if patterns[0].Marker != "::" || !patterns[0].Enabled {
		t.Errorf("first pattern = %+v, want enabled ::", patterns[0])
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing file must yield defaults, got %v", err)
	}
	if cfg.Expansion.BufferSize != 100 {
		t.Errorf("BufferSize = %d, want default", cfg.Expansion.BufferSize)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typely.toml")
	data := []byte("[expansion]\nbuffer_size = 50\n")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Expansion.BufferSize != 50 {
		t.Errorf("BufferSize = %d, want 50", cfg.Expansion.BufferSize)
	}
	if cfg.Expansion.TriggerTimeoutMS != 1000 {
		t.Errorf("TriggerTimeoutMS = %d, want default 1000", cfg.Expansion.TriggerTimeoutMS)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typely.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadClampsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typely.toml")
	data := []byte("[expansion]\nbuffer_size = -5\ntrigger_timeout_ms = 0\n")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Expansion.BufferSize != 100 || cfg.Expansion.TriggerTimeoutMS != 1000 {
		t.Errorf("bad values not clamped: %+v", cfg.Expansion)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "typely.toml")

	cfg := Default()
	cfg.Expansion.BufferSize = 42
	cfg.Daemon.LogLevel = "debug"
	if err := Save(cfg, path); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Expansion.BufferSize != 42 || got.Daemon.LogLevel != "debug" {
		t.Errorf("round trip lost values: %+v", got)
	}
}

func TestEngineConfig(t *testing.T) {
	cfg := Default()
	cfg.Expansion.TriggerTimeoutMS = 1500

	ec := cfg.EngineConfig()
	if ec.TriggerTimeout != 1500*time.Millisecond {
		t.Errorf("TriggerTimeout = %v", ec.TriggerTimeout)
	}
	if ec.BufferSize != 100 || !ec.Enabled {
		t.Errorf("engine config = %+v", ec)
	}
	if len(ec.Patterns) != 3 {
		t.Errorf("patterns = %v", ec.Patterns)
	}
}

func TestWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "typely.toml")
	if err := Save(Default(), path); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	got := make(chan *Config, 1)
	w.OnChange(func(c *Config) {
		select {
		case got <- c:
		default:
		}
	})

	cfg := Default()
	cfg.Expansion.BufferSize = 77
	if err := Save(cfg, path); err != nil {
		t.Fatal(err)
	}

	select {
	case c := <-got:
		if c.Expansion.BufferSize != 77 {
			t.Errorf("reloaded BufferSize = %d, want 77", c.Expansion.BufferSize)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("reload callback never fired")
	}
}

func TestWatcherKeepsOldConfigOnMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "typely.toml")
	if err := Save(Default(), path); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	called := make(chan struct{}, 1)
	w.OnChange(func(*Config) {
		select {
		case called <- struct{}{}:
		default:
		}
	})

	if err := os.WriteFile(path, []byte("bad ["), 0600); err != nil {
		t.Fatal(err)
	}

	select {
	case <-called:
		t.Fatal("malformed file must not trigger the callback")
	case <-time.After(600 * time.Millisecond):
	}
}

func TestWatcherCloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typely.toml")
	w, err := NewWatcher(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
}
