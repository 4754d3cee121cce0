// Package app wires the daemon together: configuration, storage,
// resolver, input and the expansion engine.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/typely/typely/internal/config"
	"github.com/typely/typely/internal/engine"
	"github.com/typely/typely/internal/input/actuator"
	"github.com/typely/typely/internal/input/source"
	"github.com/typely/typely/internal/logging"
	"github.com/typely/typely/internal/snippet"
	"github.com/typely/typely/internal/snippet/script"
	"github.com/typely/typely/internal/store"
)

// Options selects paths and the input backend for a daemon instance.
type Options struct {
	// ConfigPath overrides the config file location.
	ConfigPath string
	// DBPath overrides the database location.
	DBPath string
	// LogLevel overrides the configured log level when non-empty.
	LogLevel string

	// Terminal runs against a tcell screen and echoes expansions to
	// Echo instead of hooking the OS keyboard. Useful for trying the
	// engine without hook permissions.
	Terminal bool
	// Echo receives typed-out text in terminal mode. Defaults to
	// stdout.
	Echo io.Writer
}

// App owns the daemon's components and their lifecycles.
type App struct {
	log      *logging.Logger
	cfg      *config.Config
	cfgPath  string
	store    *store.Store
	resolver *snippet.Resolver
	engine   *engine.Engine
	watcher  *config.Watcher

	mu     sync.Mutex
	closed bool
}

// New builds a fully wired but not yet running App.
func New(opts Options) (*App, error) {
	cfgPath := opts.ConfigPath
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	log := logging.New(logging.DefaultConfig())
	level := cfg.Daemon.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	log.SetLevel(logging.ParseLevel(level))

	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = cfg.Daemon.DatabasePath
	}
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open snippet store: %w", err)
	}

	var scripts snippet.ScriptEvaluator
	if cfg.Script.Enabled {
		scripts = script.NewEvaluator(cfg.ScriptTimeout(), log)
	}
	resolver := snippet.NewResolver(st, scripts, cfg.Expansion.CaseSensitive, log)

	src, act, err := buildInput(opts)
	if err != nil {
		st.Close()
		return nil, err
	}

	eng := engine.New(src, act, resolver, cfg.EngineConfig(), log)

	return &App{
		log:      log,
		cfg:      cfg,
		cfgPath:  cfgPath,
		store:    st,
		resolver: resolver,
		engine:   eng,
	}, nil
}

func buildInput(opts Options) (source.Source, actuator.Actuator, error) {
	if opts.Terminal {
		term, err := source.NewTerminal()
		if err != nil {
			return nil, nil, fmt.Errorf("terminal input: %w", err)
		}
		echo := opts.Echo
		if echo == nil {
			echo = os.Stdout
		}
		return term, actuator.NewWriter(echo), nil
	}
	return source.NewHook(), actuator.NewSystem(actuator.DefaultKeyDelay), nil
}

// Run starts the engine and the config watcher and blocks until ctx is
// done. Shutdown always runs before Run returns.
func (a *App) Run(ctx context.Context) error {
	defer a.Shutdown()

	if err := a.engine.Start(); err != nil {
		return err
	}
	a.log.Info("typely started, watching for triggers")

	w, err := config.NewWatcher(a.cfgPath, a.log)
	if err != nil {
		// Live reload is a convenience; run without it.
		a.log.Warn("config watch unavailable: %v", err)
	} else {
		// Shutdown reads a.watcher from other goroutines.
		a.mu.Lock()
		a.watcher = w
		a.mu.Unlock()
		w.OnChange(a.applyConfig)
	}

	<-ctx.Done()
	return nil
}

// applyConfig pushes a reloaded configuration into the running
// components.
func (a *App) applyConfig(cfg *config.Config) {
	a.mu.Lock()
	a.cfg = cfg
	a.mu.Unlock()

	a.log.SetLevel(logging.ParseLevel(cfg.Daemon.LogLevel))
	a.resolver.SetCaseSensitive(cfg.Expansion.CaseSensitive)
	a.engine.UpdateConfig(cfg.EngineConfig())
	a.log.Info("applied configuration update")
}

// Shutdown stops everything. Safe to call more than once.
func (a *App) Shutdown() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	w := a.watcher
	a.mu.Unlock()

	a.engine.Stop()
	if w != nil {
		w.Close()
	}
	if err := a.store.Close(); err != nil {
		a.log.Warn("closing store: %v", err)
	}
	a.log.Info("typely stopped")
}

// Engine exposes the running engine, mainly for status reporting.
func (a *App) Engine() *engine.Engine {
	return a.engine
}
