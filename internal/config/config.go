// Package config loads, saves and live-reloads the TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/typely/typely/internal/engine"
	"github.com/typely/typely/internal/trigger"
)

// ErrInvalidConfig reports a configuration file that parsed but holds
// unusable values.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the on-disk configuration, one struct per TOML section.
type Config struct {
	Expansion ExpansionConfig `toml:"expansion"`
	Triggers  TriggersConfig  `toml:"triggers"`
	Daemon    DaemonConfig    `toml:"daemon"`
	Script    ScriptConfig    `toml:"script"`
}

// ExpansionConfig tunes the engine.
type ExpansionConfig struct {
	BufferSize       int  `toml:"buffer_size"`
	TriggerTimeoutMS int  `toml:"trigger_timeout_ms"`
	ExpansionDelayMS int  `toml:"expansion_delay_ms"`
	Enabled          bool `toml:"enabled"`
	CaseSensitive    bool `toml:"case_sensitive"`
}

// TriggersConfig lists the recognized trigger markers.
type TriggersConfig struct {
	Patterns []PatternConfig `toml:"patterns"`
}

// PatternConfig is one trigger marker and its switch.
type PatternConfig struct {
	Marker  string `toml:"marker"`
	Enabled bool   `toml:"enabled"`
}

// DaemonConfig covers logging and storage paths.
type DaemonConfig struct {
	LogLevel     string `toml:"log_level"`
	DatabasePath string `toml:"database_path"`
}

// ScriptConfig tunes Lua snippet evaluation.
type ScriptConfig struct {
	Enabled   bool `toml:"enabled"`
	TimeoutMS int  `toml:"timeout_ms"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	patterns := make([]PatternConfig, 0, 3)
	for _, p := range trigger.DefaultPatterns() {
		patterns = append(patterns, PatternConfig{Marker: p.Marker, Enabled: p.Enabled})
	}

	return &Config{
		Expansion: ExpansionConfig{
			BufferSize:       100,
			TriggerTimeoutMS: 1000,
			ExpansionDelayMS: 50,
			Enabled:          true,
			CaseSensitive:    true,
		},
		Triggers: TriggersConfig{Patterns: patterns},
		Daemon: DaemonConfig{
			LogLevel: "info",
		},
		Script: ScriptConfig{
			Enabled:   true,
			TimeoutMS: 2000,
		},
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "typely", "typely.toml")
}

// DefaultDBPath returns the standard database location.
func DefaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "typely", "typely.db")
}

// Load reads the configuration at path. A missing file yields the
// defaults, not an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	cfg.normalize()
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// normalize clamps out-of-range values back to the defaults instead of
// failing the load.
func (c *Config) normalize() {
	def := Default()
	if c.Expansion.BufferSize <= 0 {
		c.Expansion.BufferSize = def.Expansion.BufferSize
	}
	if c.Expansion.TriggerTimeoutMS <= 0 {
		c.Expansion.TriggerTimeoutMS = def.Expansion.TriggerTimeoutMS
	}
	if c.Expansion.ExpansionDelayMS < 0 {
		c.Expansion.ExpansionDelayMS = def.Expansion.ExpansionDelayMS
	}
	if c.Script.TimeoutMS <= 0 {
		c.Script.TimeoutMS = def.Script.TimeoutMS
	}
	if len(c.Triggers.Patterns) == 0 {
		c.Triggers.Patterns = def.Triggers.Patterns
	}
}

// Patterns converts the configured markers for the matcher. Patterns
// with an empty marker are dropped.
func (c *Config) Patterns() []trigger.Pattern {
	out := make([]trigger.Pattern, 0, len(c.Triggers.Patterns))
	for _, p := range c.Triggers.Patterns {
		if p.Marker == "" {
			continue
		}
		out = append(out, trigger.Pattern{Marker: p.Marker, Enabled: p.Enabled})
	}
	return out
}

// EngineConfig converts the expansion section for the engine.
func (c *Config) EngineConfig() engine.Config {
	return engine.Config{
		BufferSize:     c.Expansion.BufferSize,
		TriggerTimeout: time.Duration(c.Expansion.TriggerTimeoutMS) * time.Millisecond,
		ExpansionDelay: time.Duration(c.Expansion.ExpansionDelayMS) * time.Millisecond,
		Enabled:        c.Expansion.Enabled,
		CaseSensitive:  c.Expansion.CaseSensitive,
		Patterns:       c.Patterns(),
	}
}

// ScriptTimeout returns the Lua evaluation time limit.
func (c *Config) ScriptTimeout() time.Duration {
	return time.Duration(c.Script.TimeoutMS) * time.Millisecond
}
