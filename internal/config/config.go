// Package config loads cco settings from the user config file and the
// environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gobwas/glob"
)

// Sinks accepted for DefaultSink.
const (
	SinkClipboard = "clipboard"
	SinkPrint     = "print"
)

// Config holds all configurable cco settings.
type Config struct {
	CacheDir       string   `json:"cache_dir"`        // overrides <user cache>/cco
	MaxOutputBytes *int     `json:"max_output_bytes"` // tail kept per capture; 0 keeps everything
	DefaultSink    string   `json:"default_sink"`     // "clipboard" | "print"
	IgnoreCommands []string `json:"ignore_commands"`  // globs matched against the command line; [] captures all
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		MaxOutputBytes: intPtr(1 << 20),
		DefaultSink:    SinkClipboard,
		IgnoreCommands: []string{"cco", "cco *", "*/cco", "*/cco *"},
	}
}

// Path returns $XDG_CONFIG_HOME/cco/config.json, defaulting to ~/.config.
func Path() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "cco", "config.json"), nil
}

// LoadGlobal reads the user config file. Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			d := Defaults()
			return &d, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// LoadEnv reads CCO_* overrides. Returns nil (no error) when none are set.
func LoadEnv() (*Config, error) {
	var cfg Config
	set := false

	if v := os.Getenv("CCO_CACHE_DIR"); v != "" {
		cfg.CacheDir, set = v, true
	}
	if v := os.Getenv("CCO_MAX_OUTPUT_BYTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, &ParseError{Path: "$CCO_MAX_OUTPUT_BYTES", Err: fmt.Errorf("invalid byte count %q", v)}
		}
		cfg.MaxOutputBytes, set = &n, true
	}
	if v := os.Getenv("CCO_DEFAULT_SINK"); v != "" {
		cfg.DefaultSink, set = v, true
	}
	if v := os.Getenv("CCO_IGNORE_COMMANDS"); v != "" {
		// "," alone clears the list.
		cfg.IgnoreCommands = []string{}
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.IgnoreCommands = append(cfg.IgnoreCommands, p)
			}
		}
		set = true
	}

	if !set {
		return nil, nil
	}
	return &cfg, nil
}

// Merge combines the file and environment configs, with the environment
// taking precedence. Missing keys fall back to the file, then defaults. A
// zero byte limit or an empty ignore list is an explicit setting and wins.
func Merge(global, env *Config) Config {
	result := Defaults()
	for _, c := range []*Config{global, env} {
		if c == nil {
			continue
		}
		if c.CacheDir != "" {
			result.CacheDir = c.CacheDir
		}
		if c.MaxOutputBytes != nil {
			result.MaxOutputBytes = intPtr(*c.MaxOutputBytes)
		}
		if c.DefaultSink != "" {
			result.DefaultSink = c.DefaultSink
		}
		if c.IgnoreCommands != nil {
			result.IgnoreCommands = c.IgnoreCommands
		}
	}
	return result
}

// Validate checks enumerations and patterns.
func (c Config) Validate() error {
	switch c.DefaultSink {
	case SinkClipboard, SinkPrint:
	default:
		return fmt.Errorf("default_sink must be %q or %q, got %q", SinkClipboard, SinkPrint, c.DefaultSink)
	}
	if c.MaxOutputBytes != nil && *c.MaxOutputBytes < 0 {
		return fmt.Errorf("max_output_bytes must not be negative, got %d", *c.MaxOutputBytes)
	}
	_, err := c.IgnoreMatcher()
	return err
}

// OutputLimit returns the number of trailing output bytes kept per capture.
// Zero means no limit.
func (c Config) OutputLimit() int {
	if c.MaxOutputBytes == nil {
		return 0
	}
	return *c.MaxOutputBytes
}

func intPtr(n int) *int { return &n }

// Matcher reports whether a command line should not be captured.
type Matcher struct {
	globs []glob.Glob
}

// IgnoreMatcher compiles IgnoreCommands.
func (c Config) IgnoreMatcher() (*Matcher, error) {
	m := &Matcher{}
	for _, p := range c.IgnoreCommands {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore_commands pattern %q: %w", p, err)
		}
		m.globs = append(m.globs, g)
	}
	return m, nil
}

// Match reports whether command matches any pattern. Surrounding
// whitespace is ignored.
func (m *Matcher) Match(command string) bool {
	command = strings.TrimSpace(command)
	for _, g := range m.globs {
		if g.Match(command) {
			return true
		}
	}
	return false
}

// ParseError is returned when a config source exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
