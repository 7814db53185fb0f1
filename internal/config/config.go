// Package config loads the dashboard configuration file. Parsing is
// deliberately forgiving: a missing file yields the default dashboard,
// and per-panel fields fall back to sensible values.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/neochoon/agenthud/internal/util"
)

// Panel provider types.
const (
	TypeAssistant = "assistant"
	TypeGit       = "git"
	TypeTests     = "tests"
	TypeProject   = "project"
	TypeCustom    = "custom"
)

// Duration decodes either a Go duration string ("5s", "1m30s") or a
// bare number of milliseconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		dur, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(dur)
		return nil
	}
	var ms int64
	if err := value.Decode(&ms); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}
	return fmt.Errorf("duration must be a string or milliseconds")
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the root of agenthud.yaml.
type Config struct {
	// Width is the rendered dashboard width in columns. 0 means use
	// the terminal width.
	Width int `yaml:"width"`

	// SessionDir holds the agent session logs for this project.
	SessionDir string `yaml:"session_dir"`

	// SessionTimeout is how recently a log must have been written to
	// count as the active session.
	SessionTimeout Duration `yaml:"session_timeout"`

	// MaxActivities bounds the assistant panel's feed length.
	MaxActivities int `yaml:"max_activities"`

	Panels []Panel `yaml:"panels"`
}

// Panel configures one dashboard panel.
type Panel struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Enabled *bool  `yaml:"enabled"`

	// Interval is the automatic refresh cadence. Nil means the panel
	// refreshes only on its hotkey or a global refresh.
	Interval *Duration `yaml:"interval"`

	// Command is the shell command for tests and custom panels.
	Command string `yaml:"command"`

	// Dir overrides the working directory for exec-backed panels.
	Dir string `yaml:"dir"`

	// Limit caps list output (git log entries, command output lines).
	Limit int `yaml:"limit"`
}

// IsEnabled reports whether the panel should run; panels are enabled
// unless explicitly disabled.
func (p Panel) IsEnabled() bool {
	return p.Enabled == nil || *p.Enabled
}

// IsManual reports whether the panel refreshes only by hotkey.
func (p Panel) IsManual() bool {
	return p.Interval == nil
}

func interval(d time.Duration) *Duration {
	v := Duration(d)
	return &v
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		SessionDir:     "~/.claude/projects",
		SessionTimeout: Duration(5 * time.Minute),
		MaxActivities:  10,
		Panels: []Panel{
			{Name: "claude", Type: TypeAssistant, Interval: interval(5 * time.Second)},
			{Name: "git", Type: TypeGit, Interval: interval(30 * time.Second), Limit: 8},
			{Name: "tests", Type: TypeTests, Command: "go test ./..."},
			{Name: "project", Type: TypeProject, Interval: interval(time.Minute)},
		},
	}
}

// Load reads path, layering it over the defaults. A missing file is not
// an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			util.LogDebugf("no config at %s, using defaults", path)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.SessionTimeout <= 0 {
		c.SessionTimeout = Duration(5 * time.Minute)
	}
	if c.MaxActivities <= 0 {
		c.MaxActivities = 10
	}
	seen := make(map[string]bool)
	for i, p := range c.Panels {
		if p.Name == "" {
			return fmt.Errorf("panel %d has no name", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate panel name %q", p.Name)
		}
		seen[p.Name] = true
		switch p.Type {
		case TypeAssistant, TypeGit, TypeTests, TypeProject, TypeCustom:
		default:
			return fmt.Errorf("panel %q has unknown type %q", p.Name, p.Type)
		}
		if p.Interval != nil && p.Interval.Std() < time.Second {
			return fmt.Errorf("panel %q interval must be at least 1s", p.Name)
		}
		if (p.Type == TypeTests || p.Type == TypeCustom) && p.Command == "" {
			return fmt.Errorf("panel %q needs a command", p.Name)
		}
	}
	return nil
}
