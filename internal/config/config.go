// Package config provides reading and writing of latex-mcp configuration.
// Supports both global (~/.latex-mcp/config.yaml) and local (.latex-mcp/config.yaml).
// Reading: uses local if it exists, otherwise global.
// Writing: goes back to the file the config was read from, use --local to force local.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sepinetam/latex-mcp/internal/duration"
	"github.com/sepinetam/latex-mcp/internal/latex"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNoConfigPath is returned when the config path cannot be determined.
	ErrNoConfigPath = errors.New("cannot determine config path")
	// ErrUnknownKey is returned when getting/setting an unknown config key.
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidValue is returned when a config value is invalid.
	ErrInvalidValue = errors.New("invalid config value")
)

// Scope represents the configuration scope (global or local).
type Scope int

const (
	// ScopeGlobal is user-wide config in ~/.latex-mcp/config.yaml (default)
	ScopeGlobal Scope = iota
	// ScopeLocal is project-specific config in .latex-mcp/config.yaml
	ScopeLocal
)

// dirName is the directory holding config and the history database.
const dirName = ".latex-mcp"

// Compile holds compilation defaults applied when a request omits them.
type Compile struct {
	Compiler         string `yaml:"compiler,omitempty"`
	Mode             string `yaml:"mode,omitempty"`
	Passes           *int   `yaml:"passes,omitempty"`
	Timeout          string `yaml:"timeout,omitempty"`
	MaxLogBytes      *int   `yaml:"max_log_bytes,omitempty"`
	AllowShellEscape *bool  `yaml:"allow_shell_escape,omitempty"`
}

// Workspace holds working directory settings.
type Workspace struct {
	Dir string `yaml:"dir,omitempty"`
}

// History holds compile history settings.
type History struct {
	Enabled *bool `yaml:"enabled,omitempty"`
}

// Defaults applied when not configured.
const (
	DefaultPasses      = 2
	DefaultTimeout     = 5 * time.Minute
	DefaultMaxLogBytes = 64 * 1024
)

// Validation bounds for configuration values.
const (
	MinPasses      = 1
	MaxPasses      = 5
	MinTimeout     = time.Second
	MaxTimeout     = time.Hour
	MinMaxLogBytes = 1024
	MaxMaxLogBytes = 64 * 1024 * 1024
)

// Config contains configuration for latex-mcp.
type Config struct {
	Compile   Compile   `yaml:"compile,omitempty"`
	Workspace Workspace `yaml:"workspace,omitempty"`
	History   History   `yaml:"history,omitempty"`

	// path is the file this config was loaded from (for Save)
	path  string
	scope Scope
}

// Validate checks that all configured values are within acceptable bounds.
// Returns nil if all values are valid or not set (defaults will be used).
func (c *Config) Validate() error {
	if c.Compile.Compiler != "" {
		if _, err := latex.ParseCompiler(c.Compile.Compiler); err != nil {
			return fmt.Errorf("%w: compile.compiler: %w", ErrInvalidValue, err)
		}
	}
	if c.Compile.Mode != "" {
		if _, err := latex.ParseMode(c.Compile.Mode); err != nil {
			return fmt.Errorf("%w: compile.mode: %w", ErrInvalidValue, err)
		}
	}
	if c.Compile.Passes != nil {
		v := *c.Compile.Passes
		if v < MinPasses || v > MaxPasses {
			return fmt.Errorf("%w: compile.passes must be between %d and %d, got %d",
				ErrInvalidValue, MinPasses, MaxPasses, v)
		}
	}
	if c.Compile.Timeout != "" {
		d, err := duration.Parse(c.Compile.Timeout)
		if err != nil {
			return fmt.Errorf("%w: compile.timeout: %w", ErrInvalidValue, err)
		}
		if d < MinTimeout || d > MaxTimeout {
			return fmt.Errorf("%w: compile.timeout must be between %s and %s, got %s",
				ErrInvalidValue, MinTimeout, MaxTimeout, d)
		}
	}
	if c.Compile.MaxLogBytes != nil {
		v := *c.Compile.MaxLogBytes
		if v < MinMaxLogBytes || v > MaxMaxLogBytes {
			return fmt.Errorf("%w: compile.max_log_bytes must be between %d and %d, got %d",
				ErrInvalidValue, MinMaxLogBytes, MaxMaxLogBytes, v)
		}
	}
	return nil
}

// Compiler returns the default engine (defaults to pdflatex).
func (c *Config) Compiler() latex.Compiler {
	if v, err := latex.ParseCompiler(c.Compile.Compiler); err == nil {
		return v
	}
	return latex.PDFLaTeX
}

// Mode returns the default compilation mode (defaults to auto).
func (c *Config) Mode() latex.Mode {
	if v, err := latex.ParseMode(c.Compile.Mode); err == nil {
		return v
	}
	return latex.ModeAuto
}

// Passes returns the default number of manual passes (defaults to 2).
func (c *Config) Passes() int {
	if c.Compile.Passes == nil {
		return DefaultPasses
	}
	return *c.Compile.Passes
}

// Timeout returns the wall-clock limit for one compilation (defaults to 5m).
func (c *Config) Timeout() time.Duration {
	if c.Compile.Timeout == "" {
		return DefaultTimeout
	}
	d, err := duration.Parse(c.Compile.Timeout)
	if err != nil {
		return DefaultTimeout
	}
	return d
}

// MaxLogBytes returns how much compiler output is returned to the caller.
// The tail is kept since TeX reports the fatal error last.
func (c *Config) MaxLogBytes() int {
	if c.Compile.MaxLogBytes == nil {
		return DefaultMaxLogBytes
	}
	return *c.Compile.MaxLogBytes
}

// AllowShellEscape reports whether -shell-escape may be passed through
// (defaults to false).
func (c *Config) AllowShellEscape() bool {
	if c.Compile.AllowShellEscape == nil {
		return false
	}
	return *c.Compile.AllowShellEscape
}

// WorkspaceDir returns the configured default working directory, or "" to
// use the process working directory.
func (c *Config) WorkspaceDir() string {
	return c.Workspace.Dir
}

// HistoryEnabled reports whether compilations are recorded (defaults to true).
func (c *Config) HistoryEnabled() bool {
	if c.History.Enabled == nil {
		return true
	}
	return *c.History.Enabled
}

// LocalPath returns the path to the local (project) config file.
func LocalPath() string {
	return filepath.Join(dirName, "config.yaml")
}

// GlobalPath returns the path to the global (user) config file: ~/.latex-mcp/config.yaml
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, dirName, "config.yaml")
}

// Load reads configuration: uses local if it exists, otherwise global.
func Load() (*Config, error) {
	if _, err := os.Stat(LocalPath()); err == nil {
		return LoadScope(ScopeLocal)
	}
	return LoadScope(ScopeGlobal)
}

// LoadScope reads configuration from a specific scope.
func LoadScope(scope Scope) (*Config, error) {
	path := pathForScope(scope)
	if path == "" {
		return &Config{scope: scope}, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{path: path, scope: scope}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w\n\nTo fix: edit the file to correct the YAML syntax, or delete it to use defaults", path, err)
	}
	cfg.path = path
	cfg.scope = scope

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Scope returns which scope this config was loaded from.
func (c *Config) Scope() Scope {
	return c.scope
}

// Save writes the configuration to its original location.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = pathForScope(c.scope)
	}
	if c.path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(c.path)
}

// saveToPath writes configuration to a specific filesystem path.
// Creates parent directories as needed with mode 0755.
func (c *Config) saveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func pathForScope(scope Scope) string {
	switch scope {
	case ScopeLocal:
		return LocalPath()
	case ScopeGlobal:
		return GlobalPath()
	default:
		return ""
	}
}
