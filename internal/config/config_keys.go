// config_keys.go provides key-value access to configuration settings.
//
// Separated from config.go to isolate the key enumeration and string-based
// get/set logic used by the CLI and the latex_config_* MCP tools, where
// config is addressed by dotted keys (e.g., "compile.timeout").
//
// Pointers are used for optional fields so "not set" (nil) is distinguishable
// from "explicitly set to zero/false"; defaults apply only to nil.

package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/sepinetam/latex-mcp/internal/duration"
	"github.com/sepinetam/latex-mcp/internal/latex"
)

// ValidKeys returns all valid configuration keys.
func ValidKeys() []string {
	return []string{
		"compile.compiler", "compile.mode", "compile.passes", "compile.timeout",
		"compile.max_log_bytes", "compile.allow_shell_escape",
		"workspace.dir",
		"history.enabled",
	}
}

// IsValidKey returns true if the key is a valid configuration key.
func IsValidKey(key string) bool {
	return slices.Contains(ValidKeys(), key)
}

// Get returns the value of a configuration key as a string.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "compile.compiler":
		return string(c.Compiler()), nil
	case "compile.mode":
		return string(c.Mode()), nil
	case "compile.passes":
		return strconv.Itoa(c.Passes()), nil
	case "compile.timeout":
		return c.Timeout().String(), nil
	case "compile.max_log_bytes":
		return strconv.Itoa(c.MaxLogBytes()), nil
	case "compile.allow_shell_escape":
		return strconv.FormatBool(c.AllowShellEscape()), nil
	case "workspace.dir":
		return c.WorkspaceDir(), nil
	case "history.enabled":
		return strconv.FormatBool(c.HistoryEnabled()), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set sets the value of a configuration key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "compile.compiler":
		v, err := latex.ParseCompiler(value)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}
		c.Compile.Compiler = string(v)
	case "compile.mode":
		v, err := latex.ParseMode(value)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}
		c.Compile.Mode = string(v)
	case "compile.passes":
		n, err := strconv.Atoi(value)
		if err != nil || n < MinPasses || n > MaxPasses {
			return fmt.Errorf("%w: compile.passes must be an integer between %d and %d", ErrInvalidValue, MinPasses, MaxPasses)
		}
		c.Compile.Passes = &n
	case "compile.timeout":
		d, err := duration.Parse(value)
		if err != nil || d < MinTimeout || d > MaxTimeout {
			return fmt.Errorf("%w: compile.timeout must be a duration between %s and %s", ErrInvalidValue, MinTimeout, MaxTimeout)
		}
		c.Compile.Timeout = value
	case "compile.max_log_bytes":
		n, err := strconv.Atoi(value)
		if err != nil || n < MinMaxLogBytes || n > MaxMaxLogBytes {
			return fmt.Errorf("%w: compile.max_log_bytes must be an integer between %d and %d", ErrInvalidValue, MinMaxLogBytes, MaxMaxLogBytes)
		}
		c.Compile.MaxLogBytes = &n
	case "compile.allow_shell_escape":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		c.Compile.AllowShellEscape = &b
	case "workspace.dir":
		c.Workspace.Dir = value
	case "history.enabled":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		c.History.Enabled = &b
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// All returns all configuration values as a map.
func (c *Config) All() map[string]string {
	all := make(map[string]string, len(ValidKeys()))
	for _, k := range ValidKeys() {
		v, _ := c.Get(k)
		all[k] = v
	}
	return all
}

// IsSet returns true if the key has an explicit value (not just defaults).
func (c *Config) IsSet(key string) bool {
	switch key {
	case "compile.compiler":
		return c.Compile.Compiler != ""
	case "compile.mode":
		return c.Compile.Mode != ""
	case "compile.passes":
		return c.Compile.Passes != nil
	case "compile.timeout":
		return c.Compile.Timeout != ""
	case "compile.max_log_bytes":
		return c.Compile.MaxLogBytes != nil
	case "compile.allow_shell_escape":
		return c.Compile.AllowShellEscape != nil
	case "workspace.dir":
		return c.Workspace.Dir != ""
	case "history.enabled":
		return c.History.Enabled != nil
	default:
		return false
	}
}

func parseBool(key, value string) (bool, error) {
	switch strings.ToLower(value) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("%w: %s must be true or false", ErrInvalidValue, key)
}
