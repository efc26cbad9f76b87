package validate

import (
	"fmt"
	"strings"
)

// MinPasses and MaxPasses bound manual-mode compile_times.
const (
	MinPasses = 1
	MaxPasses = 5
)

// shellEscapeMarkers enable \write18 and therefore arbitrary command
// execution. They are matched anywhere in an option, so values such as
// -cnf-line=shell_escape=t are caught too.
var shellEscapeMarkers = []string{"shell-escape", "shell_escape", "enable-write18"}

// commandFlags let latexmk or the engine run a command or code of the
// caller's choosing. They are refused even when shell escape is allowed.
var commandFlags = map[string]bool{
	"e":           true,
	"r":           true,
	"latex":       true,
	"pdflatex":    true,
	"xelatex":     true,
	"lualatex":    true,
	"latexoption": true,
	"pretex":      true,
	"usepretex":   true,
	"cnf-line":    true,
}

// TexFile validates the main document name before path resolution.
func TexFile(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidTexFile)
	}
	if strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: null byte in name", ErrInvalidTexFile)
	}
	return nil
}

// Passes validates the number of manual compilation passes.
func Passes(n int) error {
	if n < MinPasses || n > MaxPasses {
		return fmt.Errorf("%w: must be between %d and %d, got %d", ErrInvalidPasses, MinPasses, MaxPasses, n)
	}
	return nil
}

// Options validates extra arguments passed through to the compiler.
// Each must be a flag (leading "-"); a bare word would be taken as another
// input file.
func Options(opts []string, allowShellEscape bool) error {
	for _, o := range opts {
		if strings.ContainsRune(o, 0) {
			return fmt.Errorf("%w: null byte in %q", ErrInvalidOption, o)
		}
		if !strings.HasPrefix(o, "-") {
			return fmt.Errorf("%w: %q is not a flag", ErrInvalidOption, o)
		}
		if isCommandFlag(o) {
			return fmt.Errorf("%w: %q runs a command of its own", ErrInvalidOption, o)
		}
		if !allowShellEscape && isShellEscape(o) {
			return fmt.Errorf("%w: %q (set compile.allow_shell_escape to permit it)", ErrShellEscape, o)
		}
	}
	return nil
}

// flagName returns the lower-cased option name without dashes or value.
func flagName(o string) string {
	name := strings.ToLower(strings.TrimLeft(o, "-"))
	if i := strings.IndexAny(name, "= \t"); i >= 0 {
		name = name[:i]
	}
	return name
}

// isCommandFlag reports a command override. -pdflatex alone only selects
// the engine; -pdflatex=<cmd> replaces it.
func isCommandFlag(o string) bool {
	name := flagName(o)
	if !commandFlags[name] {
		return false
	}
	switch name {
	case "latex", "pdflatex", "xelatex", "lualatex":
		return strings.ContainsAny(strings.TrimLeft(o, "-"), "= \t")
	}
	return true
}

func isShellEscape(o string) bool {
	lower := strings.ToLower(o)
	if strings.TrimLeft(lower, "-") == "no-shell-escape" {
		return false
	}
	for _, m := range shellEscapeMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
