// Package latex defines the vocabulary shared by every layer that talks
// about a compilation: which engine runs, how passes are driven, and which
// tool processes the bibliography. Values arrive as strings from MCP and
// the CLI and are parsed here so invalid input is rejected in one place.
package latex

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidCompiler is returned for compiler names outside Compilers().
	ErrInvalidCompiler = errors.New("invalid compiler")
	// ErrInvalidMode is returned for modes other than auto and manual.
	ErrInvalidMode = errors.New("invalid mode")
	// ErrInvalidBibTool is returned for bibliography tools other than bibtex and biber.
	ErrInvalidBibTool = errors.New("invalid bibliography tool")
)

// Compiler is a TeX engine producing PDF output.
type Compiler string

const (
	PDFLaTeX Compiler = "pdflatex"
	XeLaTeX  Compiler = "xelatex"
	LuaLaTeX Compiler = "lualatex"
)

// Compilers returns the supported engines in preference order.
func Compilers() []Compiler {
	return []Compiler{PDFLaTeX, XeLaTeX, LuaLaTeX}
}

// ParseCompiler converts a user-supplied name into a Compiler.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseCompiler(s string) (Compiler, error) {
	v := Compiler(strings.ToLower(strings.TrimSpace(s)))
	for _, c := range Compilers() {
		if v == c {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w %q (valid: pdflatex, xelatex, lualatex)", ErrInvalidCompiler, s)
}

// LatexmkFlag returns the latexmk switch selecting this engine.
func (c Compiler) LatexmkFlag() string {
	switch c {
	case XeLaTeX:
		return "-xelatex"
	case LuaLaTeX:
		return "-lualatex"
	default:
		return "-pdf"
	}
}

// Mode selects who drives the compilation passes.
type Mode string

const (
	// ModeAuto hands the whole build to latexmk.
	ModeAuto Mode = "auto"
	// ModeManual runs the engine a fixed number of times.
	ModeManual Mode = "manual"
)

// ParseMode converts a user-supplied mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeAuto:
		return ModeAuto, nil
	case ModeManual:
		return ModeManual, nil
	}
	return "", fmt.Errorf("%w %q (valid: auto, manual)", ErrInvalidMode, s)
}

// BibTool processes bibliography databases between engine passes.
type BibTool string

const (
	BibTeX BibTool = "bibtex"
	Biber  BibTool = "biber"
)

// ParseBibTool converts a user-supplied name into a BibTool.
// An empty string selects bibtex.
func ParseBibTool(s string) (BibTool, error) {
	switch BibTool(strings.ToLower(strings.TrimSpace(s))) {
	case "", BibTeX:
		return BibTeX, nil
	case Biber:
		return Biber, nil
	}
	return "", fmt.Errorf("%w %q (valid: bibtex, biber)", ErrInvalidBibTool, s)
}
