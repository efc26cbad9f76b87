// Package toolchain locates the TeX engines and helper programs installed
// in the container and builds their command lines.
//
// Lookups hit PATH once per Toolchain and are cached: the container image
// is immutable, so an executable that is missing at startup stays missing.
package toolchain

import (
	"errors"
	"fmt"
	"os/exec"
	"sync"

	"github.com/sepinetam/latex-mcp/internal/latex"
)

// ErrToolNotFound is returned when a required executable is not on PATH.
var ErrToolNotFound = errors.New("not found")

// Helper program names.
const (
	BibTeX         = "bibtex"
	Biber          = "biber"
	MakeIndex      = "makeindex"
	MakeGlossaries = "makeglossaries"
	Latexmk        = "latexmk"
)

// auxCommands lists helper programs in display order.
var auxCommands = []string{BibTeX, Biber, MakeIndex, MakeGlossaries, Latexmk}

// engineFlags are passed to every engine invocation, directly or via latexmk.
// nonstopmode keeps TeX from waiting on stdin; file-line-error gives
// "file:line: message" diagnostics the classifier can locate.
var engineFlags = []string{"-interaction=nonstopmode", "-halt-on-error", "-file-line-error"}

// LookPathFunc resolves a program name to an executable path.
type LookPathFunc func(name string) (string, error)

// Toolchain caches executable locations.
type Toolchain struct {
	lookPath LookPathFunc

	once      sync.Once
	compilers map[latex.Compiler]string
	aux       map[string]string
}

// Inventory describes what is installed, in the shape returned to agents.
type Inventory struct {
	Compilers        []string `json:"compilers"`
	AuxCommands      []string `json:"aux_commands"`
	LatexmkAvailable bool     `json:"latexmk_available"`
}

// New returns a Toolchain that searches PATH.
func New() *Toolchain {
	return NewWithLookPath(exec.LookPath)
}

// NewWithLookPath returns a Toolchain using a custom resolver.
func NewWithLookPath(fn LookPathFunc) *Toolchain {
	return &Toolchain{lookPath: fn}
}

func (t *Toolchain) discover() {
	t.once.Do(func() {
		t.compilers = make(map[latex.Compiler]string)
		for _, c := range latex.Compilers() {
			if p, err := t.lookPath(string(c)); err == nil {
				t.compilers[c] = p
			}
		}
		t.aux = make(map[string]string)
		for _, name := range auxCommands {
			if p, err := t.lookPath(name); err == nil {
				t.aux[name] = p
			}
		}
	})
}

// CompilerPath returns the executable for an engine.
func (t *Toolchain) CompilerPath(c latex.Compiler) (string, bool) {
	t.discover()
	p, ok := t.compilers[c]
	return p, ok
}

// AuxPath returns the executable for a helper program.
func (t *Toolchain) AuxPath(name string) (string, bool) {
	t.discover()
	p, ok := t.aux[name]
	return p, ok
}

// Inventory lists the available engines and helpers.
func (t *Toolchain) Inventory() Inventory {
	t.discover()
	inv := Inventory{
		Compilers:   []string{},
		AuxCommands: []string{},
	}
	for _, c := range latex.Compilers() {
		if _, ok := t.compilers[c]; ok {
			inv.Compilers = append(inv.Compilers, string(c))
		}
	}
	for _, name := range auxCommands {
		if _, ok := t.aux[name]; ok {
			inv.AuxCommands = append(inv.AuxCommands, name)
		}
	}
	_, inv.LatexmkAvailable = t.aux[Latexmk]
	return inv
}

// CompileCommand builds a direct engine invocation for manual mode.
func (t *Toolchain) CompileCommand(c latex.Compiler, texFile string, options []string) ([]string, error) {
	p, ok := t.CompilerPath(c)
	if !ok {
		return nil, fmt.Errorf("compiler %s %w", c, ErrToolNotFound)
	}
	argv := make([]string, 0, 1+len(engineFlags)+len(options)+1)
	argv = append(argv, p)
	argv = append(argv, engineFlags...)
	argv = append(argv, options...)
	return append(argv, texFile), nil
}

// LatexmkCommand builds a latexmk invocation selecting the given engine.
func (t *Toolchain) LatexmkCommand(c latex.Compiler, texFile string, options []string) ([]string, error) {
	p, ok := t.AuxPath(Latexmk)
	if !ok {
		return nil, fmt.Errorf("%s %w", Latexmk, ErrToolNotFound)
	}
	argv := make([]string, 0, 2+len(engineFlags)+len(options)+1)
	argv = append(argv, p, c.LatexmkFlag())
	argv = append(argv, engineFlags...)
	argv = append(argv, options...)
	return append(argv, texFile), nil
}

// BibCommand builds a bibliography pass over the job's .aux (bibtex) or
// .bcf (biber) file, both addressed by the job stem.
func (t *Toolchain) BibCommand(tool latex.BibTool, stem string) ([]string, error) {
	p, ok := t.AuxPath(string(tool))
	if !ok {
		return nil, fmt.Errorf("%s %w", tool, ErrToolNotFound)
	}
	return []string{p, stem}, nil
}
