package toolchain

import (
	"errors"
	"testing"

	"github.com/sepinetam/latex-mcp/internal/latex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLookPath resolves only the named programs, to /opt/tex/<name>.
func fakeLookPath(installed ...string) (LookPathFunc, *int) {
	calls := 0
	set := make(map[string]bool, len(installed))
	for _, n := range installed {
		set[n] = true
	}
	return func(name string) (string, error) {
		calls++
		if set[name] {
			return "/opt/tex/" + name, nil
		}
		return "", errors.New("executable file not found in $PATH")
	}, &calls
}

func TestInventory(t *testing.T) {
	fn, _ := fakeLookPath("xelatex", "pdflatex", "bibtex", "latexmk")
	tc := NewWithLookPath(fn)

	inv := tc.Inventory()
	assert.Equal(t, []string{"pdflatex", "xelatex"}, inv.Compilers)
	assert.Equal(t, []string{"bibtex", "latexmk"}, inv.AuxCommands)
	assert.True(t, inv.LatexmkAvailable)
}

func TestInventory_Empty(t *testing.T) {
	fn, _ := fakeLookPath()
	inv := NewWithLookPath(fn).Inventory()

	assert.NotNil(t, inv.Compilers)
	assert.Empty(t, inv.Compilers)
	assert.NotNil(t, inv.AuxCommands)
	assert.False(t, inv.LatexmkAvailable)
}

func TestDiscoveryIsCached(t *testing.T) {
	fn, calls := fakeLookPath("pdflatex")
	tc := NewWithLookPath(fn)

	tc.Inventory()
	first := *calls
	tc.Inventory()
	tc.CompilerPath(latex.PDFLaTeX)
	tc.AuxPath(Latexmk)

	assert.Equal(t, first, *calls)
	assert.Equal(t, len(latex.Compilers())+len(auxCommands), first)
}

func TestCompileCommand(t *testing.T) {
	fn, _ := fakeLookPath("pdflatex")
	tc := NewWithLookPath(fn)

	argv, err := tc.CompileCommand(latex.PDFLaTeX, "main.tex", []string{"-synctex=1"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/opt/tex/pdflatex",
		"-interaction=nonstopmode", "-halt-on-error", "-file-line-error",
		"-synctex=1",
		"main.tex",
	}, argv)

	_, err = tc.CompileCommand(latex.XeLaTeX, "main.tex", nil)
	require.ErrorIs(t, err, ErrToolNotFound)
	assert.Equal(t, "compiler xelatex not found", err.Error())
}

func TestLatexmkCommand(t *testing.T) {
	fn, _ := fakeLookPath("latexmk")
	tc := NewWithLookPath(fn)

	tests := []struct {
		compiler latex.Compiler
		flag     string
	}{
		{latex.PDFLaTeX, "-pdf"},
		{latex.XeLaTeX, "-xelatex"},
		{latex.LuaLaTeX, "-lualatex"},
	}
	for _, tt := range tests {
		t.Run(string(tt.compiler), func(t *testing.T) {
			argv, err := tc.LatexmkCommand(tt.compiler, "paper.tex", nil)
			require.NoError(t, err)
			assert.Equal(t, []string{
				"/opt/tex/latexmk", tt.flag,
				"-interaction=nonstopmode", "-halt-on-error", "-file-line-error",
				"paper.tex",
			}, argv)
		})
	}

	fn, _ = fakeLookPath()
	_, err := NewWithLookPath(fn).LatexmkCommand(latex.PDFLaTeX, "paper.tex", nil)
	require.ErrorIs(t, err, ErrToolNotFound)
	assert.Equal(t, "latexmk not found", err.Error())
}

func TestBibCommand(t *testing.T) {
	fn, _ := fakeLookPath("bibtex")
	tc := NewWithLookPath(fn)

	argv, err := tc.BibCommand(latex.BibTeX, "main")
	require.NoError(t, err)
	assert.Equal(t, []string{"/opt/tex/bibtex", "main"}, argv)

	_, err = tc.BibCommand(latex.Biber, "main")
	assert.ErrorIs(t, err, ErrToolNotFound)
}
