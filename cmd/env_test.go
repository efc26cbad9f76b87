//go:build unix

// The cmd/ package contains CLI integration tests that exercise the full
// stack: command parsing -> service -> compile -> runner -> engine process.
//
// Engines are shell scripts placed first on PATH, so the tests need a unix
// shell but no TeX installation. Each test gets its own HOME, which keeps
// the global config and the history database out of the real home
// directory.

package cmd

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// buildBinary compiles the latex-mcp binary once for all tests.
func buildBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		tmpDir, err := os.MkdirTemp("", "latex-mcp-test-bin-*")
		if err != nil {
			buildErr = err
			return
		}
		binaryPath = filepath.Join(tmpDir, "latex-mcp")

		// Project root is the parent of cmd/
		projectRoot := filepath.Dir(mustGetwd())

		cmd := exec.Command("go", "build", "-o", binaryPath, ".")
		cmd.Dir = projectRoot
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = &buildError{err: err, output: string(out)}
			return
		}
	})

	if buildErr != nil {
		t.Fatalf("failed to build binary: %v", buildErr)
	}
	return binaryPath
}

type buildError struct {
	err    error
	output string
}

func (e *buildError) Error() string {
	return e.err.Error() + "\n" + e.output
}

func mustGetwd() string {
	dir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return dir
}

// testEnv holds test environment state.
type testEnv struct {
	t      *testing.T
	dir    string // working directory holding the document
	home   string
	bin    string // fake tools, first on PATH
	binary string
}

// newTestEnv creates a working directory and an empty home and bin.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{
		t:      t,
		dir:    t.TempDir(),
		home:   t.TempDir(),
		bin:    t.TempDir(),
		binary: buildBinary(t),
	}
}

// tool installs an executable script named name in the fake bin.
func (e *testEnv) tool(name, script string) {
	e.t.Helper()
	require.NoError(e.t, os.WriteFile(filepath.Join(e.bin, name), []byte(script), 0o755))
}

// file writes a file in the working directory.
func (e *testEnv) file(name, content string) {
	e.t.Helper()
	p := filepath.Join(e.dir, name)
	require.NoError(e.t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(e.t, os.WriteFile(p, []byte(content), 0o644))
}

// run executes latex-mcp with the given args and returns its output.
func (e *testEnv) run(args ...string) string {
	e.t.Helper()
	out, err := e.runErr(args...)
	if err != nil {
		e.t.Fatalf("latex-mcp %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runErr executes latex-mcp and returns its output and any error.
func (e *testEnv) runErr(args ...string) (string, error) {
	e.t.Helper()

	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.dir
	cmd.Env = append(os.Environ(),
		"HOME="+e.home,
		"PATH="+e.bin+string(os.PathListSeparator)+os.Getenv("PATH"),
		"NO_COLOR=1",
		"LATEX_MCP_DIR=",
	)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// contains checks if output contains expected string.
func (e *testEnv) contains(output, expected string) {
	e.t.Helper()
	assert.Contains(e.t, output, expected)
}

// exists checks that a file exists in the working directory.
func (e *testEnv) exists(name string) {
	e.t.Helper()
	assert.FileExists(e.t, filepath.Join(e.dir, name))
}

// missing checks that a file does not exist in the working directory.
func (e *testEnv) missing(name string) {
	e.t.Helper()
	assert.NoFileExists(e.t, filepath.Join(e.dir, name))
}

// lines splits output into non-empty trimmed lines.
func lines(out string) []string {
	var ls []string
	for _, l := range strings.Split(out, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			ls = append(ls, l)
		}
	}
	return ls
}

const testDoc = `\documentclass{article}
\begin{document}
Hello, world.
\end{document}
`

// engineOK writes <stem>.pdf and a log beside it, like a real engine.
const engineOK = `#!/bin/sh
for a; do tex="$a"; done
stem=$(basename "$tex" .tex)
echo "This is fake TeX"
echo "This is fake TeX" > "$stem.log"
: > "$stem.aux"
printf '%%PDF-1.5 fake' > "$stem.pdf"
echo "Output written on $stem.pdf (1 page, 12 bytes)."
`

const engineWarn = `#!/bin/sh
for a; do tex="$a"; done
stem=$(basename "$tex" .tex)
echo "LaTeX Warning: Reference ` + "`" + `fig:1' on page 1 undefined on input line 3."
printf '%%PDF-1.5 fake' > "$stem.pdf"
`

const engineFail = `#!/bin/sh
echo "./main.tex:3: Undefined control sequence."
printf '%s\n' 'l.3 \foo'
exit 1
`
