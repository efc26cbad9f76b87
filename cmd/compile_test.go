//go:build unix

package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// compileResult mirrors the fields of a compile result the tests check.
type compileResult struct {
	Success      bool     `json:"success"`
	Status       string   `json:"status"`
	PDFPath      string   `json:"pdf_path"`
	Errors       []string `json:"errors"`
	Warnings     []string `json:"warnings"`
	RemovedFiles []string `json:"removed_files"`
	RunID        string   `json:"run_id"`
}

func decodeCompile(t *testing.T, out string) compileResult {
	t.Helper()
	var res compileResult
	require.NoError(t, json.Unmarshal([]byte(out), &res), out)
	return res
}

func TestCompile(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		env := newTestEnv(t)
		env.tool("pdflatex", engineOK)
		env.file("main.tex", testDoc)

		out := env.run("compile", "-m", "manual")
		env.contains(out, "SUCCESS")
		env.contains(out, "main.pdf")
		env.exists("main.pdf")
	})

	t.Run("json", func(t *testing.T) {
		env := newTestEnv(t)
		env.tool("pdflatex", engineOK)
		env.file("paper.tex", testDoc)

		res := decodeCompile(t, env.run("compile", "paper.tex", "-m", "manual", "-o", "json"))
		assert.True(t, res.Success)
		assert.Equal(t, "success", res.Status)
		assert.Contains(t, res.PDFPath, "paper.pdf")
		assert.NotEmpty(t, res.RunID)
	})

	t.Run("warning", func(t *testing.T) {
		env := newTestEnv(t)
		env.tool("pdflatex", engineWarn)
		env.file("main.tex", testDoc)

		res := decodeCompile(t, env.run("compile", "-m", "manual", "-o", "json"))
		assert.True(t, res.Success)
		assert.Equal(t, "warning", res.Status)
		assert.NotEmpty(t, res.Warnings)
	})

	t.Run("clean after", func(t *testing.T) {
		env := newTestEnv(t)
		env.tool("pdflatex", engineOK)
		env.file("main.tex", testDoc)

		res := decodeCompile(t, env.run("compile", "-m", "manual", "--clean", "-o", "json"))
		assert.True(t, res.Success)
		assert.Contains(t, res.RemovedFiles, "main.aux")
		env.missing("main.aux")
		env.exists("main.pdf")
	})
}

func TestCompile_Failures(t *testing.T) {
	t.Run("engine error exits 1", func(t *testing.T) {
		env := newTestEnv(t)
		env.tool("pdflatex", engineFail)
		env.file("main.tex", testDoc)

		out, err := env.runErr("compile", "-m", "manual")
		assert.Error(t, err)
		env.contains(out, "ERROR")
		env.contains(out, "Undefined control sequence")
		env.missing("main.pdf")
	})

	t.Run("missing tex file", func(t *testing.T) {
		env := newTestEnv(t)
		env.tool("pdflatex", engineOK)

		out, err := env.runErr("compile", "-m", "manual", "-o", "json")
		assert.Error(t, err)
		res := decodeCompile(t, out)
		assert.False(t, res.Success)
		assert.Equal(t, "missing_file", res.Status)
	})

	t.Run("invalid passes", func(t *testing.T) {
		env := newTestEnv(t)
		env.file("main.tex", testDoc)

		_, err := env.runErr("compile", "-m", "manual", "-n", "9")
		assert.Error(t, err)
	})

	t.Run("invalid mode", func(t *testing.T) {
		env := newTestEnv(t)
		env.file("main.tex", testDoc)

		out, err := env.runErr("compile", "-m", "fast", "-o", "json")
		assert.Error(t, err)
		res := decodeCompile(t, out)
		assert.Equal(t, "invalid", res.Status)
		require.NotEmpty(t, res.Errors)
		assert.Contains(t, res.Errors[0], "Invalid parameter")
	})
}

func TestClean(t *testing.T) {
	env := newTestEnv(t)
	env.file("main.tex", testDoc)
	env.file("main.aux", "")
	env.file("main.log", "")
	env.file("main.pdf", "%PDF")

	out := env.run("clean")
	env.contains(out, "Removed 2 auxiliary file(s)")
	env.missing("main.aux")
	env.missing("main.log")
	env.exists("main.tex")
	env.exists("main.pdf")
}

func TestCompilers(t *testing.T) {
	env := newTestEnv(t)
	env.tool("pdflatex", engineOK)

	out := env.run("compilers", "-o", "json")
	var inv struct {
		Compilers []string `json:"compilers"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &inv), out)
	assert.Contains(t, inv.Compilers, "pdflatex")
}
