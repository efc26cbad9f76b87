package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sepinetam/latex-mcp/extension"
	"github.com/sepinetam/latex-mcp/internal/clean"
	"github.com/sepinetam/latex-mcp/internal/compile"
	"github.com/sepinetam/latex-mcp/internal/config"
	"github.com/sepinetam/latex-mcp/internal/latex"
	"github.com/sepinetam/latex-mcp/internal/path"
	"github.com/sepinetam/latex-mcp/internal/toolchain"
	"github.com/sepinetam/latex-mcp/internal/workspace"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type toolFunc func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// newHandlers returns handlers over a workspace service whose toolchain
// resolves names in bin. An empty bin means nothing is installed.
func newHandlers(t *testing.T, dir, bin string) *handlers {
	t.Helper()
	tc := toolchain.NewWithLookPath(func(name string) (string, error) {
		if bin == "" {
			return "", errors.New("not installed")
		}
		p := filepath.Join(bin, name)
		if _, err := os.Stat(p); err != nil {
			return "", err
		}
		return p, nil
	})
	svc := workspace.NewWith(&config.Config{}, tc)
	return &handlers{svc: svc, dir: dir, ext: extension.NewContext(svc)}
}

func call(t *testing.T, fn toolFunc, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := fn(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return tc.Text
}

func decode[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &v))
	return v
}

func TestCompile_InvalidParameters(t *testing.T) {
	dir := t.TempDir()
	h := newHandlers(t, dir, "")

	tests := []struct {
		name string
		args map[string]any
	}{
		{"mode", map[string]any{"mode": "fast"}},
		{"compiler", map[string]any{"compiler": "context"}},
		{"bib_tool", map[string]any{"bib_tool": "bibulous"}},
		{"compile_times zero", map[string]any{"compile_times": float64(0)}},
		{"compile_times six", map[string]any{"compile_times": float64(6)}},
		{"timeout", map[string]any{"timeout_seconds": float64(-1)}},
		{"compile_times fractional", map[string]any{"compile_times": 2.7}},
		{"compile_times fractional below one", map[string]any{"compile_times": 0.5}},
		{"timeout fractional", map[string]any{"timeout_seconds": 0.5}},
		{"timeout over an hour", map[string]any{"timeout_seconds": float64(3601)}},
		{"timeout huge", map[string]any{"timeout_seconds": float64(1 << 62)}},
		{"escaping tex_file", map[string]any{"tex_file": "../main.tex"}},
		{"shell escape", map[string]any{"options": []any{"-shell-escape"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := call(t, h.compile, tc.args)
			assert.False(t, res.IsError)

			out := decode[compile.Result](t, res)
			assert.False(t, out.Success)
			assert.Equal(t, "invalid", string(out.Status))
			require.NotEmpty(t, out.Errors)
			assert.Contains(t, out.Errors[0], "Invalid parameter")
		})
	}
}

func TestCompile_MissingTexFile(t *testing.T) {
	h := newHandlers(t, t.TempDir(), "")

	out := decode[compile.Result](t, call(t, h.compile, map[string]any{"tex_file": "paper.tex"}))
	assert.False(t, out.Success)
	assert.Equal(t, "missing_file", string(out.Status))
	assert.Equal(t, []string{"TeX file does not exist: paper.tex"}, out.Errors)
}

func TestCompile_WorkingDirArgument(t *testing.T) {
	h := newHandlers(t, t.TempDir(), "")
	missing := filepath.Join(t.TempDir(), "gone")

	out := decode[compile.Result](t, call(t, h.compile, map[string]any{"working_dir": missing}))
	assert.Equal(t, "missing_file", string(out.Status))
	assert.Equal(t, []string{"Working directory does not exist: " + missing}, out.Errors)
}

func TestCompile_Unavailable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.tex"), []byte(`\documentclass{article}`), 0644))
	h := newHandlers(t, dir, "")

	out := decode[compile.Result](t, call(t, h.compile, map[string]any{"mode": "manual", "compiler": "xelatex"}))
	assert.False(t, out.Success)
	assert.Equal(t, "unavailable", string(out.Status))
	assert.Contains(t, out.Errors, "compiler xelatex not found")
}

func TestListCompilers(t *testing.T) {
	bin := t.TempDir()
	for _, name := range []string{"xelatex", "latexmk", "biber"} {
		require.NoError(t, os.WriteFile(filepath.Join(bin, name), []byte("#!/bin/sh\n"), 0755))
	}
	h := newHandlers(t, t.TempDir(), bin)

	inv := decode[toolchain.Inventory](t, call(t, h.listCompilers, nil))
	assert.Equal(t, []string{"xelatex"}, inv.Compilers)
	assert.Equal(t, []string{"biber", "latexmk"}, inv.AuxCommands)
	assert.True(t, inv.LatexmkAvailable)
}

func TestClean(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"main.aux", "main.log", "main.tex", "main.pdf", "other.aux"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	h := newHandlers(t, dir, "")

	out := decode[clean.Result](t, call(t, h.clean, map[string]any{"tex_file": "main.tex"}))
	assert.True(t, out.Success)
	assert.ElementsMatch(t, []string{"main.aux", "main.log"}, out.RemovedFiles)
	assert.FileExists(t, filepath.Join(dir, "other.aux"))
	assert.FileExists(t, filepath.Join(dir, "main.pdf"))
}

func TestClean_MissingDir(t *testing.T) {
	h := newHandlers(t, t.TempDir(), "")
	missing := filepath.Join(t.TempDir(), "gone")

	out := decode[clean.Result](t, call(t, h.clean, map[string]any{"working_dir": missing}))
	assert.False(t, out.Success)
	assert.Equal(t, "Working directory does not exist: "+missing, out.Message)
	assert.Empty(t, out.RemovedFiles)
}

func TestClean_EscapingTexFile(t *testing.T) {
	h := newHandlers(t, t.TempDir(), "")

	out := decode[clean.Result](t, call(t, h.clean, map[string]any{"tex_file": "../main.tex"}))
	assert.False(t, out.Success)
	assert.Contains(t, out.Message, "escapes working directory")
}

func TestGuide(t *testing.T) {
	h := newHandlers(t, t.TempDir(), "")

	res := call(t, h.getGuide, map[string]any{"topic": "compile"})
	assert.Contains(t, text(t, res), "latex_compile")

	missing := call(t, h.getGuide, map[string]any{"topic": "nonexistent"})
	assert.True(t, missing.IsError)
	assert.Contains(t, text(t, missing), "Available topics: clean, compile")
}

func TestConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	h := newHandlers(t, t.TempDir(), "")

	all := decode[map[string]string](t, call(t, h.configGet, nil))
	assert.Equal(t, "pdflatex", all["compile.compiler"])

	res := call(t, h.configSet, map[string]any{"key": "compile.compiler", "value": "xelatex"})
	assert.False(t, res.IsError)
	assert.Equal(t, "compile.compiler = xelatex", text(t, res))

	// The running service picks up the change.
	assert.Equal(t, latex.XeLaTeX, h.svc.Config().Compiler())

	one := decode[map[string]string](t, call(t, h.configGet, map[string]any{"key": "compile.compiler"}))
	assert.Equal(t, map[string]string{"compile.compiler": "xelatex"}, one)
}

func TestConfig_Errors(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	h := newHandlers(t, t.TempDir(), "")

	assert.True(t, call(t, h.configGet, map[string]any{"key": "compile.engine"}).IsError)
	assert.True(t, call(t, h.configSet, map[string]any{"key": "compile.passes", "value": "9"}).IsError)
	assert.True(t, call(t, h.configSet, map[string]any{"key": "compile.mode"}).IsError)
}

func TestReadLog(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.log"), []byte("This is pdfTeX\n"), 0644))
	h := newHandlers(t, dir, "")

	var req mcp.ReadResourceRequest
	req.Params.URI = "latex://logs/main"
	contents, err := h.readLog(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	tc, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "This is pdfTeX\n", tc.Text)

	req.Params.URI = "latex://logs/missing"
	_, err = h.readLog(context.Background(), req)
	assert.Error(t, err)

	outside := filepath.Join(t.TempDir(), "host.txt")
	require.NoError(t, os.WriteFile(outside, []byte("secret\n"), 0644))
	require.NoError(t, os.Symlink(outside, filepath.Join(dir, "leak.log")))
	req.Params.URI = "latex://logs/leak"
	_, err = h.readLog(context.Background(), req)
	assert.ErrorIs(t, err, path.ErrOutside)
}

func TestParseLogURI(t *testing.T) {
	tests := []struct {
		uri     string
		want    string
		wantErr error
	}{
		{"latex://logs/main", "main", nil},
		{"latex://logs/main.log", "main", nil},
		{"latex://logs/my%20paper", "my paper", nil},
		{"latex://logs/", "", ErrEmptyName},
		{"file:///etc/passwd", "", ErrInvalidURI},
	}
	for _, tc := range tests {
		t.Run(tc.uri, func(t *testing.T) {
			got, err := parseLogURI(tc.uri)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetters(t *testing.T) {
	var req mcp.CallToolRequest
	req.Params.Arguments = map[string]any{
		"s":   "text",
		"b":   true,
		"n":   float64(3),
		"arr": []any{"-synctex=1", 7, "-8bit"},
		"bad": "true",
	}

	assert.Equal(t, "text", getString(req, "s", "def"))
	assert.Equal(t, "def", getString(req, "missing", "def"))
	assert.True(t, getBool(req, "b", false))
	assert.False(t, getBool(req, "bad", false))
	assert.Equal(t, 3, getInt(req, "n", 0))
	assert.Equal(t, 2, getInt(req, "missing", 2))
	assert.Equal(t, []string{"-synctex=1", "-8bit"}, getStrings(req, "arr"))
	assert.Nil(t, getStrings(req, "missing"))

	_, ok, err := getOptionalInt(req, "missing")
	assert.False(t, ok)
	assert.NoError(t, err)

	req.Params.Arguments = map[string]any{"frac": 2.7, "huge": float64(1 << 62), "whole": float64(4)}
	_, ok, err = getOptionalInt(req, "frac")
	assert.True(t, ok)
	assert.ErrorContains(t, err, "whole number")
	_, ok, err = getOptionalInt(req, "huge")
	assert.True(t, ok)
	assert.Error(t, err)
	n, ok, err := getOptionalInt(req, "whole")
	assert.True(t, ok)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 9, getInt(req, "frac", 9), "a fractional value falls back to the default")
}

type echoExtension struct{}

func (echoExtension) Name() string               { return "mcp-test-echo" }
func (echoExtension) Commands() []*cobra.Command { return nil }
func (echoExtension) MCPTools() []extension.MCPTool {
	return []extension.MCPTool{{
		Tool: mcp.NewTool("test_echo_compiler"),
		Handler: func(_ context.Context, extCtx extension.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText(string(extCtx.Config().Compiler())), nil
		},
	}}
}

func TestNewServer_RegistersTools(t *testing.T) {
	extension.Register(echoExtension{})

	h := newHandlers(t, t.TempDir(), "")
	s, err := NewServer(h.svc, h.dir)
	require.NoError(t, err)

	tools := s.ListTools()
	for _, name := range []string{
		"latex_compile", "latex_list_compilers", "latex_clean",
		"latex_guide", "latex_config_get", "latex_config_set",
		"test_echo_compiler",
	} {
		assert.Contains(t, tools, name)
	}

	var req mcp.CallToolRequest
	res, err := tools["test_echo_compiler"].Handler(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "pdflatex", text(t, res))
}
