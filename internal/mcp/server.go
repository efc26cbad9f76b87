// Package mcp implements the Model Context Protocol server, exposing LaTeX
// compilation to LLMs. An agent writes .tex sources into the mounted
// working directory and calls latex_compile to get a PDF and a classified
// report of what went wrong.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sepinetam/latex-mcp/extension"
	"github.com/sepinetam/latex-mcp/internal/latex"
	"github.com/sepinetam/latex-mcp/internal/service"
	"github.com/sepinetam/latex-mcp/internal/version"
	"github.com/sepinetam/latex-mcp/internal/workspace"
)

// Name is advertised to clients during initialisation.
const Name = "latex-mcp"

// Options configures Serve.
type Options struct {
	// Addr, if set, serves streamable HTTP on this address instead of stdio.
	Addr string
	// Dir is the working directory used when a tool call omits working_dir.
	// Empty falls back to workspace.dir, then the process directory.
	Dir string
}

// Serve starts the MCP server and blocks until the client disconnects.
//
// Stdio is the transport used inside the container (docker run -i). A
// missing TeX installation is not fatal: latex_list_compilers reports what
// is available and compiles return status "unavailable".
func Serve(opts Options) error {
	// Log to stderr; stdout is reserved for MCP JSON-RPC messages
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	svc, err := workspace.New()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return err
	}
	defer svc.Close()

	inv := svc.Inventory()
	if len(inv.Compilers) == 0 {
		slog.Warn("no TeX engines found on PATH; compiles will report unavailable")
	}

	s, err := NewServer(svc, opts.Dir)
	if err != nil {
		return err
	}

	transport := "stdio"
	if opts.Addr != "" {
		transport = "http"
	}
	slog.Info("latex-mcp MCP server ready",
		"version", version.Short(),
		"transport", transport,
		"compilers", strings.Join(inv.Compilers, ","),
		"latexmk", inv.LatexmkAvailable,
	)

	if opts.Addr != "" {
		err = server.NewStreamableHTTPServer(s).Start(opts.Addr)
	} else {
		err = server.ServeStdio(s)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, http.ErrServerClosed) {
		slog.Info("server stopped")
		return nil
	}
	return err
}

// NewServer builds an MCP server with every tool and resource registered
// against svc. It fails if an extension tool reuses a registered name.
func NewServer(svc service.Service, dir string) (*server.MCPServer, error) {
	h := &handlers{svc: svc, dir: dir, ext: extension.NewContext(svc)}

	s := server.NewMCPServer(
		Name,
		version.Short(),
		server.WithResourceCapabilities(true, false),
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	registerResources(s, h)
	registerTools(s, h)
	if err := registerExtensionTools(s, h); err != nil {
		return nil, err
	}
	return s, nil
}

// handlers provides MCP request handlers with access to the compilation
// service.
type handlers struct {
	svc service.Service
	dir string // default working directory
	ext extension.Context
}

// workingDir returns the working_dir argument or the server default.
func (h *handlers) workingDir(req mcp.CallToolRequest) string {
	return getString(req, "working_dir", h.dir)
}

// registerResources adds URI-based access to compiler logs.
func registerResources(s *server.MCPServer, h *handlers) {
	s.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"latex://logs/{name}",
			"Compiler log",
			mcp.WithTemplateDescription("Read <name>.log from the working directory"),
			mcp.WithTemplateMIMEType("text/plain"),
		),
		h.readLog,
	)
}

// registerTools exposes compilation operations as MCP tools.
func registerTools(s *server.MCPServer, h *handlers) {
	compilers := make([]string, 0, len(latex.Compilers()))
	for _, c := range latex.Compilers() {
		compilers = append(compilers, string(c))
	}

	// Compile
	s.AddTool(
		mcp.NewTool("latex_compile",
			mcp.WithDescription("Compile a LaTeX document to PDF in the working directory. Returns status (success, warning, error, missing_file, timeout, unavailable, invalid), errors, warnings, located diagnostics and the tail of the log."),
			mcp.WithString("tex_file", mcp.Description("Main .tex file relative to working_dir (default: main.tex)")),
			mcp.WithString("mode", mcp.Description("auto uses latexmk, manual runs the engine compile_times times (default: auto)"), mcp.Enum(string(latex.ModeAuto), string(latex.ModeManual))),
			mcp.WithString("compiler", mcp.Description("TeX engine (default: pdflatex; use xelatex or lualatex for CJK and system fonts)"), mcp.Enum(compilers...)),
			mcp.WithString("working_dir", mcp.Description("Directory holding the sources (default: server working directory)")),
			mcp.WithString("bibliography", mcp.Description(".bib file; manual mode runs the bibliography tool after the first pass")),
			mcp.WithString("bib_tool", mcp.Description("Bibliography tool for manual mode (default: bibtex)"), mcp.Enum(string(latex.BibTeX), string(latex.Biber))),
			mcp.WithNumber("compile_times", mcp.Description("Engine runs in manual mode, 1-5 (default: 2)"), mcp.Min(1), mcp.Max(5)),
			mcp.WithArray("options", mcp.Description("Additional engine flags, e.g. -synctex=1"), mcp.WithStringItems()),
			mcp.WithBoolean("clean_after", mcp.Description("Remove auxiliary files after a successful build")),
			mcp.WithNumber("timeout_seconds", mcp.Description("Limit for the whole compilation in seconds, 1-3600 (default: compile.timeout)"), mcp.Min(1), mcp.Max(3600)),
		),
		h.compile,
	)

	// List compilers
	s.AddTool(
		mcp.NewTool("latex_list_compilers",
			mcp.WithDescription("List installed TeX engines and helper programs"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		h.listCompilers,
	)

	// Clean
	s.AddTool(
		mcp.NewTool("latex_clean",
			mcp.WithDescription("Remove auxiliary files (.aux, .log, .toc, ...) from the working directory. Sources and PDFs are kept."),
			mcp.WithString("working_dir", mcp.Description("Directory to clean (default: server working directory)")),
			mcp.WithString("tex_file", mcp.Description("Only remove files belonging to this document")),
		),
		h.clean,
	)

	// Guide
	s.AddTool(
		mcp.NewTool("latex_guide",
			mcp.WithDescription("Get usage guidance for latex-mcp tools"),
			mcp.WithString("topic", mcp.Description("Guide topic (e.g., 'compile', 'clean', 'config') or empty for index")),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		h.getGuide,
	)

	// Config Get
	s.AddTool(
		mcp.NewTool("latex_config_get",
			mcp.WithDescription("Get a configuration value"),
			mcp.WithString("key", mcp.Description("Config key (e.g., compile.compiler, compile.timeout) or empty for all")),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		h.configGet,
	)

	// Config Set
	s.AddTool(
		mcp.NewTool("latex_config_set",
			mcp.WithDescription("Set a configuration value; later compiles use the new default"),
			mcp.WithString("key", mcp.Required(), mcp.Description("Config key (e.g., compile.compiler, compile.passes)")),
			mcp.WithString("value", mcp.Required(), mcp.Description("Value to set")),
		),
		h.configSet,
	)
}

// registerExtensionTools adds the tools contributed by extensions. Each
// handler receives the shared extension context.
func registerExtensionTools(s *server.MCPServer, h *handlers) error {
	var builtin []string
	for name := range s.ListTools() {
		builtin = append(builtin, name)
	}
	tools, err := extension.Tools(builtin...)
	if err != nil {
		return err
	}
	for _, t := range tools {
		handler := t.Handler
		s.AddTool(t.Tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handler(ctx, h.ext, req)
		})
	}
	return nil
}
