// tools_compile.go implements the latex_compile tool.
//
// The handler never fails at the protocol level: a rejected request comes
// back as a result with status "invalid" and success false, and a document
// that does not build comes back with its classified errors. Either way the
// agent gets JSON it can act on.

package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sepinetam/latex-mcp/internal/compile"
	"github.com/sepinetam/latex-mcp/internal/config"
	"github.com/sepinetam/latex-mcp/internal/log"
	"github.com/sepinetam/latex-mcp/internal/service"
	"github.com/sepinetam/latex-mcp/internal/validate"
)

const (
	minTimeoutSeconds = int(config.MinTimeout / time.Second)
	maxTimeoutSeconds = int(config.MaxTimeout / time.Second)
)

// compile handles latex_compile tool calls.
func (h *handlers) compile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r := service.CompileRequest{
		TexFile:      getString(req, "tex_file", ""),
		Mode:         getString(req, "mode", ""),
		Compiler:     getString(req, "compiler", ""),
		WorkingDir:   h.workingDir(req),
		Bibliography: getString(req, "bibliography", ""),
		BibTool:      getString(req, "bib_tool", ""),
		Options:      getStrings(req, "options"),
		CleanAfter:   getBool(req, "clean_after", false),
	}

	ev := log.Event("mcp:latex_compile", "compile").
		TexFile(r.TexFile).
		Compiler(r.Compiler).
		Mode(r.Mode)

	if n, ok, err := getOptionalInt(req, "compile_times"); ok {
		if err == nil {
			err = validate.Passes(n)
		}
		if err != nil {
			return h.invalid(ev.Project(r.WorkingDir), err)
		}
		r.Passes = n
	}
	if n, ok, err := getOptionalInt(req, "timeout_seconds"); ok {
		if err == nil && (n < minTimeoutSeconds || n > maxTimeoutSeconds) {
			err = fmt.Errorf("timeout_seconds must be between %d and %d, got %d", minTimeoutSeconds, maxTimeoutSeconds, n)
		}
		if err != nil {
			return h.invalid(ev.Project(r.WorkingDir), err)
		}
		r.Timeout = time.Duration(n) * time.Second
	}

	opts, err := h.svc.Options(r)
	if err != nil {
		return h.invalid(ev.Project(r.WorkingDir), err)
	}

	res, err := h.svc.Compile(ctx, opts)

	ev.Project(opts.WorkingDir).
		TexFile(opts.TexFile).
		Compiler(string(opts.Compiler)).
		Mode(string(opts.Mode)).
		Status(string(res.Status)).
		RunID(res.RunID).
		Detail("passes", res.Passes).
		Detail("duration_ms", res.DurationMS).
		Output(res.FullLog).
		Write(err)

	return jsonResult(res)
}

// invalid logs and returns the result for a request rejected before
// compilation.
func (h *handlers) invalid(ev *log.Builder, err error) (*mcp.CallToolResult, error) {
	res := compile.Invalid(err)
	ev.Status(string(res.Status)).RunID(res.RunID).Write(err)
	return jsonResult(res)
}
