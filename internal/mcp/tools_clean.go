// tools_clean.go implements the workspace maintenance tools: latex_clean
// and latex_list_compilers.

package mcp

import (
	"context"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sepinetam/latex-mcp/internal/clean"
	"github.com/sepinetam/latex-mcp/internal/log"
)

// clean handles latex_clean tool calls.
//
// A working directory that does not exist is reported in the result with
// success false, matching how latex_compile reports it. A tex_file outside
// the working directory is a tool error.
func (h *handlers) clean(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir := h.workingDir(req)
	texFile := getString(req, "tex_file", "")

	res, err := h.svc.Clean(ctx, io.Discard, dir, texFile)

	log.Event("mcp:latex_clean", "clean").
		Project(dir).
		TexFile(texFile).
		Detail("removed", len(res.RemovedFiles)).
		Write(err)

	if err != nil {
		return jsonResult(clean.Result{RemovedFiles: []string{}, Message: err.Error()})
	}
	return jsonResult(res)
}

// listCompilers handles latex_list_compilers tool calls.
func (h *handlers) listCompilers(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	inv := h.svc.Inventory()
	log.Event("mcp:latex_list_compilers", "list").
		Detail("compilers", inv.Compilers).
		Write(nil)
	return jsonResult(inv)
}
