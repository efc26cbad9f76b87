// tools.go defines the latex_history MCP tool.

package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sepinetam/latex-mcp/extension"
	"github.com/sepinetam/latex-mcp/internal/history"
	"github.com/sepinetam/latex-mcp/internal/log"
)

const maxHistoryLimit = 100

func historyTool() extension.MCPTool {
	return extension.MCPTool{
		Tool: mcp.NewTool("latex_history",
			mcp.WithDescription("List recent compiles of a working directory, newest first. "+
				"Pass run_id (from a latex_compile response) to get that run with its full compiler log."),
			mcp.WithString("working_dir", mcp.Description("Directory whose compiles to list (default: server working directory)")),
			mcp.WithNumber("limit", mcp.Description("Maximum runs to return"), mcp.DefaultNumber(10), mcp.Min(1), mcp.Max(maxHistoryLimit)),
			mcp.WithBoolean("failed", mcp.Description("Only runs that did not produce a PDF")),
			mcp.WithString("run_id", mcp.Description("Return this run and its compiler log instead of a listing")),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		Handler: handleHistory,
	}
}

func handleHistory(ctx context.Context, extCtx extension.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if ref := req.GetString("run_id", ""); ref != "" {
		entry, err := history.Show(ctx, io.Discard, ref, true)
		log.Event("mcp:latex_history", "history").RunID(ref).Write(err)
		if err != nil {
			return toolError(err), nil
		}
		return jsonResult(entry)
	}

	limit := req.GetInt("limit", 10)
	if limit < 1 || limit > maxHistoryLimit {
		return mcp.NewToolResultError(fmt.Sprintf("limit must be between 1 and %d", maxHistoryLimit)), nil
	}
	dir, err := extCtx.Service().WorkingDir(req.GetString("working_dir", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := history.Run(ctx, io.Discard, history.Options{
		Dir:    dir,
		Limit:  limit,
		Failed: req.GetBool("failed", false),
	})
	log.Event("mcp:latex_history", "history").
		Project(dir).
		Detail("count", len(res.Runs)).
		Write(err)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(res)
}

func toolError(err error) *mcp.CallToolResult {
	if errors.Is(err, log.ErrNotFound) {
		return mcp.NewToolResultError(err.Error() + "; run latex_history without run_id to list recorded runs")
	}
	return mcp.NewToolResultError(err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}
