// Package history provides the history extension: commands for browsing
// the compile history recorded in the log database, and the latex_history
// MCP tool.
//
// Registers commands: history (with show, diff and prune subcommands).
package history

import (
	"github.com/sepinetam/latex-mcp/extension"
	"github.com/sepinetam/latex-mcp/internal/service"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the history extension.
type Extension struct {
	svc service.Service
}

var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

// Name returns "history".
func (e *Extension) Name() string { return "history" }

// Init connects to the shared compilation service, which resolves the
// working directory a listing is scoped to.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	return nil
}

// Commands returns the history command tree.
func (e *Extension) Commands() []*cobra.Command {
	c := e.newHistoryCmd()
	c.AddCommand(
		e.newShowCmd(),
		e.newDiffCmd(),
		e.newPruneCmd(),
	)
	return []*cobra.Command{c}
}

// MCPTools returns latex_history.
func (e *Extension) MCPTools() []extension.MCPTool {
	return []extension.MCPTool{historyTool()}
}
