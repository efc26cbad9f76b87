// Package latex provides the latex extension: the CLI side of the tools the
// MCP server exposes. Registers commands: compile, watch, clean, compilers.
//
// Every command goes through the same service as the MCP handlers, so a
// document that builds with "latex-mcp compile" builds the same way when
// an agent calls latex_compile.
package latex

import (
	"github.com/sepinetam/latex-mcp/extension"
	"github.com/sepinetam/latex-mcp/internal/service"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the latex extension.
type Extension struct {
	svc service.Service
}

// Compile-time interface compliance.
var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

// Name returns "latex".
func (e *Extension) Name() string { return "latex" }

// Init connects to the shared compilation service.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	return nil
}

// Commands returns the compilation commands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newCompileCmd(),
		e.newWatchCmd(),
		e.newCleanCmd(),
		e.newCompilersCmd(),
	}
}

// MCPTools returns nil. latex_compile, latex_clean and
// latex_list_compilers are registered by internal/mcp.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}
