// serve.go implements the "latex-mcp serve" command, the container's entry
// point.
//
// Serve is a service-less command: it builds its own service inside
// mcp.Serve and keeps it for as long as the client stays connected.

package core

import (
	"github.com/sepinetam/latex-mcp/cmd"
	"github.com/sepinetam/latex-mcp/extension"
	"github.com/sepinetam/latex-mcp/internal/mcp"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Short: "Start MCP server",
		Long: `Start an MCP (Model Context Protocol) server for LLM integration.

Serves over stdio by default, as used by "docker run -i". Use --http to
serve streamable HTTP instead:
  latex-mcp serve                # stdio
  latex-mcp serve --http :8080   # http://host:8080/mcp

Tool calls without working_dir compile in --dir, then workspace.dir,
then the current directory.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	c.Flags().String(extension.FlagHTTP, "", "Serve streamable HTTP on this address")
	return c
}

func runServe(c *cobra.Command, _ []string) error {
	addr, _ := c.Flags().GetString(extension.FlagHTTP)
	return mcp.Serve(mcp.Options{Addr: addr, Dir: cmd.Dir()})
}
