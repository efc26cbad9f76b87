// Package core provides the core extension for latex-mcp.
// It registers commands: serve, config, guide, llm, agent-config, version.
package core

import (
	"github.com/sepinetam/latex-mcp/extension"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the core extension.
type Extension struct{}

// Compile-time interface compliance.
var (
	_ extension.Extension   = (*Extension)(nil)
	_ extension.Serviceless = (*Extension)(nil)
)

// Name returns "core".
func (e *Extension) Name() string { return "core" }

// Commands returns the server, configuration and documentation commands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		newServeCmd(),
		newConfigCmd(),
		newGuideCmd(),
		newLlmCmd(),
		newAgentConfigCmd(),
		newVersionCmd(),
	}
}

// MCPTools returns nil. The compile, clean, config and guide tools are
// registered by internal/mcp itself.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}

// NoServiceCommands returns every core command.
// serve: builds its own service for the lifetime of the server.
// config: must be able to repair a config file that fails to load.
// guide, llm, agent-config, version: print static content.
func (e *Extension) NoServiceCommands() []string {
	return []string{"serve", "config", "guide", "llm", "agent-config", "version"}
}
