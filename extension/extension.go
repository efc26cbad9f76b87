// Package extension provides the plugin architecture for latex-mcp.
// Extensions encapsulate related functionality (commands, MCP tools) and
// register at init time, so features are added without touching core code.
package extension

import (
	"github.com/spf13/cobra"
)

// Extension defines the contract for latex-mcp extensions.
type Extension interface {
	// Name returns a unique identifier for this extension.
	Name() string

	// Commands returns CLI commands to register with the root command.
	Commands() []*cobra.Command

	// MCPTools returns MCP tools to register with the server.
	MCPTools() []MCPTool
}

// Initializable extensions receive the shared Context once the service
// exists.
type Initializable interface {
	Extension
	Init(ctx Context) error
}

// Serviceless is an optional interface for extensions with commands that
// don't need the compilation service. Commands returned by
// NoServiceCommands() will not trigger service initialisation in
// PersistentPreRunE.
//
// Use cases:
// 1. Documentation commands (guide, llm) that must work with a broken config
// 2. Commands that manage their own service lifecycle (serve)
// 3. Utility commands that only read the history database
type Serviceless interface {
	NoServiceCommands() []string
}
