// Package all imports the built-in latex-mcp extensions.
// Import this package to register all built-in commands and tools.
package all

import (
	// Each extension registers itself via init()
	_ "github.com/sepinetam/latex-mcp/extension/core"
	_ "github.com/sepinetam/latex-mcp/extension/history"
	_ "github.com/sepinetam/latex-mcp/extension/latex"
)
