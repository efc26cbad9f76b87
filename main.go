/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/
package main

import (
	"github.com/sepinetam/latex-mcp/cmd"

	// Import extensions - each registers itself via init()
	_ "github.com/sepinetam/latex-mcp/extension/all"
)

func main() {
	cmd.Execute()
}
