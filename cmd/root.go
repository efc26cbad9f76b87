/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// root.go defines the root command and CLI execution entry point.
//
// Separated from init_extensions.go to isolate cobra setup from extension
// initialisation logic.
//
// Design: PersistentPreRunE creates the compilation service lazily. Only
// commands that compile, clean or inspect the toolchain trigger it, so
// guide, config and serve keep working when the config file is broken.
// The noServiceCommands map controls which commands skip initialisation.

package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/sepinetam/latex-mcp/internal/config"
	"github.com/sepinetam/latex-mcp/internal/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "latex-mcp",
	Short: "LaTeX compilation for AI agents over MCP",
	Long: `Compiles LaTeX documents to PDF and reports errors, warnings and missing
files in a form an agent can act on. Runs as an MCP server (latex-mcp serve)
inside a container with a full TeX distribution, or as a CLI.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if output != "" && !slices.Contains(validOutputFormats, output) {
			return fmt.Errorf("invalid output format: %s (valid: %v)", output, validOutputFormats)
		}

		if !noServiceCommands[topLevelCmdName(cmd)] {
			if err := initExtensions(); err != nil {
				if JSON() {
					_ = PrintJSON(map[string]string{"error": err.Error()})
					cmd.SilenceErrors = true
					cmd.SilenceUsage = true
				}
				return fmt.Errorf("initialise extensions: %w", err)
			}
		}

		return nil
	},
}

// topLevelCmdName returns the name of the top-level command (direct child of root).
// For "latex-mcp history show 3", returns "history".
func topLevelCmdName(cmd *cobra.Command) string {
	for cmd.HasParent() && cmd.Parent().HasParent() {
		cmd = cmd.Parent()
	}
	return cmd.Name()
}

// historyEnabled reports whether compile history is recorded. A config
// that fails to load does not turn history off; the command reports the
// config error itself.
func historyEnabled() bool {
	cfg, err := config.Load()
	return err != nil || cfg.HistoryEnabled()
}

// Execute runs the root command and handles process lifecycle.
// Opens the history log, registers extensions, executes the command, and
// closes the service before exit. Exit code 1 indicates error.
func Execute() {
	if historyEnabled() {
		if err := log.Open(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: history log unavailable: %v\n", err)
		}
		defer log.Close()
	}

	registerExtensions()
	err := rootCmd.Execute()

	if extService != nil {
		if closeErr := extService.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "warning: closing service: %v\n", closeErr)
		}
	}

	if err != nil {
		log.Close()
		os.Exit(1)
	}
}

// RootCmd returns the root command for testing and extension access.
func RootCmd() *cobra.Command {
	return rootCmd
}
