// show.go implements "latex-mcp history show", the detail view of one run.

package history

import (
	"fmt"
	"io"

	"github.com/sepinetam/latex-mcp/cmd"
	"github.com/sepinetam/latex-mcp/extension"
	"github.com/sepinetam/latex-mcp/internal/history"
	"github.com/spf13/cobra"
)

func (e *Extension) newShowCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "show <id|run-id>",
		Short: "Show one recorded compile",
		Long: `Show one recorded compile by its history id or by the run_id a
latex_compile response carried. --log appends the full compiler output.`,
		Args: cobra.ExactArgs(1),
		RunE: e.runShow,
	}
	c.Flags().Bool(extension.FlagLog, false, "Include the compiler output")
	return c
}

func (e *Extension) runShow(c *cobra.Command, args []string) error {
	withLog, _ := c.Flags().GetBool(extension.FlagLog)

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}
	entry, err := history.Show(c.Context(), w, args[0], withLog)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("history show %s: %w", args[0], err))
	}
	return cmd.PrintJSON(entry)
}
