// list.go implements "latex-mcp history", the listing of recent compiles.

package history

import (
	"fmt"
	"io"

	"github.com/sepinetam/latex-mcp/cmd"
	"github.com/sepinetam/latex-mcp/extension"
	"github.com/sepinetam/latex-mcp/internal/history"
	"github.com/sepinetam/latex-mcp/internal/log"
	"github.com/spf13/cobra"
)

func (e *Extension) newHistoryCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "history",
		Short: "List recent compiles",
		Long: `List recent compiles of the working directory, newest first.

  latex-mcp history              # this directory
  latex-mcp history --all        # every directory
  latex-mcp history --failed     # runs that produced no PDF
  latex-mcp history show 12 --log
  latex-mcp history diff         # compiler output of the last two runs

History is stored in ~/.latex-mcp/log and can be turned off with
"latex-mcp config history.enabled false".`,
		Args: cobra.NoArgs,
		RunE: e.runHistory,
	}
	c.Flags().Bool(extension.FlagAll, false, "Include every working directory")
	c.Flags().Bool(extension.FlagFailed, false, "Only runs that did not produce a PDF")
	c.Flags().IntP(extension.FlagLimit, "n", 20, "Maximum runs shown")
	return c
}

func (e *Extension) runHistory(c *cobra.Command, _ []string) error {
	all, _ := c.Flags().GetBool(extension.FlagAll)
	failed, _ := c.Flags().GetBool(extension.FlagFailed)
	limit, _ := c.Flags().GetInt(extension.FlagLimit)
	if limit < 0 {
		return cmd.PrintJSONError(fmt.Errorf("limit must be >= 0, got %d", limit))
	}

	opts := history.Options{Limit: limit, Failed: failed, Colour: cmd.Colour()}
	if !all {
		dir, err := e.svc.WorkingDir(cmd.Dir())
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("history: %w", err))
		}
		opts.Dir = dir
	}

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}
	res, err := history.Run(c.Context(), w, opts)

	log.Event("history:list", "history").
		Project(opts.Dir).
		Detail("count", len(res.Runs)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("history: %w", err))
	}
	return cmd.PrintJSON(res)
}
