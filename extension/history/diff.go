// diff.go implements "latex-mcp history diff", a line diff of the compiler
// output of two runs. It answers "what changed in the log since it last
// built" without keeping log files in the working directory.

package history

import (
	"fmt"
	"io"

	"github.com/sepinetam/latex-mcp/cmd"
	"github.com/sepinetam/latex-mcp/internal/diff"
	"github.com/sepinetam/latex-mcp/internal/history"
	"github.com/sepinetam/latex-mcp/internal/log"
	"github.com/spf13/cobra"
)

func (e *Extension) newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff [old:new | old new]",
		Short: "Diff the compiler output of two runs",
		Long: `Diff the compiler output of two recorded compiles.

  latex-mcp history diff          # last two compiles of this directory
  latex-mcp history diff 12:15
  latex-mcp history diff 12 15`,
		Args: cobra.MaximumNArgs(2),
		RunE: e.runDiff,
	}
}

func (e *Extension) runDiff(c *cobra.Command, args []string) error {
	ctx := c.Context()

	var oldRef, newRef, dir string
	var err error
	switch len(args) {
	case 0:
		dir, err = e.svc.WorkingDir(cmd.Dir())
		if err == nil {
			oldRef, newRef, err = history.Latest(ctx, dir)
		}
	case 1:
		oldRef, newRef, err = diff.ParseRange(args[0])
	default:
		oldRef, newRef = args[0], args[1]
	}
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("history diff: %w", err))
	}

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}
	res, err := history.Diff(ctx, w, oldRef, newRef, cmd.Colour())

	log.Event("history:diff", "diff").
		Project(dir).
		Detail("old", oldRef).
		Detail("new", newRef).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("history diff %s:%s: %w", oldRef, newRef, err))
	}
	return cmd.PrintJSON(res)
}
