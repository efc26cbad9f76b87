// prune.go implements "latex-mcp history prune".

package history

import (
	"errors"
	"fmt"
	"time"

	"github.com/sepinetam/latex-mcp/cmd"
	"github.com/sepinetam/latex-mcp/extension"
	"github.com/sepinetam/latex-mcp/internal/duration"
	"github.com/sepinetam/latex-mcp/internal/history"
	"github.com/sepinetam/latex-mcp/internal/log"
	"github.com/spf13/cobra"
)

func (e *Extension) newPruneCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "prune",
		Short: "Delete old history",
		Long: `Delete history entries older than a duration, across every working
directory. Durations accept d and w units: 30d, 2w, 12h.`,
		Args: cobra.NoArgs,
		RunE: e.runPrune,
	}
	c.Flags().String(extension.FlagOlderThan, "30d", "Delete entries older than this")
	return c
}

func (e *Extension) runPrune(c *cobra.Command, _ []string) error {
	s, _ := c.Flags().GetString(extension.FlagOlderThan)
	age, err := duration.Parse(s)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("--%s: %w", extension.FlagOlderThan, err))
	}

	n, err := log.Prune(c.Context(), time.Now().Add(-age))
	if errors.Is(err, log.ErrNotOpen) {
		err = history.ErrDisabled
	}
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("history prune: %w", err))
	}

	if cmd.JSON() {
		return cmd.PrintJSON(map[string]any{"removed": n, "older_than": s})
	}
	fmt.Fprintf(cmd.Out(), "Removed %d entries older than %s\n", n, s)
	return nil
}
