// clean.go implements the "latex-mcp clean" command.

package latex

import (
	"fmt"
	"io"
	"strings"

	"github.com/sepinetam/latex-mcp/cmd"
	"github.com/sepinetam/latex-mcp/internal/clean"
	"github.com/sepinetam/latex-mcp/internal/format"
	"github.com/sepinetam/latex-mcp/internal/log"
	"github.com/spf13/cobra"
)

func (e *Extension) newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [tex-file]",
		Short: "Remove auxiliary files",
		Long: `Remove the files LaTeX leaves next to the sources (.aux, .log, .toc,
.bbl, .synctex.gz, ...). Sources, images and PDFs are never removed.

  latex-mcp clean            # every document's auxiliary files
  latex-mcp clean paper.tex  # only paper.aux, paper.log, ...

Extensions removed: ` + strings.Join(clean.AuxExtensions, " "),
		Args: cobra.MaximumNArgs(1),
		RunE: e.runClean,
	}
}

func (e *Extension) runClean(c *cobra.Command, args []string) error {
	texFile := ""
	if len(args) > 0 {
		texFile = args[0]
	}

	var w io.Writer = cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	res, err := e.svc.Clean(c.Context(), w, cmd.Dir(), texFile)

	log.Event("latex:clean", "clean").
		Project(cmd.Dir()).
		TexFile(texFile).
		Detail("removed", len(res.RemovedFiles)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("clean: %w", err))
	}
	if cmd.JSON() {
		if err := cmd.PrintJSON(res); err != nil {
			return err
		}
	} else if err := format.Clean(cmd.Out(), res); err != nil {
		return err
	}
	if !res.Success {
		return cmd.Fail(c, fmt.Errorf("clean: %s", res.Message))
	}
	return nil
}
