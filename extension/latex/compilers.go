// compilers.go implements the "latex-mcp compilers" command, the CLI
// counterpart of latex_list_compilers.

package latex

import (
	"github.com/sepinetam/latex-mcp/cmd"
	"github.com/sepinetam/latex-mcp/internal/format"
	"github.com/sepinetam/latex-mcp/internal/log"
	"github.com/spf13/cobra"
)

func (e *Extension) newCompilersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compilers",
		Short: "List installed TeX engines and helpers",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			inv := e.svc.Inventory()
			log.Event("latex:compilers", "list").Detail("compilers", inv.Compilers).Write(nil)
			if cmd.JSON() {
				return cmd.PrintJSON(inv)
			}
			return format.Inventory(cmd.Out(), inv)
		},
	}
}
