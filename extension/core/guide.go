// guide.go implements the "latex-mcp guide" command for documentation access.
//
// Guides are embedded in the binary, so they work inside a container with
// nothing mounted. Terminal output is rendered with glamour; piped output
// stays raw markdown for loading into an LLM's context.

package core

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/sepinetam/latex-mcp/cmd"
	"github.com/sepinetam/latex-mcp/guide"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newGuideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guide [command]",
		Short: "Show the latex-mcp usage guide",
		Long: `Outputs the latex-mcp guide for LLMs and humans.

  latex-mcp guide           # main guide
  latex-mcp guide compile   # compile options and statuses
  latex-mcp guide docker    # container and agent configuration`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			names, _ := guide.List()
			for i, n := range names {
				if title := guide.Title(n); title != "" {
					names[i] = n + "\t" + title
				}
			}
			return names, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(_ *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}

			content, err := guide.Get(name)
			if err != nil {
				available, listErr := guide.List()
				if listErr != nil {
					return listErr
				}
				return cmd.PrintJSONError(fmt.Errorf("guide %q not found. Available: %s", name, strings.Join(available, ", ")))
			}

			return render(content)
		},
	}
}

// render writes markdown to the command output, styled with glamour when
// stdout is a terminal.
func render(content string) error {
	if cmd.JSON() {
		return cmd.PrintJSON(map[string]string{"content": content})
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		rendered, err := glamour.Render(content, "dark")
		if err == nil {
			fmt.Fprint(cmd.Out(), rendered)
			return nil
		}
	}
	fmt.Fprint(cmd.Out(), content)
	return nil
}
