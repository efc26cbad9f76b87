// llm.go implements the "latex-mcp llm" command: a quick reference an
// agent can load to learn the tools and their parameters. The content is
// guide/llm.md, shared with latex_guide.

package core

import (
	"github.com/sepinetam/latex-mcp/cmd"
	"github.com/sepinetam/latex-mcp/guide"
	"github.com/spf13/cobra"
)

func newLlmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "llm",
		Short: "Getting started guide for LLMs",
		Long:  `Quick reference for LLMs: MCP tools, parameters and result statuses.`,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			content, err := guide.Get("llm")
			if err != nil {
				return cmd.PrintJSONError(err)
			}
			return render(content)
		},
	}
}
