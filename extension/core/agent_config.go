// agent_config.go implements "latex-mcp agent-config", which prints or
// installs the mcpServers entry that starts latex-mcp in a container.

package core

import (
	"io"

	"github.com/sepinetam/latex-mcp/cmd"
	"github.com/sepinetam/latex-mcp/extension"
	"github.com/sepinetam/latex-mcp/internal/agentconfig"
	"github.com/sepinetam/latex-mcp/internal/log"
	"github.com/spf13/cobra"
)

func newAgentConfigCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "agent-config",
		Short: "Print the agent MCP configuration",
		Long: `Print the mcpServers entry that runs latex-mcp in Docker, mounting the
current directory at the same path inside the container.

  latex-mcp agent-config                          # print JSON
  latex-mcp agent-config --merge .mcp.json        # add to an agent config
  latex-mcp agent-config --image you/latex:slim   # use another image

--merge accepts files with comments and trailing commas; the file is
rewritten as plain JSON.`,
		Args: cobra.NoArgs,
		RunE: runAgentConfig,
	}
	c.Flags().String(extension.FlagImage, agentconfig.DefaultImage, "Container image")
	c.Flags().String(extension.FlagMerge, "", "Agent config file to add the entry to")
	return c
}

func runAgentConfig(c *cobra.Command, _ []string) error {
	image, _ := c.Flags().GetString(extension.FlagImage)
	merge, _ := c.Flags().GetString(extension.FlagMerge)

	var w io.Writer = cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	res, err := agentconfig.Run(w, agentconfig.Options{Image: image, Merge: merge})

	if merge != "" {
		log.Event("core:agent-config", "merge").Detail("path", merge).Detail("image", image).Write(err)
	}

	if err != nil {
		return cmd.PrintJSONError(err)
	}
	return cmd.PrintJSON(res)
}
