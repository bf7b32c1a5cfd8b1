package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/gitreport/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [repo-path]",
	Short: "Start the gitreport MCP server",
	Long:  `Launch an MCP server on stdio that lets AI agents list branches and authors and summarize commits.`,
	Args:  cobra.MaximumNArgs(1),
	// stdout carries the protocol, so setup output stays on stderr.
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, gitClient, logger)
	},
}
