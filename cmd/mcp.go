package cmd

import (
	"github.com/sahajm/bidscope/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the bidscope MCP server",
	Long:  `Launch an MCP server that allows AI agents to evaluate, match and quote tenders via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Suppress the normal header logs when running in MCP mode
		// to avoid polluting stdio which is used for the protocol.
		return mcpSetup(cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, refTables)
	},
}

// mcpSetup runs shared setup without requiring a positional tenders file.
// MCP tools receive the tenders path per call instead.
func mcpSetup(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
