package main

import (
	"github.com/spf13/cobra"

	"github.com/stephendolan/chartmogul-cli/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run as an MCP server over stdio",
	Long: `Runs a Model Context Protocol server on stdin/stdout, exposing
ChartMogul metrics, customers, and activities as tools. Point an MCP
client at "chartmogul mcp". All diagnostics go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return mcp.NewServer(newClient(), logger).Serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
