package cli

import (
	"fmt"

	"github.com/neilberkman/chatrider/cmd/chatrider/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "serve-mcp",
	Short: "Start MCP server over the chat archive",
	Long: `Start an MCP (Model Context Protocol) server on stdio that exposes the
archive to MCP clients: message search, chat listing, and chat retrieval.
Unless --no-sync is set, the configured exports directory is imported
before each tool call.

Example client config:
  {
    "mcpServers": {
      "chatrider": {
        "command": "chatrider",
        "args": ["serve-mcp"]
      }
    }
  }
`,
	RunE: runMCP,
}

var mcpNoSync bool

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().BoolVar(&mcpNoSync, "no-sync", false, "Do not import new exports before each tool call")
}

func runMCP(cmd *cobra.Command, args []string) error {
	opts := mcp.Options{Rules: cfg.ContentRules()}
	if !mcpNoSync {
		opts.ExportsDir = cfg.ExportsDir
	}
	if err := mcp.StartServer(dbPath, opts); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
