package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server",
	Long:  `Expose planning and knowledge search over the Model Context Protocol.`,
	RunE:  runMCPServe,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve MCP clients over stdio or HTTP",
	Long: `Serve itinerary planning and knowledge search to MCP clients.

The server speaks JSON-RPC over stdio, which is what Claude Desktop and
most MCP-capable assistants expect. Pass --http to listen on an HTTP
address instead; that mode suits the MCP Inspector web UI and remote
clients.

Examples:
  wayfarer mcp serve               # stdio, for assistant integration
  wayfarer mcp serve --http :8700  # HTTP, for MCP Inspector

A Claude Desktop entry in claude_desktop_config.json looks like:
  {
    "mcpServers": {
      "wayfarer": {"command": "/path/to/wayfarer", "args": ["mcp", "serve"]}
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpCmd.PersistentFlags().String("http", "", "HTTP listen address, e.g. :8700 (empty = stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("http")
	if err != nil {
		return fmt.Errorf("read http flag: %w", err)
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Plan:   planService,
		Search: searchService,
	})
	if err != nil {
		return err
	}

	if addr != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}
	return server.Run(cmd.Context())
}
