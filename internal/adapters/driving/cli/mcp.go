package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/prodscout/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start a Model Context Protocol server that exposes product search to
AI assistants.

The server speaks JSON-RPC over stdio by default. Use --port to serve
streamable HTTP instead, e.g. for the MCP Inspector.

Examples:
  prodscout mcp serve
  prodscout mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "prodscout": {
        "command": "/path/to/prodscout",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	svc, err := loadServices(cmd, false)
	if err != nil {
		return err
	}
	defer closeServices()

	server, err := mcp.NewServer(&mcp.Ports{
		Session:   svc.Session,
		Documents: svc.Documents,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
