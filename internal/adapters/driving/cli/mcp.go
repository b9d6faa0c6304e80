package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/reportrag/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server exposing the three report tools:
search_bok_reports_basic, search_bok_reports_self_query and
search_bok_reports_multimodal.

By default, the server communicates over stdio using JSON-RPC.

Use --port or --http to serve over HTTP instead. The HTTP server exposes:
  /mcp      streamable MCP endpoint
  /healthz  health probe
  /metrics  Prometheus metrics

Examples:
  # Stdio mode (default, for desktop agents)
  reportrag mcp serve

  # HTTP mode on the configured server.addr
  reportrag mcp serve --http

  # HTTP mode on a given port
  reportrag mcp serve --port 8765

Agent configuration:
  {
    "mcpServers": {
      "reportrag": {
        "command": "/path/to/reportrag",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().Bool("http", false, "serve over HTTP on the configured server.addr")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	useHTTP, err := cmd.Flags().GetBool("http")
	if err != nil {
		return fmt.Errorf("getting http flag: %w", err)
	}

	if err := requireRuntime(); err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Tools: toolService,
		Index: indexService,
	})
	if err != nil {
		return err
	}

	addr, err := listenAddr(port, useHTTP)
	if err != nil {
		return err
	}
	if addr == "" {
		return server.Run(cmd.Context())
	}

	// stdout is free in HTTP mode.
	fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://%s/mcp\n", addr)
	return server.RunHTTP(cmd.Context(), addr)
}

// listenAddr picks the HTTP address, or "" for stdio.
func listenAddr(port int, useHTTP bool) (string, error) {
	if port > 0 {
		return fmt.Sprintf("127.0.0.1:%d", port), nil
	}
	if !useHTTP {
		return "", nil
	}
	ss, err := requireSettings()
	if err != nil {
		return "", err
	}
	settings, err := ss.Get()
	if err != nil {
		return "", fmt.Errorf("reading settings: %w", err)
	}
	return settings.Server.Addr, nil
}
