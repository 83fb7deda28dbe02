package cmd

import (
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chris-regnier/dreamctl/internal/mcptools"
)

var mcpServeCmd = &cobra.Command{
	Use:   "mcp-serve",
	Short: "Run MCP server on stdio",
	Long: `Starts a Model Context Protocol (MCP) server that exposes the dream journal
over stdio transport, acting as the configured user.

Available tools:
  - list_dreams: List dreams filtered by mood, draft status or date range
  - search_dreams: Fuzzy text search over titles, text and moods
  - show_dream: A dream with its parsed interpretation
  - record_dream: Record a dream and interpret it
  - interpret_dream: Interpret or re-interpret a stored dream

Example usage in an MCP client config:
  {
    "mcpServers": {
      "dreamctl": {
        "command": "/path/to/dreamctl",
        "args": ["mcp-serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	rootCmd.AddCommand(mcpServeCmd)
}

func runMCPServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := mcptools.CreateMCPServer(svc, appConfig.User)

	// stdout carries the protocol; the logger writes to stderr.
	logger.Info("starting MCP server",
		zap.String("transport", "stdio"),
		zap.String("storage", appConfig.Storage),
		zap.String("user", appConfig.User),
		zap.Bool("interpretation", clientErr == nil),
	)
	return server.Run(ctx, &mcp.StdioTransport{})
}
