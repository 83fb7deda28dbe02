// Package mcptools exposes the dream journal to MCP clients.
package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/chris-regnier/dreamctl/internal/journal"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// NewDreamMCPServer creates an in-memory MCP server exposing dream tools.
// Returns the server and a client transport for connecting to it.
func NewDreamMCPServer(svc *journal.Service, userID string) (*mcp.Server, mcp.Transport) {
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	server := CreateMCPServer(svc, userID)

	go func() {
		_, _ = server.Connect(context.Background(), serverTransport, nil)
	}()

	return server, clientTransport
}

// CreateMCPServer creates an MCP server with the dream tools registered. All
// tools act on behalf of userID.
func CreateMCPServer(svc *journal.Service, userID string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "dreamctl",
		Version: Version,
	}, nil)

	// Read tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_dreams",
		Description: "List recorded dreams, newest first, filtered by mood, draft status or date range",
	}, ListHandler(svc, userID))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_dreams",
		Description: "Fuzzy search dreams by title, mood and text",
	}, SearchHandler(svc, userID))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "show_dream",
		Description: "Show a dream with its structured interpretation, symbols and lucid dreaming guidance",
	}, ShowHandler(svc, userID))

	// Write tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "record_dream",
		Description: "Record a new dream and interpret it unless defer is set",
	}, RecordHandler(svc, userID))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "interpret_dream",
		Description: "Ask the model to interpret (or re-interpret) a recorded dream",
	}, InterpretHandler(svc, userID))

	return server
}
