package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/chris-regnier/dreamctl/internal/journal"
)

// SearchHandler returns the handler function for the search_dreams MCP tool.
func SearchHandler(svc *journal.Service, userID string) func(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
		limit := input.Limit
		if limit <= 0 {
			limit = defaultLimit
		}

		hits, err := svc.Search(ctx, userID, input.Query, limit)
		if err != nil {
			return nil, SearchOutput{}, err
		}

		results := make([]DreamResult, 0, len(hits))
		for _, h := range hits {
			r := toDreamResult(h.Entry)
			r.Score = h.Score
			results = append(results, r)
		}
		return nil, SearchOutput{Dreams: results}, nil
	}
}
