package mcptools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/chris-regnier/dreamctl/internal/dream"
	"github.com/chris-regnier/dreamctl/internal/journal"
	"github.com/chris-regnier/dreamctl/internal/storage"
)

// ListHandler returns the handler function for the list_dreams MCP tool.
func ListHandler(svc *journal.Service, userID string) func(ctx context.Context, req *mcp.CallToolRequest, input ListInput) (*mcp.CallToolResult, ListOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListInput) (*mcp.CallToolResult, ListOutput, error) {
		opts := storage.ListOptions{
			DraftsOnly: input.DraftsOnly,
			Limit:      input.Limit,
		}
		if opts.Limit <= 0 {
			opts.Limit = defaultLimit
		}

		if input.Mood != "" {
			m, err := dream.ParseMood(input.Mood)
			if err != nil {
				return nil, ListOutput{}, err
			}
			opts.Mood = m
		}
		if input.StartDate != "" {
			t, err := parseDate(input.StartDate)
			if err != nil {
				return nil, ListOutput{}, fmt.Errorf("invalid start_date: %w", err)
			}
			opts.Since = &t
		}
		if input.EndDate != "" {
			t, err := parseDate(input.EndDate)
			if err != nil {
				return nil, ListOutput{}, fmt.Errorf("invalid end_date: %w", err)
			}
			// end_date is inclusive; Until is exclusive.
			t = t.AddDate(0, 0, 1)
			opts.Until = &t
		}

		entries, err := svc.List(ctx, userID, opts)
		if err != nil {
			return nil, ListOutput{}, err
		}

		results := make([]DreamResult, 0, len(entries))
		for _, e := range entries {
			results = append(results, toDreamResult(e))
		}
		return nil, ListOutput{Dreams: results}, nil
	}
}

// ShowHandler returns the handler function for the show_dream MCP tool.
func ShowHandler(svc *journal.Service, userID string) func(ctx context.Context, req *mcp.CallToolRequest, input ShowInput) (*mcp.CallToolResult, ShowOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ShowInput) (*mcp.CallToolResult, ShowOutput, error) {
		e, err := svc.Get(ctx, userID, input.ID)
		if err != nil {
			return nil, ShowOutput{}, err
		}

		out := ShowOutput{Dream: toDreamResult(e), Text: e.DreamText}
		if !e.IsDraft() {
			r := toReadingResult(svc.Reading(e))
			out.Reading = &r
		}
		return nil, out, nil
	}
}
