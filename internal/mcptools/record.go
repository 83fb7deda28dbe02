package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/chris-regnier/dreamctl/internal/dream"
	"github.com/chris-regnier/dreamctl/internal/journal"
)

// RecordHandler returns the handler function for the record_dream MCP tool.
// When interpretation fails after the draft was saved, the draft is returned
// with the failure in Error instead of failing the call.
func RecordHandler(svc *journal.Service, userID string) func(ctx context.Context, req *mcp.CallToolRequest, input RecordInput) (*mcp.CallToolResult, RecordOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input RecordInput) (*mcp.CallToolResult, RecordOutput, error) {
		var mood dream.Mood
		if input.Mood != "" {
			m, err := dream.ParseMood(input.Mood)
			if err != nil {
				return nil, RecordOutput{}, err
			}
			mood = m
		}

		e, err := svc.Record(ctx, journal.RecordInput{
			UserID: userID,
			Text:   input.Text,
			Title:  input.Title,
			Mood:   mood,
			Defer:  input.Defer,
		})
		if err != nil && e.ID == "" {
			return nil, RecordOutput{}, err
		}

		out := RecordOutput{Dream: toDreamResult(e)}
		if err != nil {
			out.Error = err.Error()
		}
		return nil, out, nil
	}
}

// InterpretHandler returns the handler function for the interpret_dream MCP tool.
func InterpretHandler(svc *journal.Service, userID string) func(ctx context.Context, req *mcp.CallToolRequest, input InterpretInput) (*mcp.CallToolResult, InterpretOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input InterpretInput) (*mcp.CallToolResult, InterpretOutput, error) {
		e, err := svc.Interpret(ctx, userID, input.ID)
		if err != nil {
			return nil, InterpretOutput{}, err
		}
		return nil, InterpretOutput{
			Dream:   toDreamResult(e),
			Reading: toReadingResult(svc.Reading(e)),
		}, nil
	}
}
