package mcpadapter

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/povarna/mf-faq-agent/internal/models"
	"github.com/povarna/mf-faq-agent/internal/orchestrator"
	"github.com/povarna/mf-faq-agent/internal/schemes"
)

// AskInput is the MCP tool input schema (matches HTTP API field names).
type AskInput struct {
	QueryID string `json:"query_id,omitempty" jsonschema:"optional query identifier"`
	Query   string `json:"query" jsonschema:"mutual fund FAQ question"`
}

// SchemesOutput lists the schemes the agent can answer about.
type SchemesOutput struct {
	Schemes []string `json:"schemes"`
}

// NewAskHandler returns a tool handler that answers one FAQ query through
// the full pipeline. Pass the returned function to mcp.AddTool.
func NewAskHandler(orch *orchestrator.Orchestrator) func(context.Context, *mcp.CallToolRequest, AskInput) (*mcp.CallToolResult, models.FormattedResponse, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, models.FormattedResponse, error) {
		result := orch.Process(ctx, input.Query)
		return nil, result, nil
	}
}

// NewListSchemesHandler returns a tool handler that lists the supported
// schemes. Pass the returned function to mcp.AddTool.
func NewListSchemesHandler(resolver *schemes.Resolver) func(context.Context, *mcp.CallToolRequest, struct{}) (*mcp.CallToolResult, SchemesOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, SchemesOutput, error) {
		return nil, SchemesOutput{Schemes: resolver.Available()}, nil
	}
}
