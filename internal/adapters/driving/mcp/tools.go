package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/reportrag/internal/core/domain"
)

// SearchInput is the input schema shared by the retrieval tools.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the question to search the reports for"`
}

// registerTools registers one tool per kind the tool service runs.
func (s *Server) registerTools() {
	for _, kind := range s.ports.Tools.Tools() {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        kind.ToolName(),
			Description: kind.Description(),
		}, s.toolHandler(kind))
	}
}

// toolHandler adapts a tool kind to an MCP handler. Tool failures are
// reported as error results, never as protocol errors.
func (s *Server) toolHandler(kind domain.ToolKind) mcp.ToolHandlerFor[SearchInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, any, error) {
		start := time.Now()
		res := s.ports.Tools.Invoke(ctx, kind, input.Query)
		s.metrics.observe(kind, res.Failed, time.Since(start))

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: res.Text}},
			IsError: res.Failed,
		}, nil, nil
	}
}
