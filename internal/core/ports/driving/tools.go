package driving

import (
	"context"

	"github.com/custodia-labs/reportrag/internal/core/domain"
)

// ToolService runs the retrieval tools.
// Invoke never returns an error: failures are reported as text in the result.
type ToolService interface {
	// Invoke runs one tool for a query.
	Invoke(ctx context.Context, kind domain.ToolKind, query string) domain.ToolResult

	// Tools lists the tools this service can run.
	Tools() []domain.ToolKind
}
