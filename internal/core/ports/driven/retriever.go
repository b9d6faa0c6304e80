package driven

import (
	"context"

	"github.com/custodia-labs/reportrag/internal/core/domain"
)

// Retriever returns the documents most relevant to a query, best first.
// An empty slice is a valid answer; errors are backend failures.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]domain.Document, error)
}

// FilterInferrer derives a metadata filter from a natural-language query.
// The returned query is what should be embedded; it may equal the input.
type FilterInferrer interface {
	Infer(ctx context.Context, query string) (string, domain.MetadataFilter, error)
}
