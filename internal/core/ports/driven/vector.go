package driven

import (
	"context"

	"github.com/custodia-labs/reportrag/internal/core/domain"
)

// VectorIndex provides semantic similarity search over named collections.
// Backed by chromem-go (embedded) or Qdrant (remote).
type VectorIndex interface {
	// Upsert inserts or replaces vectors in a collection.
	Upsert(ctx context.Context, collection string, items []VectorItem) error

	// Search finds the k nearest neighbours to the query vector.
	// Only items whose metadata satisfies filter are considered.
	Search(ctx context.Context, collection string, query []float32, k int, filter domain.MetadataFilter) ([]VectorHit, error)

	// DeleteByReport removes every vector belonging to a report.
	DeleteByReport(ctx context.Context, collection, reportID string) error

	// Close releases resources.
	Close() error
}

// VectorItem is a vector to store along with its filterable metadata.
type VectorItem struct {
	ChunkID   string
	ReportID  string
	Embedding []float32
	Metadata  domain.Metadata
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Similarity is the cosine similarity score (0-1).
	Similarity float64
}
