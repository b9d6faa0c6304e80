package driven

import (
	"context"

	"github.com/custodia-labs/reportrag/internal/core/domain"
)

// PostProcessor transforms chunks of a report.
// PostProcessors are chained in a pipeline (e.g., image stripping, chunking).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process receives the chunks produced so far and returns the replacement set.
	Process(ctx context.Context, report *domain.Report, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the chunks through all processors in order.
	Process(ctx context.Context, report *domain.Report, chunks []domain.Chunk) ([]domain.Chunk, error)
}
