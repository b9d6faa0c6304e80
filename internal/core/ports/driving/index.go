package driving

import (
	"context"

	"github.com/custodia-labs/reportrag/internal/core/domain"
)

// IndexService ingests report files into the retrieval index.
type IndexService interface {
	// IndexPath indexes every supported file under path (a file or a directory).
	IndexPath(ctx context.Context, path string) (IndexStats, error)

	// IndexFile indexes one file, replacing any previous version of it.
	IndexFile(ctx context.Context, path string) (int, error)

	// RemoveFile removes a previously indexed file.
	RemoveFile(ctx context.Context, path string) error

	// ListReports returns indexed reports.
	ListReports(ctx context.Context) ([]domain.Report, error)
}

// IndexStats summarises an indexing run.
type IndexStats struct {
	Files   int
	Chunks  int
	Skipped int
	Failed  int
}
