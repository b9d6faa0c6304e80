package driven

import (
	"context"

	"github.com/custodia-labs/reportrag/internal/core/domain"
)

// DocumentStore persists reports and chunks.
// Backed by SQLite for metadata storage.
type DocumentStore interface {
	// SaveReport stores or updates a report.
	SaveReport(ctx context.Context, report *domain.Report) error

	// GetReport retrieves a report by ID.
	GetReport(ctx context.Context, id string) (*domain.Report, error)

	// GetReportByURI retrieves a report by its source location.
	GetReportByURI(ctx context.Context, uri string) (*domain.Report, error)

	// ListReports returns every indexed report.
	ListReports(ctx context.Context) ([]domain.Report, error)

	// DeleteReport removes a report and its chunks.
	DeleteReport(ctx context.Context, id string) error

	// SaveChunks stores chunks for a report.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetChunk retrieves a specific chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// GetChunks retrieves all chunks for a report, ordered by collection and position.
	GetChunks(ctx context.Context, reportID string) ([]domain.Chunk, error)
}
