package driven

import (
	"context"

	"github.com/custodia-labs/reportrag/internal/core/domain"
)

// Normaliser transforms a raw report file into indexed form.
type Normaliser interface {
	// SupportedExtensions returns the file extensions this normaliser handles, with dots.
	SupportedExtensions() []string

	// Normalise turns raw bytes into a report and its pages.
	Normalise(ctx context.Context, raw *domain.RawReport) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
// Chunking is handled by the PostProcessor pipeline.
type NormaliseResult struct {
	// Report has Title, Content and Metadata populated.
	Report domain.Report

	// Pages holds the report split at page markers, in order.
	Pages []domain.Page
}
