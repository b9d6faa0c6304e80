// Package imagestrip removes markdown image references from chunk content.
package imagestrip

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/reportrag/internal/core/domain"
)

// Name is the processor name used in configuration.
const Name = "imagestrip"

var (
	imageRef   = regexp.MustCompile(`!\[.*?\]\((.*?)\)`)
	blankLines = regexp.MustCompile(`\n{3,}`)
)

// Processor drops image markup so text-only chunks embed prose alone.
type Processor struct{}

// New creates an image stripping processor.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return Name
}

// Process strips image references from every chunk. Chunks left empty are dropped.
func (p *Processor) Process(_ context.Context, _ *domain.Report, chunks []domain.Chunk) ([]domain.Chunk, error) {
	out := make([]domain.Chunk, 0, len(chunks))
	for _, c := range chunks {
		c.Content = Strip(c.Content)
		if c.Content == "" {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// Strip removes image references and the blank lines they leave behind.
func Strip(content string) string {
	content = imageRef.ReplaceAllString(content, "")
	content = blankLines.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
