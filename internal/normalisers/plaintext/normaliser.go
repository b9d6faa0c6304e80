package plaintext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/reportrag/internal/core/domain"
	"github.com/custodia-labs/reportrag/internal/core/ports/driven"
	"github.com/custodia-labs/reportrag/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text reports, such as text extracted from PDFs.
// Form feeds separate pages.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedExtensions returns the file extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".txt"}
}

// Normalise converts a text file into a report with one page per form feed.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawReport) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := normalisers.NormaliseNewlines(string(raw.Content))
	title := firstLine(content)
	if title == "" {
		title = normalisers.TitleFromURI(raw.URI)
	}

	var pages []domain.Page
	for i, part := range strings.Split(content, "\f") {
		if text := strings.TrimSpace(part); text != "" {
			pages = append(pages, domain.Page{Number: i + 1, Content: text})
		}
	}

	meta := normalisers.ReportMetadata(raw.URI, title)
	meta["format"] = domain.StringValue("text")

	now := time.Now()
	return &driven.NormaliseResult{
		Report: domain.Report{
			ID:        uuid.New().String(),
			URI:       raw.URI,
			Title:     title,
			Content:   strings.TrimSpace(strings.ReplaceAll(content, "\f", "\n\n")),
			Metadata:  meta,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Pages: pages,
	}, nil
}

// firstLine returns the first non-blank line, capped at 120 runes.
func firstLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if r := []rune(line); len(r) > 120 {
			return string(r[:120])
		}
		return line
	}
	return ""
}
