package markdown

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/reportrag/internal/core/domain"
	"github.com/custodia-labs/reportrag/internal/core/ports/driven"
	"github.com/custodia-labs/reportrag/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// pageMarker matches the page comments written by the report extraction step,
// e.g. <!-- page: 3 -->.
var pageMarker = regexp.MustCompile(`(?i)<!--\s*page[:\s]*(\d+)\s*-->`)

// Normaliser handles Markdown reports.
// Content is kept as markdown so image references survive into chunks.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedExtensions returns the file extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".md", ".markdown"}
}

// Normalise converts a markdown file into a report split by page markers.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawReport) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := normalisers.NormaliseNewlines(string(raw.Content))
	title := extractMarkdownTitle(content, raw.URI)
	pages := splitPages(content)

	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = p.Content
	}

	meta := normalisers.ReportMetadata(raw.URI, title)
	meta["format"] = domain.StringValue("markdown")

	now := time.Now()
	report := domain.Report{
		ID:        uuid.New().String(),
		URI:       raw.URI,
		Title:     title,
		Content:   strings.Join(texts, "\n\n"),
		Metadata:  meta,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return &driven.NormaliseResult{
		Report: report,
		Pages:  pages,
	}, nil
}

// extractMarkdownTitle extracts a title from the markdown content or falls back to filename.
func extractMarkdownTitle(content, uri string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}
	return normalisers.TitleFromURI(uri)
}

// splitPages cuts content at page markers. Text before the first marker
// belongs to the first page. Without markers the whole file is page 1.
func splitPages(content string) []domain.Page {
	locs := pageMarker.FindAllStringSubmatchIndex(content, -1)
	if len(locs) == 0 {
		if text := strings.TrimSpace(content); text != "" {
			return []domain.Page{{Number: 1, Content: text}}
		}
		return nil
	}

	preamble := strings.TrimSpace(content[:locs[0][0]])
	pages := make([]domain.Page, 0, len(locs))
	for i, loc := range locs {
		num, err := strconv.Atoi(content[loc[2]:loc[3]])
		if err != nil || num <= 0 {
			num = i + 1
		}

		end := len(content)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		text := strings.TrimSpace(content[loc[1]:end])
		if i == 0 && preamble != "" {
			text = strings.TrimSpace(preamble + "\n\n" + text)
		}
		if text == "" {
			continue
		}
		pages = append(pages, domain.Page{Number: num, Content: text})
	}
	return pages
}
