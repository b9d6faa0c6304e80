// Package chunker provides a fixed-size, rune-aware text chunking processor.
//
// Chunk boundaries never fall inside a markdown image reference, so every
// reference in a chunk is complete and can be resolved by the tools.
package chunker

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/custodia-labs/reportrag/internal/core/domain"
)

// Name is the processor name used in configuration.
const Name = "chunker"

// DefaultChunkSize is the default number of runes per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping runes.
const DefaultChunkOverlap = 200

var imageRef = regexp.MustCompile(`!\[.*?\]\((.*?)\)`)

// Processor splits chunk content into fixed-size chunks.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in runes.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in runes.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return Name
}

// Process splits every input chunk into sized chunks. Output chunks inherit
// the report, collection and metadata of their input and are numbered in order.
func (p *Processor) Process(ctx context.Context, report *domain.Report, chunks []domain.Chunk) ([]domain.Chunk, error) {
	out := make([]domain.Chunk, 0, len(chunks))
	position := 0

	for _, in := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, text := range p.Split(in.Content) {
			reportID := in.ReportID
			if reportID == "" && report != nil {
				reportID = report.ID
			}
			out = append(out, domain.Chunk{
				ID:         uuid.New().String(),
				ReportID:   reportID,
				Collection: in.Collection,
				Content:    text,
				Position:   position,
				Metadata:   in.Metadata.Clone(),
			})
			position++
		}
	}

	return out, nil
}

// span is a half-open rune range.
type span struct{ start, end int }

// Split cuts content into chunks of at most chunkSize runes, except where an
// image reference longer than that would otherwise be cut. Whitespace-only
// pieces are dropped.
func (p *Processor) Split(content string) []string {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	runes := []rune(content)
	n := len(runes)
	protected := imageSpans(content)

	var pieces []string
	start := 0
	for start < n {
		end := start + p.chunkSize
		if end >= n {
			end = n
		} else {
			end = p.adjustEnd(runes, protected, start, end)
		}

		if piece := strings.TrimSpace(string(runes[start:end])); piece != "" {
			pieces = append(pieces, piece)
		}
		if end >= n {
			break
		}

		next := end - p.overlap
		if s, ok := containing(protected, next); ok {
			next = s.start
		}
		if next <= start {
			next = end
		}
		start = next
	}

	return pieces
}

// adjustEnd moves a cut out of any image reference, then back to the
// nearest line or word break in the second half of the window.
func (p *Processor) adjustEnd(runes []rune, protected []span, start, end int) int {
	if s, ok := containing(protected, end); ok {
		if s.start > start {
			end = s.start
		} else {
			return s.end
		}
	}

	floor := start + p.chunkSize/2
	if brk := lastBreak(runes, protected, floor, end, '\n'); brk > 0 {
		return brk
	}
	if brk := lastBreak(runes, protected, floor, end, 0); brk > 0 {
		return brk
	}
	return end
}

// lastBreak finds the last cut position in (floor, end] directly after
// want (or any space when want is 0) that is not inside a protected span.
func lastBreak(runes []rune, protected []span, floor, end int, want rune) int {
	for i := end - 1; i > floor; i-- {
		r := runes[i]
		match := r == want
		if want == 0 {
			match = unicode.IsSpace(r)
		}
		if !match {
			continue
		}
		if _, inside := containing(protected, i+1); inside {
			continue
		}
		return i + 1
	}
	return 0
}

// containing returns the span strictly containing cut position pos.
func containing(spans []span, pos int) (span, bool) {
	for _, s := range spans {
		if pos > s.start && pos < s.end {
			return s, true
		}
	}
	return span{}, false
}

// imageSpans returns the rune ranges of image references in content.
func imageSpans(content string) []span {
	locs := imageRef.FindAllStringIndex(content, -1)
	if len(locs) == 0 {
		return nil
	}
	spans := make([]span, 0, len(locs))
	for _, loc := range locs {
		spans = append(spans, span{
			start: len([]rune(content[:loc[0]])),
			end:   len([]rune(content[:loc[1]])),
		})
	}
	return spans
}
