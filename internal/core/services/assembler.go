package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/reportrag/internal/core/domain"
	"github.com/custodia-labs/reportrag/internal/core/ports/driven"
)

// blockSeparator joins per-document blocks in a response.
const blockSeparator = "\n\n"

// foundImagesPrefix introduces the per-document image annotation.
const foundImagesPrefix = "> Found Images: "

// Assembler turns retrieved documents into tool responses.
// It holds no per-call state and is safe for concurrent use.
type Assembler struct {
	resolver    *ImageResolver
	sourceLabel string
}

// NewAssembler creates an assembler. resolver may be nil, in which case
// multimodal responses carry no images.
func NewAssembler(resolver *ImageResolver, sourceLabel string) *Assembler {
	if sourceLabel == "" {
		sourceLabel = domain.DefaultSourceLabel
	}
	return &Assembler{resolver: resolver, sourceLabel: sourceLabel}
}

// Assemble retrieves documents for query and renders the response for kind.
// Retriever failures are returned unchanged; an empty result is not an error.
func (a *Assembler) Assemble(
	ctx context.Context, kind domain.ToolKind, retriever driven.Retriever, query string,
) (string, error) {
	docs, err := retriever.Retrieve(ctx, query)
	if err != nil {
		return "", err
	}

	if kind == domain.ToolMultimodal {
		return a.Multimodal(a.Aggregate(docs, true))
	}
	return a.Plain(a.Aggregate(docs, false)), nil
}

// Aggregate formats docs in retrieval order. With resolveImages set, each
// block is annotated with the images its document references, and the
// result collects every distinct image in first-occurrence order.
func (a *Assembler) Aggregate(docs []domain.Document, resolveImages bool) domain.AggregatedResult {
	result := domain.AggregatedResult{
		Documents:    docs,
		UniqueImages: []string{},
		TextBlocks:   make([]string, 0, len(docs)),
	}
	seen := newOrderedSet()

	for i, doc := range docs {
		block := FormatDocument(i+1, doc)

		if resolveImages && a.resolver != nil {
			local := a.resolver.ResolveAll(doc.Content)
			if len(local) > 0 {
				block += "\n" + foundImagesPrefix + strings.Join(local, ", ")
			}
			for _, p := range local {
				seen.Add(p)
			}
		}

		result.TextBlocks = append(result.TextBlocks, block)
	}

	result.UniqueImages = seen.Items()
	return result
}

// Plain renders the text response shared by the basic and self-query tools.
func (a *Assembler) Plain(result domain.AggregatedResult) string {
	if result.IsEmpty() {
		return domain.NoDocumentsFound
	}
	return strings.Join(result.TextBlocks, blockSeparator)
}

// Multimodal renders the JSON payload of the multimodal tool.
func (a *Assembler) Multimodal(result domain.AggregatedResult) (string, error) {
	payload := domain.MultimodalPayload{
		Context: domain.NoTextContextFound,
		Images:  result.UniqueImages,
		Source:  a.sourceLabel,
	}
	if !result.IsEmpty() {
		payload.Context = strings.Join(result.TextBlocks, blockSeparator)
	}
	if payload.Images == nil {
		payload.Images = []string{}
	}
	return EncodePayload(payload)
}

// EncodePayload serialises a multimodal payload as compact JSON.
// Non-ASCII text and HTML-significant characters are written verbatim.
func EncodePayload(p domain.MultimodalPayload) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return "", fmt.Errorf("encode multimodal payload: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
