package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/reportrag/internal/core/domain"
	"github.com/custodia-labs/reportrag/internal/core/ports/driven"
	"github.com/custodia-labs/reportrag/internal/logger"
)

// Ensure retrievers implement the interface.
var (
	_ driven.Retriever = (*VectorRetriever)(nil)
	_ driven.Retriever = (*SelfQueryRetriever)(nil)
)

// VectorRetriever embeds the query and returns the nearest chunks of one collection.
type VectorRetriever struct {
	collection  string
	topK        int
	embedding   driven.EmbeddingService
	vectorIndex driven.VectorIndex
	docStore    driven.DocumentStore
}

// NewVectorRetriever creates a retriever over collection returning up to topK documents.
func NewVectorRetriever(
	collection string,
	topK int,
	embedding driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
	docStore driven.DocumentStore,
) *VectorRetriever {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &VectorRetriever{
		collection:  collection,
		topK:        topK,
		embedding:   embedding,
		vectorIndex: vectorIndex,
		docStore:    docStore,
	}
}

// Collection returns the collection searched.
func (r *VectorRetriever) Collection() string {
	return r.collection
}

// Retrieve returns the documents most similar to query.
func (r *VectorRetriever) Retrieve(ctx context.Context, query string) ([]domain.Document, error) {
	return r.RetrieveFiltered(ctx, query, nil)
}

// RetrieveFiltered returns the documents most similar to query among those matching filter.
func (r *VectorRetriever) RetrieveFiltered(
	ctx context.Context, query string, filter domain.MetadataFilter,
) ([]domain.Document, error) {
	if r.embedding == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if r.vectorIndex == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}
	if r.docStore == nil {
		return nil, errors.New("document store unavailable")
	}

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no documents")
		return []domain.Document{}, nil
	}

	logger.Debug("Vector retrieval: collection=%s, k=%d, filter=%s", r.collection, r.topK, filter)

	vec, err := r.embedding.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("generate query embedding: %w", err)
	}

	hits, err := r.vectorIndex.Search(ctx, r.collection, vec, r.topK, filter)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	logger.Debug("Vector retrieval: %d hits", len(hits))

	return r.hydrate(ctx, hits)
}

// hydrate loads the chunks behind hits, keeping hit order.
func (r *VectorRetriever) hydrate(ctx context.Context, hits []driven.VectorHit) ([]domain.Document, error) {
	docs := make([]domain.Document, 0, len(hits))
	for _, hit := range hits {
		chunk, err := r.docStore.GetChunk(ctx, hit.ChunkID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Index and store can briefly disagree while a report is re-indexed.
				logger.Debug("Chunk %s missing from store, skipping", hit.ChunkID)
				continue
			}
			return nil, fmt.Errorf("get chunk %s: %w", hit.ChunkID, err)
		}
		docs = append(docs, chunk.ToDocument())
	}
	return docs, nil
}

// SelfQueryRetriever infers a metadata filter from the query before vector retrieval.
type SelfQueryRetriever struct {
	inferrer driven.FilterInferrer
	base     *VectorRetriever
}

// NewSelfQueryRetriever creates a filter-inferring retriever over base.
func NewSelfQueryRetriever(inferrer driven.FilterInferrer, base *VectorRetriever) *SelfQueryRetriever {
	return &SelfQueryRetriever{inferrer: inferrer, base: base}
}

// Retrieve infers a filter and runs a filtered vector retrieval.
func (r *SelfQueryRetriever) Retrieve(ctx context.Context, query string) ([]domain.Document, error) {
	if r.inferrer == nil {
		return r.base.Retrieve(ctx, query)
	}

	searchQuery, filter, err := r.inferrer.Infer(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("infer filter: %w", err)
	}
	if strings.TrimSpace(searchQuery) == "" {
		searchQuery = query
	}
	logger.Debug("Self-query: query=%q filter=%s", searchQuery, filter)

	return r.base.RetrieveFiltered(ctx, searchQuery, filter)
}
