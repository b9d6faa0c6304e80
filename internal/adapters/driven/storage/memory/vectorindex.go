package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/reportrag/internal/core/domain"
	"github.com/custodia-labs/reportrag/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is a brute-force cosine index held in memory.
// Used by tests and by ephemeral runs.
type VectorIndex struct {
	mu          sync.RWMutex
	collections map[string]map[string]driven.VectorItem
}

// NewVectorIndex creates an empty in-memory vector index.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{collections: make(map[string]map[string]driven.VectorItem)}
}

// Upsert inserts or replaces vectors in a collection.
func (v *VectorIndex) Upsert(_ context.Context, collection string, items []driven.VectorItem) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	c, ok := v.collections[collection]
	if !ok {
		c = make(map[string]driven.VectorItem)
		v.collections[collection] = c
	}
	for _, item := range items {
		if item.ChunkID == "" {
			return fmt.Errorf("%w: vector item without chunk id", domain.ErrInvalidInput)
		}
		item.Embedding = append([]float32(nil), item.Embedding...)
		item.Metadata = item.Metadata.Clone()
		c[item.ChunkID] = item
	}
	return nil
}

// Search returns up to k items ordered by descending similarity.
func (v *VectorIndex) Search(
	_ context.Context, collection string, query []float32, k int, filter domain.MetadataFilter,
) ([]driven.VectorHit, error) {
	if k <= 0 {
		return []driven.VectorHit{}, nil
	}
	v.mu.RLock()
	defer v.mu.RUnlock()

	hits := make([]driven.VectorHit, 0, len(v.collections[collection]))
	for id, item := range v.collections[collection] {
		if !item.Metadata.Matches(filter) {
			continue
		}
		if len(item.Embedding) != len(query) {
			return nil, fmt.Errorf("%w: dimension %d does not match %d",
				domain.ErrInvalidInput, len(query), len(item.Embedding))
		}
		hits = append(hits, driven.VectorHit{ChunkID: id, Similarity: cosine(query, item.Embedding)})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// DeleteByReport removes every vector belonging to a report.
func (v *VectorIndex) DeleteByReport(_ context.Context, collection, reportID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	for id, item := range v.collections[collection] {
		if item.ReportID == reportID {
			delete(v.collections[collection], id)
		}
	}
	return nil
}

// Count returns the number of vectors in a collection.
func (v *VectorIndex) Count(collection string) int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.collections[collection])
}

// Close is a no-op.
func (v *VectorIndex) Close() error {
	return nil
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
