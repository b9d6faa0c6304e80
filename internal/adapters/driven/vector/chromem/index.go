// Package chromem provides an embedded vector index built on chromem-go.
package chromem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/philippgille/chromem-go"

	"github.com/custodia-labs/reportrag/internal/core/domain"
	"github.com/custodia-labs/reportrag/internal/core/ports/driven"
	"github.com/custodia-labs/reportrag/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// reportKey is the reserved metadata key holding the owning report ID.
const reportKey = "_report_id"

// errNoEmbedder is returned if chromem asks for an embedding; all vectors are precomputed.
var errNoEmbedder = errors.New("chromem: vectors must be precomputed")

// Index stores vectors in chromem collections.
// With a path, every write is persisted to disk by chromem.
type Index struct {
	db          *chromem.DB
	mu          sync.RWMutex
	collections map[string]*chromem.Collection
}

// NewIndex opens a persistent index in dir. An empty dir keeps everything in memory.
func NewIndex(dir string) (*Index, error) {
	var db *chromem.DB
	if dir == "" {
		db = chromem.NewDB()
	} else {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("create vector directory: %w", err)
		}
		var err error
		db, err = chromem.NewPersistentDB(dir, false)
		if err != nil {
			return nil, fmt.Errorf("%w: open chromem at %s: %v", domain.ErrVectorIndexUnavailable, dir, err)
		}
		logger.Debug("Opened chromem index at %s", dir)
	}

	return &Index{
		db:          db,
		collections: make(map[string]*chromem.Collection),
	}, nil
}

func (x *Index) collection(name string) (*chromem.Collection, error) {
	x.mu.RLock()
	col, ok := x.collections[name]
	x.mu.RUnlock()
	if ok {
		return col, nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	if col, ok := x.collections[name]; ok {
		return col, nil
	}

	col, err := x.db.GetOrCreateCollection(name, nil, func(context.Context, string) ([]float32, error) {
		return nil, errNoEmbedder
	})
	if err != nil {
		return nil, fmt.Errorf("get collection %q: %w", name, err)
	}
	x.collections[name] = col
	return col, nil
}

// Upsert inserts or replaces vectors in a collection.
func (x *Index) Upsert(ctx context.Context, collection string, items []driven.VectorItem) error {
	if len(items) == 0 {
		return nil
	}
	col, err := x.collection(collection)
	if err != nil {
		return err
	}

	docs := make([]chromem.Document, len(items))
	for i, item := range items {
		docs[i] = chromem.Document{
			ID:        item.ChunkID,
			Metadata:  toWhere(item.Metadata, item.ReportID),
			Embedding: item.Embedding,
		}
	}

	if err := col.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("chromem upsert into %s: %w", collection, err)
	}
	return nil
}

// Search returns the k nearest chunks that satisfy filter.
// chromem rejects n larger than the collection, so k is clamped.
func (x *Index) Search(
	ctx context.Context, collection string, query []float32, k int, filter domain.MetadataFilter,
) ([]driven.VectorHit, error) {
	col, err := x.collection(collection)
	if err != nil {
		return nil, err
	}

	n := min(k, col.Count())
	if n <= 0 {
		return []driven.VectorHit{}, nil
	}

	results, err := col.QueryEmbedding(ctx, query, n, toWhere(domain.Metadata(filter), ""), nil)
	if err != nil {
		return nil, fmt.Errorf("chromem search %s: %w", collection, err)
	}

	hits := make([]driven.VectorHit, len(results))
	for i, r := range results {
		hits[i] = driven.VectorHit{ChunkID: r.ID, Similarity: float64(r.Similarity)}
	}
	return hits, nil
}

// DeleteByReport removes every vector belonging to a report.
func (x *Index) DeleteByReport(ctx context.Context, collection, reportID string) error {
	col, err := x.collection(collection)
	if err != nil {
		return err
	}
	if col.Count() == 0 {
		return nil
	}
	if err := col.Delete(ctx, map[string]string{reportKey: reportID}, nil); err != nil {
		return fmt.Errorf("chromem delete from %s: %w", collection, err)
	}
	return nil
}

// Count returns the number of vectors in a collection.
func (x *Index) Count(collection string) int {
	col, err := x.collection(collection)
	if err != nil {
		return 0
	}
	return col.Count()
}

// Close is a no-op; chromem persists on every write.
func (x *Index) Close() error {
	return nil
}

// toWhere renders metadata as chromem's string map.
// Values are compared as strings, so IntValue(2024) matches "2024".
func toWhere(md domain.Metadata, reportID string) map[string]string {
	if len(md) == 0 && reportID == "" {
		return nil
	}
	out := make(map[string]string, len(md)+1)
	for k, v := range md {
		out[k] = v.String()
	}
	if reportID != "" {
		out[reportKey] = reportID
	}
	return out
}
