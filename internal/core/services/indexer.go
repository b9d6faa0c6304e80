package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/reportrag/internal/core/domain"
	"github.com/custodia-labs/reportrag/internal/core/ports/driven"
	"github.com/custodia-labs/reportrag/internal/core/ports/driving"
	"github.com/custodia-labs/reportrag/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// embedBatchSize caps the texts sent in one embedding request.
const embedBatchSize = 32

// NormaliserLookup selects the normaliser for a file path.
type NormaliserLookup interface {
	For(path string) (driven.Normaliser, bool)
}

// IndexService ingests report files into the document store and both vector collections.
type IndexService struct {
	docStore    driven.DocumentStore
	vectorIndex driven.VectorIndex
	embedding   driven.EmbeddingService
	normalisers NormaliserLookup
	pipelines   map[string]driven.PostProcessorPipeline
	limiter     *rate.Limiter
	workers     int

	// fileLocks serialises indexing of the same path.
	fileLocks sync.Map
}

// NewIndexService creates an index service. pipelines maps each collection to
// the chain that turns page chunks into indexable chunks.
func NewIndexService(
	docStore driven.DocumentStore,
	vectorIndex driven.VectorIndex,
	embedding driven.EmbeddingService,
	normalisers NormaliserLookup,
	pipelines map[string]driven.PostProcessorPipeline,
	settings domain.IndexSettings,
) *IndexService {
	limit := rate.Inf
	if settings.RateLimit > 0 {
		limit = rate.Limit(settings.RateLimit)
	}
	workers := settings.Workers
	if workers <= 0 {
		workers = domain.DefaultWorkers
	}
	return &IndexService{
		docStore:    docStore,
		vectorIndex: vectorIndex,
		embedding:   embedding,
		normalisers: normalisers,
		pipelines:   pipelines,
		limiter:     rate.NewLimiter(limit, 1),
		workers:     workers,
	}
}

// IndexPath indexes a single file or every supported file under a directory.
// Per-file failures are counted and logged; only cancellation aborts the run.
func (s *IndexService) IndexPath(ctx context.Context, path string) (driving.IndexStats, error) {
	logger.Section("Indexing")

	info, err := os.Stat(path)
	if err != nil {
		return driving.IndexStats{}, fmt.Errorf("stat %s: %w", path, err)
	}

	if !info.IsDir() {
		n, err := s.IndexFile(ctx, path)
		if err != nil {
			return driving.IndexStats{Failed: 1}, err
		}
		return driving.IndexStats{Files: 1, Chunks: n}, nil
	}

	files, skipped, err := s.collect(ctx, path)
	if err != nil {
		return driving.IndexStats{}, err
	}
	logger.Info("Indexing %d files from %s", len(files), path)

	var (
		mu    sync.Mutex
		stats = driving.IndexStats{Skipped: skipped}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, file := range files {
		g.Go(func() error {
			n, err := s.IndexFile(gctx, file)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				stats.Failed++
				logger.Warn("Index %s failed: %v", file, err)
				return nil
			}
			stats.Files++
			stats.Chunks += n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}

	logger.L().Info("indexing finished",
		zap.String("path", path),
		zap.Int("files", stats.Files),
		zap.Int("chunks", stats.Chunks),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed))
	return stats, nil
}

// collect lists supported files under root, skipping hidden entries.
func (s *IndexService) collect(ctx context.Context, root string) ([]string, int, error) {
	var (
		files   []string
		skipped int
	)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if _, ok := s.normalisers.For(path); !ok {
			skipped++
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, skipped, nil
}

// IndexFile indexes one file and returns the number of chunks stored across
// collections. A previously indexed version of the file is replaced.
func (s *IndexService) IndexFile(ctx context.Context, path string) (int, error) {
	if s.embedding == nil {
		return 0, domain.ErrEmbeddingUnavailable
	}
	if s.vectorIndex == nil {
		return 0, domain.ErrVectorIndexUnavailable
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, fmt.Errorf("resolve %s: %w", path, err)
	}

	unlock := s.lockFile(abs)
	defer unlock()

	normaliser, ok := s.normalisers.For(abs)
	if !ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, filepath.Ext(abs))
	}

	info, err := os.Stat(abs)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", abs, err)
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", abs, err)
	}

	result, err := normaliser.Normalise(ctx, &domain.RawReport{
		URI:        abs,
		Content:    content,
		ModifiedAt: info.ModTime(),
	})
	if err != nil {
		return 0, fmt.Errorf("normalise %s: %w", abs, err)
	}
	report := result.Report

	if previous, err := s.docStore.GetReportByURI(ctx, abs); err == nil {
		report.CreatedAt = previous.CreatedAt
		if err := s.removeReport(ctx, previous.ID); err != nil {
			return 0, err
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return 0, fmt.Errorf("lookup %s: %w", abs, err)
	}
	report.UpdatedAt = time.Now()

	var all []domain.Chunk
	for _, collection := range s.collections() {
		chunks, err := s.buildChunks(ctx, &report, collection, result.Pages)
		if err != nil {
			return 0, err
		}
		if err := s.embed(ctx, chunks); err != nil {
			return 0, fmt.Errorf("embed %s: %w", collection, err)
		}
		all = append(all, chunks...)
	}

	if err := s.docStore.SaveReport(ctx, &report); err != nil {
		return 0, fmt.Errorf("save report: %w", err)
	}
	if err := s.docStore.SaveChunks(ctx, all); err != nil {
		return 0, fmt.Errorf("save chunks: %w", err)
	}
	if err := s.upsert(ctx, all); err != nil {
		return 0, err
	}

	logger.Debug("Indexed %s: %d pages, %d chunks", abs, len(result.Pages), len(all))
	return len(all), nil
}

// RemoveFile removes a previously indexed file from the store and index.
func (s *IndexService) RemoveFile(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	unlock := s.lockFile(abs)
	defer unlock()

	report, err := s.docStore.GetReportByURI(ctx, abs)
	if err != nil {
		return err
	}
	logger.Info("Removing %s from index", abs)
	return s.removeReport(ctx, report.ID)
}

// ListReports returns indexed reports.
func (s *IndexService) ListReports(ctx context.Context) ([]domain.Report, error) {
	return s.docStore.ListReports(ctx)
}

func (s *IndexService) removeReport(ctx context.Context, reportID string) error {
	if s.vectorIndex != nil {
		for _, collection := range s.collections() {
			if err := s.vectorIndex.DeleteByReport(ctx, collection, reportID); err != nil {
				return fmt.Errorf("delete vectors from %s: %w", collection, err)
			}
		}
	}
	if err := s.docStore.DeleteReport(ctx, reportID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("delete report: %w", err)
	}
	return nil
}

// collections returns the configured collections in a stable order.
func (s *IndexService) collections() []string {
	out := make([]string, 0, len(s.pipelines))
	for _, c := range []string{domain.CollectionText, domain.CollectionMultimodal} {
		if _, ok := s.pipelines[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// buildChunks turns pages into the chunks of one collection.
func (s *IndexService) buildChunks(
	ctx context.Context, report *domain.Report, collection string, pages []domain.Page,
) ([]domain.Chunk, error) {
	seed := make([]domain.Chunk, 0, len(pages))
	for _, p := range pages {
		seed = append(seed, domain.Chunk{
			ReportID:   report.ID,
			Collection: collection,
			Content:    p.Content,
			Position:   p.Number,
			Metadata:   report.Metadata.Merge(domain.Metadata{"page": domain.IntValue(int64(p.Number))}),
		})
	}

	chunks, err := s.pipelines[collection].Process(ctx, report, seed)
	if err != nil {
		return nil, fmt.Errorf("process %s: %w", collection, err)
	}
	for i := range chunks {
		chunks[i].ReportID = report.ID
		chunks[i].Collection = collection
	}
	return chunks, nil
}

// embed fills in chunk embeddings, batching requests under the rate limit.
func (s *IndexService) embed(ctx context.Context, chunks []domain.Chunk) error {
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := min(start+embedBatchSize, len(chunks))

		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}

		texts := make([]string, end-start)
		for i := range texts {
			texts[i] = chunks[start+i].Content
		}
		vecs, err := s.embedding.EmbedBatch(ctx, texts)
		if err != nil {
			return err
		}
		if len(vecs) != len(texts) {
			return fmt.Errorf("embedding returned %d vectors for %d texts", len(vecs), len(texts))
		}
		for i, v := range vecs {
			chunks[start+i].Embedding = v
		}
	}
	return nil
}

// upsert writes chunk vectors to their collections.
func (s *IndexService) upsert(ctx context.Context, chunks []domain.Chunk) error {
	byCollection := make(map[string][]driven.VectorItem)
	for _, c := range chunks {
		byCollection[c.Collection] = append(byCollection[c.Collection], driven.VectorItem{
			ChunkID:   c.ID,
			ReportID:  c.ReportID,
			Embedding: c.Embedding,
			Metadata:  c.Metadata,
		})
	}
	for _, collection := range s.collections() {
		items := byCollection[collection]
		if len(items) == 0 {
			continue
		}
		if err := s.vectorIndex.Upsert(ctx, collection, items); err != nil {
			return fmt.Errorf("upsert %s: %w", collection, err)
		}
	}
	return nil
}

func (s *IndexService) lockFile(path string) func() {
	v, _ := s.fileLocks.LoadOrStore(path, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
