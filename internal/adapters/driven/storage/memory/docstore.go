package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/reportrag/internal/core/domain"
	"github.com/custodia-labs/reportrag/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu      sync.RWMutex
	reports map[string]domain.Report
	chunks  map[string]domain.Chunk
	byRpt   map[string]map[string]struct{}
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		reports: make(map[string]domain.Report),
		chunks:  make(map[string]domain.Chunk),
		byRpt:   make(map[string]map[string]struct{}),
	}
}

// SaveReport stores or updates a report.
func (s *DocumentStore) SaveReport(_ context.Context, report *domain.Report) error {
	if report == nil || report.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *report
	cp.Metadata = report.Metadata.Clone()
	s.reports[report.ID] = cp
	return nil
}

// GetReport retrieves a report by ID.
func (s *DocumentStore) GetReport(_ context.Context, id string) (*domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &report, nil
}

// GetReportByURI retrieves a report by its source location.
func (s *DocumentStore) GetReportByURI(_ context.Context, uri string) (*domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, report := range s.reports {
		if report.URI == uri {
			return &report, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListReports returns every report ordered by URI.
func (s *DocumentStore) ListReports(_ context.Context) ([]domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Report, 0, len(s.reports))
	for _, report := range s.reports {
		result = append(result, report)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].URI < result[j].URI })
	return result, nil
}

// DeleteReport removes a report and its chunks.
func (s *DocumentStore) DeleteReport(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[id]; !ok {
		return domain.ErrNotFound
	}
	for chunkID := range s.byRpt[id] {
		delete(s.chunks, chunkID)
	}
	delete(s.byRpt, id)
	delete(s.reports, id)
	return nil
}

// SaveChunks stores chunks, replacing any with the same ID.
func (s *DocumentStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range chunks {
		if c.ID == "" || c.ReportID == "" {
			return domain.ErrInvalidInput
		}
		c.Metadata = c.Metadata.Clone()
		s.chunks[c.ID] = c
		ids, ok := s.byRpt[c.ReportID]
		if !ok {
			ids = make(map[string]struct{})
			s.byRpt[c.ReportID] = ids
		}
		ids[c.ID] = struct{}{}
	}
	return nil
}

// GetChunk retrieves a specific chunk by ID.
func (s *DocumentStore) GetChunk(_ context.Context, id string) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunk, ok := s.chunks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &chunk, nil
}

// GetChunks retrieves all chunks for a report, ordered by collection and position.
func (s *DocumentStore) GetChunks(_ context.Context, reportID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Chunk, 0, len(s.byRpt[reportID]))
	for id := range s.byRpt[reportID] {
		result = append(result, s.chunks[id])
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Collection != result[j].Collection {
			return result[i].Collection < result[j].Collection
		}
		return result[i].Position < result[j].Position
	})
	return result, nil
}
