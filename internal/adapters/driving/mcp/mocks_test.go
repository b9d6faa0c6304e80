package mcp

import (
	"context"
	"sync"

	"github.com/custodia-labs/reportrag/internal/core/domain"
	"github.com/custodia-labs/reportrag/internal/core/ports/driving"
)

// mockToolService is a mock implementation of driving.ToolService.
type mockToolService struct {
	mu      sync.Mutex
	results map[domain.ToolKind]domain.ToolResult
	calls   []string
}

func (m *mockToolService) Invoke(_ context.Context, kind domain.ToolKind, query string) domain.ToolResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, string(kind)+":"+query)
	if res, ok := m.results[kind]; ok {
		return res
	}
	return domain.ToolResult{Kind: kind, Text: domain.NoDocumentsFound}
}

func (m *mockToolService) Tools() []domain.ToolKind {
	return domain.AllToolKinds()
}

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	reports []domain.Report
	err     error
}

func (m *mockIndexService) IndexPath(context.Context, string) (driving.IndexStats, error) {
	return driving.IndexStats{}, m.err
}

func (m *mockIndexService) IndexFile(context.Context, string) (int, error) {
	return 0, m.err
}

func (m *mockIndexService) RemoveFile(context.Context, string) error {
	return m.err
}

func (m *mockIndexService) ListReports(context.Context) ([]domain.Report, error) {
	return m.reports, m.err
}
