package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/reportrag/internal/core/domain"
	"github.com/custodia-labs/reportrag/internal/core/ports/driving"
)

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

type mockIndexService struct {
	stats     driving.IndexStats
	indexErr  error
	reports   []domain.Report
	listErr   error
	removeErr error
	indexed   []string
	removed   []string
}

func (m *mockIndexService) IndexPath(_ context.Context, path string) (driving.IndexStats, error) {
	m.indexed = append(m.indexed, path)
	return m.stats, m.indexErr
}

func (m *mockIndexService) IndexFile(_ context.Context, path string) (int, error) {
	m.indexed = append(m.indexed, path)
	return 1, nil
}

func (m *mockIndexService) RemoveFile(_ context.Context, path string) error {
	m.removed = append(m.removed, path)
	return m.removeErr
}

func (m *mockIndexService) ListReports(context.Context) ([]domain.Report, error) {
	return m.reports, m.listErr
}

// withServices injects mock services and an isolated config directory,
// restoring package state when the test ends.
func withServices(t *testing.T, tools *mockToolService, index *mockIndexService) {
	t.Helper()
	prevTools, prevIndex, prevSettings, prevDir := toolService, indexService, settingsService, configDir
	prevSupports := supportsFile

	toolService, indexService = nil, nil
	if tools != nil {
		toolService = tools
	}
	if index != nil {
		indexService = index
	}
	settingsService = nil
	supportsFile = func(string) bool { return true }
	configDir = t.TempDir()

	t.Cleanup(func() {
		toolService, indexService, settingsService, configDir = prevTools, prevIndex, prevSettings, prevDir
		supportsFile = prevSupports
	})
}

// clearChanged forgets which flags earlier runs set, so flag group checks
// only see the current arguments.
func clearChanged(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	for _, sub := range cmd.Commands() {
		clearChanged(sub)
	}
}

// runCLI executes the root command with args and returns its combined output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	searchTool = domain.ToolBasic.Flag()
	searchRaw = false
	indexWatch = false
	indexDryRun = false
	settingsShowDefaults = false
	clearChanged(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}
