package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/reportrag/internal/core/domain"
	"github.com/custodia-labs/reportrag/internal/core/ports/driven"
)

// mockRetriever returns canned documents and records the queries it saw.
type mockRetriever struct {
	docs  []domain.Document
	err   error
	panic any
	delay time.Duration

	mu      sync.Mutex
	queries []string
}

func (m *mockRetriever) Retrieve(ctx context.Context, query string) ([]domain.Document, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if m.panic != nil {
		panic(m.panic)
	}
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.docs, nil
}

// mockImageStore treats a fixed set of paths as existing files.
type mockImageStore struct {
	root  string
	files map[string]bool

	mu     sync.Mutex
	checks []string
}

func newMockImageStore(root string, names ...string) *mockImageStore {
	files := make(map[string]bool, len(names))
	for _, n := range names {
		files[root+"/"+n] = true
	}
	return &mockImageStore{root: root, files: files}
}

func (m *mockImageStore) Root() string { return m.root }

func (m *mockImageStore) Exists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks = append(m.checks, path)
	return m.files[path]
}

// mockEmbeddingService derives a small vector from the words in the text,
// so texts sharing a keyword land close together.
type mockEmbeddingService struct {
	err error

	mu    sync.Mutex
	calls int
}

var embeddingKeywords = []string{"반도체", "자동차", "조선", "철강"}

func embedKeywords(text string) []float32 {
	vec := make([]float32, len(embeddingKeywords)+1)
	for i, kw := range embeddingKeywords {
		vec[i] = float32(strings.Count(text, kw))
	}
	vec[len(embeddingKeywords)] = 0.1
	return vec
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return embedKeywords(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = embedKeywords(t)
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int { return len(embeddingKeywords) + 1 }

func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }

func (m *mockEmbeddingService) Close() error { return nil }

// mockLLMService replies with a canned completion.
type mockLLMService struct {
	reply string
	err   error

	prompts []string
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockLLMService) ModelName() string { return "mock-llm" }

func (m *mockLLMService) Ping(_ context.Context) error { return nil }

func (m *mockLLMService) Close() error { return nil }

// mockPromptStore serves prompts from a map.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// mockFilterInferrer returns a fixed query and filter.
type mockFilterInferrer struct {
	query  string
	filter domain.MetadataFilter
	err    error
}

func (m *mockFilterInferrer) Infer(_ context.Context, query string) (string, domain.MetadataFilter, error) {
	if m.err != nil {
		return "", nil, m.err
	}
	if m.query == "" {
		return query, m.filter, nil
	}
	return m.query, m.filter, nil
}
