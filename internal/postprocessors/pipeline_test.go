package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/custodia-labs/reportrag/internal/core/domain"
)

// mockProcessor is a test processor that returns predefined chunks.
type mockProcessor struct {
	name   string
	chunks []domain.Chunk
	err    error
	seen   []domain.Chunk
}

func (m *mockProcessor) Name() string {
	return m.name
}

func (m *mockProcessor) Process(_ context.Context, _ *domain.Report, chunks []domain.Chunk) ([]domain.Chunk, error) {
	m.seen = chunks
	if m.err != nil {
		return nil, m.err
	}
	if m.chunks != nil {
		return m.chunks, nil
	}
	return chunks, nil
}

func TestNewPipeline(t *testing.T) {
	p := NewPipeline()
	if p == nil {
		t.Fatal("expected non-nil pipeline")
	}
	if p.Len() != 0 {
		t.Errorf("expected 0 processors, got %d", p.Len())
	}
}

func TestPipeline_Add(t *testing.T) {
	p := NewPipeline()
	p.Add(&mockProcessor{name: "test"})

	if p.Len() != 1 {
		t.Errorf("expected 1 processor, got %d", p.Len())
	}
	if names := p.Names(); len(names) != 1 || names[0] != "test" {
		t.Errorf("unexpected names %v", names)
	}
}

func TestPipeline_Process_NilReport(t *testing.T) {
	_, err := NewPipeline().Process(context.Background(), nil, nil)
	if err == nil {
		t.Error("expected error for nil report")
	}
}

func TestPipeline_Process_EmptyPipelinePassesThrough(t *testing.T) {
	in := []domain.Chunk{{Content: "a"}}
	out, err := NewPipeline().Process(context.Background(), &domain.Report{}, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Errorf("expected input chunks back, got %d", len(out))
	}
}

func TestPipeline_Process_Chaining(t *testing.T) {
	first := &mockProcessor{name: "first", chunks: []domain.Chunk{{Content: "x"}, {Content: "y"}}}
	second := &mockProcessor{name: "second"}

	out, err := NewPipeline(first, second).Process(context.Background(), &domain.Report{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second.seen) != 2 {
		t.Errorf("second processor should receive first's output, got %d chunks", len(second.seen))
	}
	if len(out) != 2 {
		t.Errorf("expected 2 chunks, got %d", len(out))
	}
}

func TestPipeline_Process_Error(t *testing.T) {
	boom := errors.New("boom")
	p := NewPipeline(&mockProcessor{name: "bad", err: boom})

	_, err := p.Process(context.Background(), &domain.Report{}, nil)
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}
