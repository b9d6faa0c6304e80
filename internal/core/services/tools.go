package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/reportrag/internal/core/domain"
	"github.com/custodia-labs/reportrag/internal/core/ports/driven"
	"github.com/custodia-labs/reportrag/internal/core/ports/driving"
	"github.com/custodia-labs/reportrag/internal/logger"
)

// Ensure ToolService implements the interface.
var _ driving.ToolService = (*ToolService)(nil)

// ToolService runs the retrieval tools behind a single failure boundary.
// Every invocation returns text; backend failures, timeouts and panics
// become the tool's error text.
type ToolService struct {
	assembler  *Assembler
	retrievers map[domain.ToolKind]driven.Retriever
	timeout    time.Duration
}

// NewToolService creates a tool service. Each tool uses the retriever
// registered for its kind; tools without one report ErrRetrieverUnavailable.
// A non-positive timeout selects domain.DefaultToolTimeout.
func NewToolService(
	assembler *Assembler,
	retrievers map[domain.ToolKind]driven.Retriever,
	timeout time.Duration,
) *ToolService {
	if timeout <= 0 {
		timeout = domain.DefaultToolTimeout
	}
	rs := make(map[domain.ToolKind]driven.Retriever, len(retrievers))
	for k, r := range retrievers {
		if r != nil {
			rs[k] = r
		}
	}
	return &ToolService{
		assembler:  assembler,
		retrievers: rs,
		timeout:    timeout,
	}
}

// Tools lists the tools in presentation order.
func (s *ToolService) Tools() []domain.ToolKind {
	return domain.AllToolKinds()
}

// SearchBasic runs the basic tool and returns its text.
func (s *ToolService) SearchBasic(ctx context.Context, query string) string {
	return s.Invoke(ctx, domain.ToolBasic, query).Text
}

// SearchSelfQuery runs the self-query tool and returns its text.
func (s *ToolService) SearchSelfQuery(ctx context.Context, query string) string {
	return s.Invoke(ctx, domain.ToolSelfQuery, query).Text
}

// SearchMultimodal runs the multimodal tool and returns its JSON payload or error text.
func (s *ToolService) SearchMultimodal(ctx context.Context, query string) string {
	return s.Invoke(ctx, domain.ToolMultimodal, query).Text
}

// Invoke runs one tool for a query.
func (s *ToolService) Invoke(ctx context.Context, kind domain.ToolKind, query string) domain.ToolResult {
	logger.Info("[Tool Log: %s] Searching for '%s'...", kind.LogLabel(), query)

	if !kind.IsValid() {
		return domain.ErrorResult(kind, fmt.Errorf("%w: unknown tool %q", domain.ErrInvalidInput, kind))
	}
	retriever, ok := s.retrievers[kind]
	if !ok {
		return domain.ErrorResult(kind, fmt.Errorf("%w: %s", domain.ErrRetrieverUnavailable, kind))
	}

	start := time.Now()
	text, err := s.run(ctx, kind, retriever, query)
	if err != nil {
		logger.Warn("%s tool failed after %s: %v", kind.LogLabel(), time.Since(start).Round(time.Millisecond), err)
		return domain.ErrorResult(kind, err)
	}

	logger.Debug("%s tool finished in %s", kind.LogLabel(), time.Since(start).Round(time.Millisecond))
	return domain.ToolResult{Kind: kind, Text: text}
}

type assembled struct {
	text string
	err  error
}

// run executes the assembly under the tool timeout. The retriever runs on its
// own goroutine so that a backend ignoring ctx still cannot hold the caller.
func (s *ToolService) run(
	ctx context.Context, kind domain.ToolKind, retriever driven.Retriever, query string,
) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan assembled, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- assembled{err: fmt.Errorf("%w: %v", domain.ErrRetrievalPanic, r)}
			}
		}()
		text, err := s.assembler.Assemble(ctx, kind, retriever, query)
		done <- assembled{text: text, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil && errors.Is(out.err, context.DeadlineExceeded) {
			return "", fmt.Errorf("retrieval timed out after %s: %w", s.timeout, out.err)
		}
		return out.text, out.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("retrieval timed out after %s: %w", s.timeout, ctx.Err())
		}
		return "", fmt.Errorf("retrieval cancelled: %w", ctx.Err())
	}
}
