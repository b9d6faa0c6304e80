package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reportrag/internal/core/domain"
	"github.com/custodia-labs/reportrag/internal/core/ports/driven"
	"github.com/custodia-labs/reportrag/internal/logger"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })
	return &buf
}

func newToolServiceWith(r driven.Retriever, timeout time.Duration) *ToolService {
	assembler := NewAssembler(NewImageResolver(newMockImageStore("/images", "a.png")), "")
	return NewToolService(assembler, map[domain.ToolKind]driven.Retriever{
		domain.ToolBasic:      r,
		domain.ToolSelfQuery:  r,
		domain.ToolMultimodal: r,
	}, timeout)
}

func TestToolService_Success(t *testing.T) {
	svc := newToolServiceWith(&mockRetriever{docs: koreanScenarioDocs()}, 0)
	ctx := context.Background()

	basic := svc.SearchBasic(ctx, "반도체")
	assert.True(t, strings.HasPrefix(basic, "[Document 1]\n"))

	selfQuery := svc.SearchSelfQuery(ctx, "반도체")
	assert.Equal(t, basic, selfQuery)

	multimodal := svc.SearchMultimodal(ctx, "반도체")
	p := decodePayload(t, multimodal)
	assert.Equal(t, []string{"/images/a.png"}, p.Images)

	res := svc.Invoke(ctx, domain.ToolMultimodal, "반도체")
	assert.False(t, res.Failed)
	assert.Equal(t, domain.ToolMultimodal, res.Kind)
}

func TestToolService_BackendFailure(t *testing.T) {
	svc := newToolServiceWith(&mockRetriever{err: errors.New("connection refused")}, 0)
	ctx := context.Background()

	assert.Equal(t, "Error during search: connection refused", svc.SearchBasic(ctx, "q"))
	assert.Equal(t, "Error during search: connection refused", svc.SearchSelfQuery(ctx, "q"))
	assert.Equal(t, "Error during multimodal search: connection refused", svc.SearchMultimodal(ctx, "q"))

	res := svc.Invoke(ctx, domain.ToolBasic, "q")
	assert.True(t, res.Failed)
}

func TestToolService_Empty(t *testing.T) {
	svc := newToolServiceWith(&mockRetriever{}, 0)
	ctx := context.Background()

	assert.Equal(t, domain.NoDocumentsFound, svc.SearchBasic(ctx, "q"))
	assert.Equal(t, domain.NoDocumentsFound, svc.SearchSelfQuery(ctx, "q"))
	assert.Equal(t,
		`{"context":"No relevant text context found.","images":[],"source":"`+domain.DefaultSourceLabel+`"}`,
		svc.SearchMultimodal(ctx, "q"))
}

func TestToolService_Timeout(t *testing.T) {
	svc := newToolServiceWith(&mockRetriever{delay: time.Second}, 20*time.Millisecond)

	res := svc.Invoke(context.Background(), domain.ToolBasic, "q")

	assert.True(t, res.Failed)
	assert.True(t, strings.HasPrefix(res.Text, "Error during search: retrieval timed out"), res.Text)
}

func TestToolService_Panic(t *testing.T) {
	svc := newToolServiceWith(&mockRetriever{panic: "nil map"}, 0)

	var res domain.ToolResult
	require.NotPanics(t, func() {
		res = svc.Invoke(context.Background(), domain.ToolMultimodal, "q")
	})

	assert.True(t, res.Failed)
	assert.True(t, strings.HasPrefix(res.Text, "Error during multimodal search: "+domain.ErrRetrievalPanic.Error()), res.Text)
	assert.Contains(t, res.Text, "nil map")
}

func TestToolService_UnknownAndUnwired(t *testing.T) {
	assembler := NewAssembler(nil, "")
	svc := NewToolService(assembler, map[domain.ToolKind]driven.Retriever{
		domain.ToolBasic:     &mockRetriever{},
		domain.ToolSelfQuery: nil,
	}, 0)
	ctx := context.Background()

	unknown := svc.Invoke(ctx, domain.ToolKind("web"), "q")
	assert.True(t, unknown.Failed)
	assert.Contains(t, unknown.Text, "unknown tool")

	unwired := svc.Invoke(ctx, domain.ToolSelfQuery, "q")
	assert.True(t, unwired.Failed)
	assert.Contains(t, unwired.Text, domain.ErrRetrieverUnavailable.Error())

	assert.Equal(t, domain.AllToolKinds(), svc.Tools())
}

func TestToolService_LogsInvocation(t *testing.T) {
	logs := captureLogs(t)
	svc := newToolServiceWith(&mockRetriever{}, 0)

	svc.SearchSelfQuery(context.Background(), "2024년 1분기 반도체")
	svc.SearchMultimodal(context.Background(), "차트")

	out := logs.String()
	assert.Contains(t, out, "[Tool Log: Self-Query] Searching for '2024년 1분기 반도체'...")
	assert.Contains(t, out, "[Tool Log: Multimodal] Searching for '차트'...")
}

func TestToolService_PassesQueryThrough(t *testing.T) {
	r := &mockRetriever{}
	svc := newToolServiceWith(r, 0)

	svc.SearchBasic(context.Background(), "자동차 수출")

	assert.Equal(t, []string{"자동차 수출"}, r.queries)
}

// echoRetriever returns one document whose image is named after the query.
type echoRetriever struct{}

func (echoRetriever) Retrieve(_ context.Context, query string) ([]domain.Document, error) {
	return []domain.Document{{Content: fmt.Sprintf("![](img/%s.png) ![](img/%s.png)", query, query)}}, nil
}

func TestToolService_ConcurrentCallsAreIsolated(t *testing.T) {
	names := []string{"q0", "q1", "q2", "q3", "q4", "q5", "q6", "q7"}
	files := make([]string, 0, len(names))
	for _, n := range names {
		files = append(files, n+".png")
	}
	assembler := NewAssembler(NewImageResolver(newMockImageStore("/images", files...)), "")
	svc := NewToolService(assembler, map[domain.ToolKind]driven.Retriever{
		domain.ToolMultimodal: echoRetriever{},
	}, 0)

	var wg sync.WaitGroup
	results := make([]string, len(names)*4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.SearchMultimodal(context.Background(), names[i%len(names)])
		}(i)
	}
	wg.Wait()

	for i, out := range results {
		p := decodePayload(t, out)
		assert.Equal(t, []string{"/images/" + names[i%len(names)] + ".png"}, p.Images)
	}
}
