package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reportrag/internal/core/domain"
)

func TestExtractReportID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{name: "valid report URI", uri: "reportrag://reports/rep-1", expected: "rep-1"},
		{name: "listing URI", uri: "reportrag://reports", expected: ""},
		{name: "invalid scheme", uri: "file://reports/rep-1", expected: ""},
		{name: "nested path", uri: "reportrag://reports/rep-1/chunks", expected: ""},
		{name: "empty URI", uri: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractReportID(tt.uri))
		})
	}
}

func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: uri},
	}
}

func testReports() []domain.Report {
	return []domain.Report{
		{
			ID:      "rep-1",
			URI:     "/data/2024_1Q.md",
			Title:   "2024년 1분기 산업 모니터링",
			Content: "# 반도체\n수출 증가",
			Metadata: domain.Metadata{
				"year":    domain.IntValue(2024),
				"quarter": domain.IntValue(1),
			},
		},
	}
}

func TestServer_handleReportsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists reports", func(t *testing.T) {
		s, err := NewServer(&Ports{Tools: &mockToolService{}, Index: &mockIndexService{reports: testReports()}})
		require.NoError(t, err)

		res, err := s.handleReportsResource(ctx, makeReadResourceRequest("reportrag://reports"))
		require.NoError(t, err)
		require.Len(t, res.Contents, 1)
		assert.Equal(t, "application/json", res.Contents[0].MIMEType)

		var infos []map[string]any
		require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &infos))
		require.Len(t, infos, 1)
		assert.Equal(t, "rep-1", infos[0]["id"])
		assert.Equal(t, "/data/2024_1Q.md", infos[0]["uri"])
		md, ok := infos[0]["metadata"].(map[string]any)
		require.True(t, ok)
		assert.EqualValues(t, 2024, md["year"])
	})

	t.Run("without index returns empty list", func(t *testing.T) {
		s, err := NewServer(&Ports{Tools: &mockToolService{}})
		require.NoError(t, err)

		res, err := s.handleReportsResource(ctx, makeReadResourceRequest("reportrag://reports"))
		require.NoError(t, err)
		assert.Equal(t, "[]", res.Contents[0].Text)
	})

	t.Run("index error", func(t *testing.T) {
		s, err := NewServer(&Ports{Tools: &mockToolService{}, Index: &mockIndexService{err: errors.New("db closed")}})
		require.NoError(t, err)

		_, err = s.handleReportsResource(ctx, makeReadResourceRequest("reportrag://reports"))
		assert.ErrorContains(t, err, "db closed")
	})
}

func TestServer_handleReportContentResource(t *testing.T) {
	ctx := context.Background()
	s, err := NewServer(&Ports{Tools: &mockToolService{}, Index: &mockIndexService{reports: testReports()}})
	require.NoError(t, err)

	t.Run("returns content", func(t *testing.T) {
		res, err := s.handleReportContentResource(ctx, makeReadResourceRequest("reportrag://reports/rep-1"))
		require.NoError(t, err)
		assert.Equal(t, "# 반도체\n수출 증가", res.Contents[0].Text)
		assert.Equal(t, "text/markdown", res.Contents[0].MIMEType)
	})

	t.Run("unknown report", func(t *testing.T) {
		_, err := s.handleReportContentResource(ctx, makeReadResourceRequest("reportrag://reports/missing"))
		assert.Error(t, err)
	})

	t.Run("malformed URI", func(t *testing.T) {
		_, err := s.handleReportContentResource(ctx, makeReadResourceRequest("reportrag://other/rep-1"))
		assert.Error(t, err)
	})

	t.Run("without index", func(t *testing.T) {
		bare, err := NewServer(&Ports{Tools: &mockToolService{}})
		require.NoError(t, err)
		_, err = bare.handleReportContentResource(ctx, makeReadResourceRequest("reportrag://reports/rep-1"))
		assert.Error(t, err)
	})
}
