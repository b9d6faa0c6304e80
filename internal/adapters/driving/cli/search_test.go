package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reportrag/internal/core/domain"
)

func TestSearchCmd_Flags(t *testing.T) {
	flag := searchCmd.Flags().Lookup("tool")
	require.NotNil(t, flag)
	assert.Equal(t, "t", flag.Shorthand)
	assert.Equal(t, "basic", flag.DefValue)
	assert.NotNil(t, searchCmd.Flags().Lookup("raw"))
}

func TestSearchCmd_RequiresQuery(t *testing.T) {
	withServices(t, &mockToolService{}, &mockIndexService{})

	_, err := runCLI(t, "search")

	assert.ErrorContains(t, err, "requires at least 1 arg(s)")
}

func TestSearchCmd_PrintsToolText(t *testing.T) {
	tools := &mockToolService{results: map[domain.ToolKind]domain.ToolResult{
		domain.ToolBasic: {Kind: domain.ToolBasic, Text: "[Document 1]\nContent:\n반도체 수출 회복"},
	}}
	withServices(t, tools, &mockIndexService{})

	out, err := runCLI(t, "search", "반도체", "전망")

	require.NoError(t, err)
	assert.Equal(t, []string{"basic:반도체 전망"}, tools.calls)
	// Output is not a terminal, so the raw text is printed unchanged.
	assert.Equal(t, "[Document 1]\nContent:\n반도체 수출 회복\n", out)
}

func TestSearchCmd_SelectsTool(t *testing.T) {
	tests := []struct {
		flag string
		kind domain.ToolKind
	}{
		{"self-query", domain.ToolSelfQuery},
		{"self_query", domain.ToolSelfQuery},
		{"multimodal", domain.ToolMultimodal},
		{"search_bok_reports_basic", domain.ToolBasic},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			tools := &mockToolService{}
			withServices(t, tools, &mockIndexService{})

			_, err := runCLI(t, "search", "--tool", tt.flag, "조선")

			require.NoError(t, err)
			assert.Equal(t, []string{string(tt.kind) + ":조선"}, tools.calls)
		})
	}
}

func TestSearchCmd_UnknownTool(t *testing.T) {
	tools := &mockToolService{}
	withServices(t, tools, &mockIndexService{})

	_, err := runCLI(t, "search", "-t", "hybrid", "query")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, tools.calls)
}

func TestSearchCmd_FailedResultIsError(t *testing.T) {
	tools := &mockToolService{results: map[domain.ToolKind]domain.ToolResult{
		domain.ToolBasic: domain.ErrorResult(domain.ToolBasic, assert.AnError),
	}}
	withServices(t, tools, &mockIndexService{})

	_, err := runCLI(t, "search", "철강")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Error during search")
}
