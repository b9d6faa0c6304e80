package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reportrag/internal/core/domain"
)

func TestNormalise_FormFeedPages(t *testing.T) {
	raw := &domain.RawReport{
		URI:     "/reports/2023년_4분기.txt",
		Content: []byte("산업 동향\n첫 페이지\f\f셋째 페이지"),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "산업 동향", result.Report.Title)
	assert.Equal(t, domain.IntValue(2023), result.Report.Metadata["year"])
	assert.Equal(t, domain.IntValue(4), result.Report.Metadata["quarter"])
	require.Len(t, result.Pages, 2)
	assert.Equal(t, 1, result.Pages[0].Number)
	assert.Equal(t, 3, result.Pages[1].Number)
	assert.Equal(t, "셋째 페이지", result.Pages[1].Content)
}

func TestNormalise_EmptyFile(t *testing.T) {
	result, err := New().Normalise(context.Background(), &domain.RawReport{URI: "/r/empty_notes.txt"})
	require.NoError(t, err)
	assert.Empty(t, result.Pages)
	assert.Equal(t, "empty notes", result.Report.Title)
}

func TestNormalise_Nil(t *testing.T) {
	_, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
