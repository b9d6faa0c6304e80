package list

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reportrag/internal/core/domain"
)

func sampleReports() []domain.Report {
	return []domain.Report{
		{
			ID:       "r1",
			URI:      "/data/2024_1Q.md",
			Title:    "2024년 1분기 8대 업종 모니터링",
			Metadata: domain.Metadata{"year": domain.IntValue(2024), "quarter": domain.IntValue(1)},
		},
		{ID: "r2", URI: "/data/2024_2Q.md", Title: "2024년 2분기 8대 업종 모니터링"},
		{ID: "r3", URI: "/data/untitled.md"},
	}
}

func TestReportList_Empty(t *testing.T) {
	l := NewReportList(nil)

	assert.Contains(t, l.View(), "No reports indexed")
	assert.Nil(t, l.SelectedReport())
	assert.Zero(t, l.Count())
}

func TestReportList_Navigation(t *testing.T) {
	l := NewReportList(nil)
	l.SetReports(sampleReports())

	l.MoveUp()
	assert.Equal(t, 0, l.Selected())

	l.MoveDown()
	l.MoveDown()
	l.MoveDown()
	assert.Equal(t, 2, l.Selected())

	selected := l.SelectedReport()
	require.NotNil(t, selected)
	assert.Equal(t, "r3", selected.ID)

	l.SetReports(sampleReports()[:1])
	assert.Equal(t, 0, l.Selected())
}

func TestReportList_View(t *testing.T) {
	l := NewReportList(nil)
	l.SetDimensions(100, 20)
	l.SetReports(sampleReports())

	view := l.View()

	assert.Contains(t, view, "Reports (3)")
	assert.Contains(t, view, "2024년 1분기 8대 업종 모니터링")
	assert.Contains(t, view, "quarter")
	// Untitled reports fall back to their URI.
	assert.Contains(t, view, "/data/untitled.md")
}

func TestReportList_ScrollsToSelection(t *testing.T) {
	l := NewReportList(nil)
	l.SetDimensions(80, 6)
	l.SetReports(sampleReports())

	l.MoveDown()
	l.MoveDown()
	view := l.View()

	assert.Contains(t, view, "/data/untitled.md")
	assert.NotContains(t, view, "1분기")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 20))
	long := strings.Repeat("가", 30)
	got := truncate(long, 12)
	assert.Equal(t, 12, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "..."))
}
