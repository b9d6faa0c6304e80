package normalisers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/reportrag/internal/core/domain"
	"github.com/custodia-labs/reportrag/internal/core/ports/driven"
)

type stubNormaliser struct{ exts []string }

func (s stubNormaliser) SupportedExtensions() []string { return s.exts }
func (s stubNormaliser) Normalise(context.Context, *domain.RawReport) (*driven.NormaliseResult, error) {
	return &driven.NormaliseResult{}, nil
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		input   string
		year    int64
		quarter int64
	}{
		{"2024년 1분기 반도체", 2024, 1},
		{"BOK_2023_4Q", 2023, 4},
		{"report-2022-Q3", 2022, 3},
		{"2024Q2", 2024, 2},
		{"2021년 3/4분기 산업동향", 2021, 3},
		{"monthly outlook", 0, 0},
		{"12345", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			year, quarter := ParsePeriod(tt.input)
			assert.Equal(t, tt.year, year)
			assert.Equal(t, tt.quarter, quarter)
		})
	}
}

func TestReportMetadata(t *testing.T) {
	meta := ReportMetadata("/data/reports/2024_1Q_monitoring.md", "8대 업종 모니터링")

	assert.Equal(t, domain.StringValue("2024_1Q_monitoring.md"), meta[MetaSource])
	assert.Equal(t, domain.IntValue(2024), meta[MetaYear])
	assert.Equal(t, domain.IntValue(1), meta[MetaQuarter])
	assert.Equal(t, domain.StringValue("8대 업종 모니터링"), meta[MetaTitle])
}

func TestReportMetadata_FallsBackToTitle(t *testing.T) {
	meta := ReportMetadata("/data/reports/monitoring.md", "2023년 2분기 산업 모니터링")

	assert.Equal(t, domain.IntValue(2023), meta[MetaYear])
	assert.Equal(t, domain.IntValue(2), meta[MetaQuarter])
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(stubNormaliser{exts: []string{".md", ".MARKDOWN"}}, stubNormaliser{exts: []string{".txt"}})

	assert.True(t, r.Supports("/a/b/report.MD"))
	assert.True(t, r.Supports("notes.markdown"))
	assert.False(t, r.Supports("chart.png"))
	assert.Equal(t, []string{".markdown", ".md", ".txt"}, r.Extensions())
}

func TestNormaliseNewlines(t *testing.T) {
	assert.Equal(t, "a\nb\nc", NormaliseNewlines("\ufeffa\r\nb\rc"))
}
