// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/reportrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reportrag/internal/core/domain"
)

// ReportList displays indexed reports in a navigable list.
type ReportList struct {
	reports  []domain.Report
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewReportList creates a new report list component.
func NewReportList(s *styles.Styles) *ReportList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ReportList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// View renders the list.
func (r *ReportList) View() string {
	if len(r.reports) == 0 {
		return r.styles.Muted.Render("No reports indexed")
	}

	lines := make([]string, 0, len(r.reports)*2+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Reports (%d)", len(r.reports))), "")

	// Each report takes two lines
	visible := (r.height - 4) / 2
	if visible < 1 {
		visible = 1
	}

	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := start + visible
	if end > len(r.reports) {
		end = len(r.reports)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderReport(i, &r.reports[i]))
	}

	return strings.Join(lines, "\n")
}

func (r *ReportList) renderReport(index int, report *domain.Report) string {
	title := report.Title
	if title == "" {
		title = report.URI
	}
	title = truncate(title, r.width-4)

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render("> " + title)
	} else {
		titleLine = r.styles.Normal.Render("  " + title)
	}

	meta := report.URI
	if len(report.Metadata) > 0 {
		meta = report.Metadata.Literal()
	}
	return titleLine + "\n" + r.styles.Muted.Render("    "+truncate(meta, r.width-6))
}

func truncate(s string, max int) string {
	if max < 10 {
		max = 10
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// SetReports replaces the list contents and resets the selection.
func (r *ReportList) SetReports(reports []domain.Report) {
	r.reports = reports
	r.selected = 0
}

// Reports returns the current reports.
func (r *ReportList) Reports() []domain.Report {
	return r.reports
}

// Selected returns the index of the selected report.
func (r *ReportList) Selected() int {
	return r.selected
}

// SelectedReport returns the selected report, or nil if the list is empty.
func (r *ReportList) SelectedReport() *domain.Report {
	if len(r.reports) == 0 {
		return nil
	}
	return &r.reports[r.selected]
}

// MoveUp moves selection up.
func (r *ReportList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ReportList) MoveDown() {
	if r.selected < len(r.reports)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ReportList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of reports.
func (r *ReportList) Count() int {
	return len(r.reports)
}
