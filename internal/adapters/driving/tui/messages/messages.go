// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/reportrag/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewSearch runs the retrieval tools.
	ViewSearch
	// ViewReports lists indexed reports.
	ViewReports
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewSearch:
		return "search"
	case ViewReports:
		return "reports"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ToolCompleted carries a tool result back to the search view.
type ToolCompleted struct {
	Query  string
	Result domain.ToolResult
}

// ReportsLoaded carries the indexed reports.
type ReportsLoaded struct {
	Reports []domain.Report
	Err     error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
