// Package tui provides an interactive terminal user interface for reportrag.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/reportrag/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI talks to.
type Ports struct {
	// Tools runs the retrieval tools.
	Tools driving.ToolService

	// Index lists indexed reports. Optional: the reports view is
	// empty without it.
	Index driving.IndexService
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Tools == nil {
		return ErrMissingToolService
	}
	return nil
}
