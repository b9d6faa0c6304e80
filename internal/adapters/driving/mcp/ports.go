package mcp

import (
	"github.com/custodia-labs/reportrag/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server depends on.
type Ports struct {
	// Tools runs the retrieval tools.
	Tools driving.ToolService

	// Index lists indexed reports for the resources. Optional.
	Index driving.IndexService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Tools == nil {
		return ErrMissingToolService
	}
	return nil
}
