package mcp

import (
	"github.com/custodia-labs/prodscout/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Session runs searches. Required.
	Session driving.SearchSession

	// Documents runs document side effects for any document id. Optional;
	// without it star_document and the document resource are not registered.
	Documents driving.ResultActionService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Session == nil {
		return ErrMissingSearchSession
	}
	return nil
}
