package mcp

import (
	"github.com/custodia-labs/metaval/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Validation runs the validation pipeline.
	Validation driving.ValidationService

	// Profile lists stored profiles and resolves documents.
	Profile driving.ProfileService

	// History reads recorded results. Nil when history is disabled.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Validation == nil {
		return ErrMissingValidationService
	}
	// Profile and History are optional
	return nil
}
