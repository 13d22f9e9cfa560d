package mcp

import (
	"context"

	"github.com/veridian-labs/docdex/internal/core/ports/driving"
)

// IndexLister lists the names of existing indexes. Satisfied by the
// search store.
type IndexLister interface {
	Indexes(ctx context.Context) ([]string, error)
}

// Ports aggregates the ports required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides search capabilities.
	Search driving.SearchService

	// Indexes lists available indexes. Optional.
	Indexes IndexLister
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
