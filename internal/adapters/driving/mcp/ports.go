package mcp

import (
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driving"
)

// Ports carries the core services the MCP server exposes as tools and
// resources, so construction takes one argument.
type Ports struct {
	// Plan runs the itinerary planning loop.
	Plan driving.PlanService

	// Search provides direct retrieval against one knowledge category.
	Search driving.SearchService
}

// Validate reports whether the server has what it needs to start.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// Plan is optional: without an LLM the server still serves retrieval.
	return nil
}
