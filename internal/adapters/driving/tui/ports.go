package tui

import (
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI depends on.
type Ports struct {
	// Plan runs the full retrieve-generate-validate pipeline.
	Plan driving.PlanService

	// Search performs single-category knowledge retrieval.
	Search driving.SearchService

	// Ingest rebuilds the knowledge indices from seed files.
	// Optional: without it the rebuild view reports an error.
	Ingest driving.IngestService

	// Settings manages provider configuration.
	// Optional: without it the settings view reports an error.
	Settings driving.SettingsService
}

// NewPorts creates a Ports configuration from the given services.
func NewPorts(
	plan driving.PlanService,
	search driving.SearchService,
	ingest driving.IngestService,
	settings driving.SettingsService,
) *Ports {
	return &Ports{
		Plan:     plan,
		Search:   search,
		Ingest:   ingest,
		Settings: settings,
	}
}

// Validate checks that the required ports are present.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Plan == nil {
		return ErrMissingPlanService
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
