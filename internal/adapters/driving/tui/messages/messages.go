// Package messages defines the message types passed between TUI views.
package messages

import (
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driving"
)

// ViewType identifies which view is active.
type ViewType int

const (
	// ViewMenu is the landing screen.
	ViewMenu ViewType = iota

	// ViewWizard is the trip planning question flow.
	ViewWizard

	// ViewItinerary is the rendered plan result.
	ViewItinerary

	// ViewSearch is the knowledge search view.
	ViewSearch

	// ViewIngest is the index rebuild view.
	ViewIngest

	// ViewSettings is the provider configuration view.
	ViewSettings

	// ViewHelp is the keybinding reference.
	ViewHelp
)

// String returns a human-readable name for the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewWizard:
		return "wizard"
	case ViewItinerary:
		return "itinerary"
	case ViewSearch:
		return "search"
	case ViewIngest:
		return "ingest"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged signals that the active view should change.
type ViewChanged struct {
	View ViewType
}

// ReplanRequested signals that the wizard should reopen with the
// previous answers intact so the traveller can edit and plan again.
type ReplanRequested struct{}

// PlanCompleted signals that a planning run finished.
type PlanCompleted struct {
	Result *domain.PlanResult
	Err    error
}

// SearchCompleted signals that a knowledge search finished.
type SearchCompleted struct {
	Results []domain.ScoredCandidate
	Err     error
}

// IngestCompleted signals that an index rebuild finished.
type IngestCompleted struct {
	Report *driving.IngestReport
	Err    error
}

// SettingsLoaded signals that settings have been loaded.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals that settings have been persisted.
type SettingsSaved struct {
	Err error
}

// ErrorOccurred signals an error outside a specific completion message.
type ErrorOccurred struct {
	Err error
}

// Quit signals that the application should exit.
type Quit struct{}
