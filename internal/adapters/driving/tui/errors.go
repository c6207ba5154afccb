package tui

import "errors"

// Construction fails fast when a required service is missing.
var (
	ErrMissingPlanService   = errors.New("tui: plan service is required")
	ErrMissingSearchService = errors.New("tui: search service is required")
	ErrInvalidPorts         = errors.New("tui: invalid ports configuration")
)
