package driving

import (
	"context"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
)

// PlanService runs the planning loop for one travel request: intent
// analysis, concurrent retrieval, aggregation, generation and bounded
// replanning until a feasible itinerary or iteration exhaustion.
type PlanService interface {
	// Plan executes one planning request. Exhaustion is not an
	// error: the result carries the best draft seen plus its
	// violations, and the caller decides what to do with it. An
	// error is returned only for invalid requests or missing
	// collaborators.
	Plan(ctx context.Context, req domain.PlanRequest) (*domain.PlanResult, error)
}
