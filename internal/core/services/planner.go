package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driving"
	"github.com/wayfarer-labs/wayfarer-cli/internal/logger"
)

var _ driving.PlanService = (*PlanOrchestrator)(nil)

// PlanOrchestrator runs the planning loop for one request: intent
// analysis, concurrent retrieval, aggregation, generation, validation
// and bounded replanning. It owns the planner state; collaborators
// receive copies or read-only views, never the state itself.
type PlanOrchestrator struct {
	analyzer    *IntentAnalyzer
	coordinator *MultiSourceCoordinator
	aggregator  *ContextAggregator
	generator   *ItineraryGenerator
	validator   *ConstraintValidator
	settings    domain.PlanSettings
}

// NewPlanOrchestrator creates the planning orchestrator.
func NewPlanOrchestrator(
	analyzer *IntentAnalyzer,
	coordinator *MultiSourceCoordinator,
	aggregator *ContextAggregator,
	generator *ItineraryGenerator,
	validator *ConstraintValidator,
	settings domain.PlanSettings,
) (*PlanOrchestrator, error) {
	if analyzer == nil || coordinator == nil || aggregator == nil ||
		generator == nil || validator == nil {
		return nil, fmt.Errorf("%w: orchestrator needs all collaborators", domain.ErrInvalidInput)
	}
	if settings.MaxIterations <= 0 {
		settings.MaxIterations = domain.DefaultAppSettings().Plan.MaxIterations
	}
	return &PlanOrchestrator{
		analyzer:    analyzer,
		coordinator: coordinator,
		aggregator:  aggregator,
		generator:   generator,
		validator:   validator,
		settings:    settings,
	}, nil
}

// Plan executes one planning request. Every loop iteration retrieves
// fresh context under the current filters, drafts an itinerary and
// validates it; a failed validation adjusts filters and hints and
// tries again until a draft passes or the iteration budget runs out.
// Exhaustion is not an error: the result carries the best draft seen
// plus its violations.
func (s *PlanOrchestrator) Plan(ctx context.Context, req domain.PlanRequest) (*domain.PlanResult, error) {
	started := time.Now()

	logger.Section("Trip Planning")
	logger.Info("Destination: %s, %d days, budget: %s", req.Destination, req.DurationDays, req.Budget)

	intent, err := s.analyzer.Analyze(req)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}

	state := domain.NewPlannerState(uuid.New().String(), req, intent)
	cons := s.effectiveConstraints(req, intent)
	logger.Debug("Request %s: sources %v, constraints %+v", state.RequestID, state.Sources, cons)

	for {
		round := state.Iteration + 1
		logger.Info("Planning round %d of %d", round, s.settings.MaxIterations)

		state.Phase = domain.PhaseRetrieval
		results, err := s.coordinator.RetrieveAll(ctx, state.Queries, state.Filters, state.Sources)
		if err != nil {
			return nil, fmt.Errorf("plan: %w", err)
		}

		state.Phase = domain.PhaseAggregation
		state.Context = s.aggregator.Aggregate(results, state.Sources)

		state.Phase = domain.PhaseGeneration
		draft, genErr := s.generator.Generate(ctx, state, state.Context, cons)

		state.Phase = domain.PhaseValidation
		var verdict domain.Verdict
		switch {
		case genErr != nil && ctx.Err() != nil:
			return nil, fmt.Errorf("plan: %w", ctx.Err())
		case genErr != nil:
			// A failed or non-conforming generation is a validation
			// failure, not a crash; the loop replans around it.
			logger.Warn("Generation failed: %v", genErr)
			draft = nil
			verdict = domain.Verdict{Violations: []domain.Violation{{
				Kind:   domain.ViolationUnparsable,
				Detail: genErr.Error(),
			}}}
		default:
			verdict = s.validator.Validate(draft, cons)
		}
		state.RecordOutcome(draft, verdict)

		if verdict.Pass {
			state.Phase = domain.PhaseDone
			logger.Info("Feasible itinerary after %d round(s)", round)
			return s.result(state, started, true), nil
		}
		if round >= s.settings.MaxIterations {
			break
		}

		state.Phase = domain.PhaseReplan
		logger.Info("Round %d failed with %d violation(s), replanning", round, len(verdict.Violations))
		state.ApplyReplan()
	}

	state.Phase = domain.PhaseDone
	logger.Warn("Iteration budget exhausted, returning best draft")
	return s.result(state, started, false), nil
}

// effectiveConstraints resolves the trip limits: request values win,
// configuration fills the gaps.
func (s *PlanOrchestrator) effectiveConstraints(req domain.PlanRequest, intent domain.Intent) domain.Constraints {
	cons := domain.Constraints{
		DailyBudgetEUR: req.DailyBudgetEUR,
		MaxWalkingKm:   req.MaxWalkingKm,
		TripSeasons:    intent.TripSeasons,
	}
	if cons.DailyBudgetEUR == 0 {
		cons.DailyBudgetEUR = s.settings.DailyBudgetEUR
	}
	if cons.MaxWalkingKm == 0 {
		cons.MaxWalkingKm = s.settings.MaxWalkingKm
	}
	return cons
}

// result assembles the caller-facing outcome from the final state.
// On success the passing draft is returned warning-free; on
// exhaustion the best-scoring draft is returned with its violations
// so the caller can decide what to do with it.
func (s *PlanOrchestrator) result(state *domain.PlannerState, started time.Time, feasible bool) *domain.PlanResult {
	result := &domain.PlanResult{
		RequestID:   state.RequestID,
		Destination: state.Intent.Destination,
		Feasible:    feasible,
		Iterations:  state.Iteration,
		Elapsed:     time.Since(started),
	}
	if state.Context != nil {
		result.ExhaustedCategories = state.Context.ExhaustedCategories
	}
	if feasible {
		result.Itinerary = state.Draft
		return result
	}
	result.Itinerary = state.BestDraft
	switch {
	case state.BestVerdict != nil:
		result.Warnings = state.BestVerdict.Violations
	case state.Verdict != nil:
		result.Warnings = state.Verdict.Violations
	}
	return result
}
