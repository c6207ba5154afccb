package domain

import (
	"strings"
	"time"
)

// Phase names a state of the planning loop.
type Phase string

// Planning loop phases.
const (
	// PhaseIntentAnalysis parses the request into structured intent.
	PhaseIntentAnalysis Phase = "intent-analysis"

	// PhaseRetrieval fans the query out to the selected sources.
	PhaseRetrieval Phase = "retrieval"

	// PhaseAggregation merges per-source results into one context.
	PhaseAggregation Phase = "aggregation"

	// PhaseGeneration drafts an itinerary from the context.
	PhaseGeneration Phase = "generation"

	// PhaseValidation checks the draft against the constraints.
	PhaseValidation Phase = "validation"

	// PhaseReplan adjusts filters and hints after a failed validation.
	PhaseReplan Phase = "replan"

	// PhaseDone is the terminal phase, success or exhaustion.
	PhaseDone Phase = "done"
)

// String returns the string representation.
func (p Phase) String() string {
	return string(p)
}

// GenerationHints tunes the generation call. Replanning adjusts the
// hints instead of the parsed intent.
type GenerationHints struct {
	// MaxItemsPerDay bounds how many stops a generated day may hold.
	MaxItemsPerDay int

	// Guidance carries extra prompt instructions accumulated from
	// replan rounds, deduplicated, in first-occurrence order.
	Guidance []string
}

// DefaultGenerationHints returns the hints used on the first
// generation round.
func DefaultGenerationHints() GenerationHints {
	return GenerationHints{MaxItemsPerDay: 4}
}

func (h *GenerationHints) addGuidance(g string) {
	for _, have := range h.Guidance {
		if have == g {
			return
		}
	}
	h.Guidance = append(h.Guidance, g)
}

// PlannerState is the single mutable record threaded through the
// planning loop. It is owned exclusively by the orchestrator and is
// never shared across goroutines; concurrent retrieval receives
// copies of the filters, not a reference into the state.
type PlannerState struct {
	// RequestID correlates log lines and results for one request.
	RequestID string

	// Request is the original request, kept verbatim.
	Request PlanRequest

	// Intent is the parsed intent. Immutable after intent analysis.
	Intent Intent

	// Phase is the loop's current state.
	Phase Phase

	// Filters is the per-category filter set for the next retrieval.
	Filters FilterSet

	// Sources are the categories selected for retrieval.
	Sources []Category

	// Queries holds the per-category query strings for the next
	// retrieval. Starts as a copy of the intent's queries; replanning
	// may adjust it.
	Queries map[Category]string

	// Context is the latest aggregated retrieval context.
	Context *AggregatedContext

	// Draft is the latest generated itinerary. Nil until the first
	// generation, and nil again when output was unparsable.
	Draft *Itinerary

	// Verdict is the latest validation outcome. Nil until the first
	// validation.
	Verdict *Verdict

	// Iteration counts completed replan rounds. The loop gives up
	// when it reaches the configured maximum.
	Iteration int

	// Hints tunes the next generation call.
	Hints GenerationHints

	// BestDraft is the highest-scoring parsed draft seen so far.
	BestDraft *Itinerary

	// BestVerdict is the verdict that scored BestDraft.
	BestVerdict *Verdict
}

// NewPlannerState seeds the loop state from a parsed intent: initial
// filters, selected sources, query copies and default hints.
func NewPlannerState(requestID string, req PlanRequest, intent Intent) *PlannerState {
	queries := make(map[Category]string, len(intent.Queries))
	for c, q := range intent.Queries {
		queries[c] = q
	}
	return &PlannerState{
		RequestID: requestID,
		Request:   req,
		Intent:    intent,
		Phase:     PhaseIntentAnalysis,
		Filters:   BuildFilters(intent),
		Sources:   SelectSources(intent),
		Queries:   queries,
		Hints:     DefaultGenerationHints(),
	}
}

// RecordOutcome stores a generation round's draft and verdict, and
// keeps the best-scoring parsed draft for exhaustion fallback.
func (s *PlannerState) RecordOutcome(draft *Itinerary, verdict Verdict) {
	s.Draft = draft
	s.Verdict = &verdict
	if draft == nil {
		return
	}
	if s.BestDraft == nil || verdict.Score() > s.BestVerdict.Score() {
		s.BestDraft = draft
		s.BestVerdict = &verdict
	}
}

// ApplyReplan adjusts filters, queries and generation hints for the
// next round based on the latest verdict. One documented adjustment
// per violation kind:
//
//   - budget: attraction price cap tightens by a quarter (an uncapped
//     filter first caps at the moderate ceiling), the dearest food
//     band is dropped, and the attraction and food queries ask for
//     cheaper alternatives.
//   - walking-distance: one fewer item per day (never below two) and
//     the generator is told to cluster nearby stops.
//   - opening-hours: the generator is told to respect cited hours.
//   - season: seasons the trip does not touch become excluded in the
//     attraction and tip filters.
//   - unparsable-output: the generator is told to emit only the JSON
//     document.
func (s *PlannerState) ApplyReplan() {
	if s.Verdict == nil {
		return
	}
	if s.Verdict.Has(ViolationBudget) {
		if s.Filters.Attractions.MaxPriceEUR == 0 {
			s.Filters.Attractions.MaxPriceEUR = BudgetTierModerate.MaxAttractionPrice()
		} else {
			s.Filters.Attractions.MaxPriceEUR *= 0.75
		}
		if n := len(s.Filters.Food.Bands); n > 1 {
			bands := append([]PriceBand(nil), s.Filters.Food.Bands...)
			dearest := 0
			for i, b := range bands {
				if b.Rank() > bands[dearest].Rank() {
					dearest = i
				}
			}
			s.Filters.Food.Bands = append(bands[:dearest], bands[dearest+1:]...)
		}
		s.appendQuery(CategoryAttraction, "cheaper alternatives")
		s.appendQuery(CategoryFood, "cheaper alternatives")
		s.Hints.addGuidance("prefer cheaper and free activities")
	}
	if s.Verdict.Has(ViolationWalking) {
		if s.Hints.MaxItemsPerDay > 2 {
			s.Hints.MaxItemsPerDay--
		}
		s.Hints.addGuidance("cluster stops that are close together on the same day")
	}
	if s.Verdict.Has(ViolationHours) {
		s.Hints.addGuidance("schedule every stop strictly within its cited opening hours")
	}
	if s.Verdict.Has(ViolationSeason) && len(s.Intent.TripSeasons) > 0 {
		excluded := offSeasons(s.Intent.TripSeasons)
		s.Filters.Attractions.ExcludedSeasons = excluded
		s.Filters.Tips.ExcludedSeasons = excluded
		s.Hints.addGuidance("skip activities that are out of season for the trip dates")
	}
	if s.Verdict.Has(ViolationUnparsable) {
		s.Hints.addGuidance("respond with the single JSON document only, no prose around it")
	}
	s.Iteration++
}

func (s *PlannerState) appendQuery(c Category, suffix string) {
	q := s.Queries[c]
	if q == "" || strings.Contains(q, suffix) {
		return
	}
	s.Queries[c] = q + ", " + suffix
}

// offSeasons returns the seasons not covered by the trip.
func offSeasons(trip []Season) []Season {
	all := []Season{SeasonSpring, SeasonSummer, SeasonAutumn, SeasonWinter}
	var out []Season
	for _, s := range all {
		covered := false
		for _, t := range trip {
			if s == t {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, s)
		}
	}
	return out
}

// PlanResult is what the planning loop hands back to the caller.
// Exhaustion is not an error: the caller receives the best draft seen
// plus its violations and decides what to do with it.
type PlanResult struct {
	// RequestID correlates the result with its log lines.
	RequestID string

	// Destination echoes the planned city.
	Destination string

	// Itinerary is the final plan: the passing draft on success, the
	// best-scoring draft on exhaustion, nil when no round produced a
	// parsable draft.
	Itinerary *Itinerary

	// Feasible is true when the returned itinerary passed validation.
	Feasible bool

	// Warnings lists the returned draft's violations when the loop
	// exhausted its budget. Empty on success.
	Warnings []Violation

	// ExhaustedCategories lists sources with no matches even after
	// relaxation, from the final retrieval round.
	ExhaustedCategories []Category

	// Iterations is how many replan rounds ran.
	Iterations int

	// Elapsed is the wall-clock planning time.
	Elapsed time.Duration
}
