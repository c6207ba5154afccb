package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonschema"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driven"
	"github.com/wayfarer-labs/wayfarer-cli/internal/logger"
)

// Ensure ItineraryGenerator can take custom prompts.
var _ driven.PromptStoreAware = (*ItineraryGenerator)(nil)

// Generation call tuning. Low temperature favours format adherence
// over creative phrasing.
const (
	generateMaxTokens   = 4096
	generateTemperature = 0.2

	// clusterRadiusKm groups stops considered walkable as one unit
	// when hinting the model about proximity.
	clusterRadiusKm = 2.0

	// promptSnippetLimit bounds how much of a record description the
	// prompt quotes.
	promptSnippetLimit = 300
)

// defaultItinerarySystemPrompt frames the generation call when no
// PromptStore is configured.
const defaultItinerarySystemPrompt = `You are a travel planner. You build day-by-day itineraries strictly from the knowledge provided to you.

Rules:
- Use ONLY venues and facts from the provided knowledge. Cite each stop's record id.
- Respond with a single JSON document and nothing else. No markdown fences, no prose.
- The document has this shape:
  {"summary": "...", "days": [{"day": 1, "items": [{"title": "...", "start": "09:00", "end": "11:00", "cost_eur": 17, "record_id": "...", "notes": "..."}]}]}
- Days are numbered from 1 with no gaps. Items within a day are in visit order with non-overlapping time windows.
- Times use 24-hour HH:MM. Costs are in euros; use 0 for free stops.
- Schedule stops within their opening hours and keep each day's spending within the daily budget.`

// defaultItineraryGenerationPrompt is the fallback per-request template
// when no PromptStore is configured.
const defaultItineraryGenerationPrompt = `Plan a trip to %s lasting %d days on a %s budget (at most %.2f EUR per day).

Constraints:
%s

Knowledge:
%s

Guidance:
%s

Respond with the JSON document only.`

// draftSchema is the structural contract a model response must meet
// before it is accepted for feasibility checks.
const draftSchema = `{
  "type": "object",
  "required": ["summary", "days"],
  "properties": {
    "summary": {"type": "string"},
    "days": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["day", "items"],
        "properties": {
          "day": {"type": "integer", "minimum": 1},
          "items": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["title", "start", "end"],
              "properties": {
                "title": {"type": "string", "minLength": 1},
                "start": {"type": "string", "pattern": "^([01][0-9]|2[0-3]):[0-5][0-9]$"},
                "end": {"type": "string", "pattern": "^([01][0-9]|2[0-3]):[0-5][0-9]$"},
                "cost_eur": {"type": "number", "minimum": 0},
                "record_id": {"type": "string"},
                "notes": {"type": "string"}
              }
            }
          }
        }
      }
    }
  }
}`

// draftPayload is the wire shape of a model response.
type draftPayload struct {
	Summary string     `json:"summary"`
	Days    []draftDay `json:"days"`
}

// draftDay is one day in the wire shape.
type draftDay struct {
	Day   int         `json:"day"`
	Items []draftItem `json:"items"`
}

// draftItem is one stop in the wire shape.
type draftItem struct {
	Title    string  `json:"title"`
	Start    string  `json:"start"`
	End      string  `json:"end"`
	CostEUR  float64 `json:"cost_eur"`
	RecordID string  `json:"record_id"`
	Notes    string  `json:"notes"`
}

// ItineraryGenerator turns an aggregated retrieval context into an
// itinerary draft via one LLM call. Model output is untrusted: it is
// schema-checked, parsed and hydrated from the retrieval context, and
// anything non-conforming is reported as ErrUnparsableItinerary so the
// planning loop can treat it as a validation failure.
type ItineraryGenerator struct {
	llm         driven.LLMService
	promptStore driven.PromptStore
	schema      *jsonschema.Schema
}

// NewItineraryGenerator creates a generator over the given LLM.
func NewItineraryGenerator(llm driven.LLMService) (*ItineraryGenerator, error) {
	if llm == nil {
		return nil, fmt.Errorf("%w: generator needs an LLM service", domain.ErrLLMUnavailable)
	}
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile([]byte(draftSchema))
	if err != nil {
		return nil, fmt.Errorf("compile draft schema: %w", err)
	}
	return &ItineraryGenerator{llm: llm, schema: schema}, nil
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the generator uses hardcoded default prompts.
func (g *ItineraryGenerator) SetPromptStore(store driven.PromptStore) {
	g.promptStore = store
}

// Generate drafts an itinerary from the current planner state and
// aggregated context. Transport failures are returned as-is; output
// that cannot be turned into a structurally valid itinerary is
// reported as ErrUnparsableItinerary.
func (g *ItineraryGenerator) Generate(
	ctx context.Context,
	state *domain.PlannerState,
	agg *domain.AggregatedContext,
	cons domain.Constraints,
) (*domain.Itinerary, error) {
	logger.Section("Itinerary Generation")

	prompt := g.buildPrompt(state, agg, cons)
	logger.Debug("Prompt: %d chars, %d context candidates", len(prompt), agg.CandidateCount())

	raw, err := g.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   generateMaxTokens,
		Temperature: generateTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate itinerary: %w", err)
	}

	draft, err := g.parseDraft(raw, state.Intent.Destination, agg)
	if err != nil {
		return nil, err
	}
	logger.Debug("Draft: %d days, %d items, %.2f EUR total",
		len(draft.Days), draft.ItemCount(), draft.TotalCost())
	return draft, nil
}

// parseDraft turns raw model output into a hydrated itinerary.
func (g *ItineraryGenerator) parseDraft(
	raw, destination string, agg *domain.AggregatedContext,
) (*domain.Itinerary, error) {
	doc, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	if result := g.schema.ValidateJSON([]byte(doc)); !result.IsValid() {
		return nil, fmt.Errorf("%w: draft fails schema: %v", domain.ErrUnparsableItinerary, result.Errors)
	}

	var payload draftPayload
	if err := json.Unmarshal([]byte(doc), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnparsableItinerary, err)
	}

	draft, err := hydrateDraft(&payload, destination, agg)
	if err != nil {
		return nil, err
	}
	if err := draft.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnparsableItinerary, err)
	}
	return draft, nil
}

// extractJSON isolates the JSON document in raw model output. Models
// sometimes wrap the document in markdown fences or prose; taking the
// outermost braces strips both.
func extractJSON(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return "", fmt.Errorf("%w: no JSON document in output", domain.ErrUnparsableItinerary)
	}
	return raw[start : end+1], nil
}

// hydrateDraft converts the wire payload into the domain itinerary,
// copying location, hours, seasons and evidence from the cited records
// so later feasibility checks need no store access. A citation that
// matches nothing in the context is cleared; the stop stays as
// free-form text.
func hydrateDraft(
	payload *draftPayload, destination string, agg *domain.AggregatedContext,
) (*domain.Itinerary, error) {
	byID := candidatesByID(agg)

	it := &domain.Itinerary{
		Destination: destination,
		Summary:     strings.TrimSpace(payload.Summary),
	}
	for _, day := range payload.Days {
		plan := domain.DayPlan{Day: day.Day}
		for _, wire := range day.Items {
			item, err := hydrateItem(wire, byID)
			if err != nil {
				return nil, err
			}
			plan.Items = append(plan.Items, item)
		}
		it.Days = append(it.Days, plan)
	}
	return it, nil
}

func hydrateItem(wire draftItem, byID map[string]domain.ScoredCandidate) (domain.ItineraryItem, error) {
	start, err := domain.ParseClock(wire.Start)
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("%w: item %q: %v", domain.ErrUnparsableItinerary, wire.Title, err)
	}
	end, err := domain.ParseClock(wire.End)
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("%w: item %q: %v", domain.ErrUnparsableItinerary, wire.Title, err)
	}

	item := domain.ItineraryItem{
		Title:   strings.TrimSpace(wire.Title),
		Window:  domain.TimeWindow{Start: start, End: end},
		CostEUR: wire.CostEUR,
		Notes:   strings.TrimSpace(wire.Notes),
	}

	cand, cited := byID[wire.RecordID]
	if !cited {
		return item, nil
	}
	record := cand.Record

	item.RecordID = record.ID
	item.Category = record.Category
	item.Evidence = []domain.Evidence{cand.Evidence}
	if loc := record.Location(); loc != nil {
		copied := *loc
		item.Location = &copied
	}
	if hours := record.Hours(); hours != nil {
		copied := *hours
		item.Hours = &copied
	}
	if seasons := record.Seasons(); len(seasons) > 0 {
		item.Seasons = append([]string(nil), seasons...)
	}
	if item.CostEUR == 0 {
		item.CostEUR = estimateCost(record)
	}
	return item, nil
}

// candidatesByID indexes the context for citation lookups. The first
// occurrence wins, matching the aggregation order.
func candidatesByID(agg *domain.AggregatedContext) map[string]domain.ScoredCandidate {
	byID := make(map[string]domain.ScoredCandidate, agg.CandidateCount())
	for _, section := range agg.Sections {
		for _, cand := range section.Candidates {
			if _, ok := byID[cand.Record.ID]; !ok {
				byID[cand.Record.ID] = cand
			}
		}
	}
	return byID
}

// estimateCost fills in a stop's cost when the model omitted it:
// attractions use their entry price, food venues the ceiling of their
// price band, everything else is free.
func estimateCost(record domain.KnowledgeRecord) float64 {
	switch {
	case record.Attraction != nil:
		return record.Attraction.PriceEUR
	case record.Food != nil:
		switch record.Food.Band {
		case domain.PriceBandBudget:
			return 10
		case domain.PriceBandModerate:
			return 25
		default:
			return 40
		}
	default:
		return 0
	}
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (g *ItineraryGenerator) loadPrompt(name, fallback string) string {
	if g.promptStore == nil {
		return fallback
	}
	prompt, err := g.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}

// buildPrompt assembles the full generation prompt: system framing,
// the request parameters, rendered constraints, the knowledge context
// and accumulated replan guidance.
func (g *ItineraryGenerator) buildPrompt(
	state *domain.PlannerState, agg *domain.AggregatedContext, cons domain.Constraints,
) string {
	system := g.loadPrompt(driven.PromptItinerarySystem, defaultItinerarySystemPrompt)
	tmpl := g.loadPrompt(driven.PromptItineraryGeneration, defaultItineraryGenerationPrompt)

	intent := state.Intent
	body := fmt.Sprintf(tmpl,
		intent.Destination,
		intent.DurationDays,
		intent.Budget,
		cons.DailyBudgetEUR,
		renderConstraints(state, cons),
		renderContext(agg),
		renderGuidance(state.Hints.Guidance),
	)
	return system + "\n\n" + body
}

// renderConstraints lists the request limits as prompt bullet lines.
func renderConstraints(state *domain.PlannerState, cons domain.Constraints) string {
	intent := state.Intent
	var lines []string
	lines = append(lines, fmt.Sprintf("- At most %d stops per day", state.Hints.MaxItemsPerDay))
	if cons.MaxWalkingKm > 0 {
		lines = append(lines, fmt.Sprintf("- At most %.1f km of walking per day", cons.MaxWalkingKm))
	}
	if len(intent.Dietary) > 0 {
		lines = append(lines, "- Dietary needs: "+strings.Join(intent.Dietary, ", "))
	}
	if len(intent.Interests) > 0 {
		lines = append(lines, "- Interests: "+strings.Join(intent.Interests, ", "))
	}
	if len(intent.Avoid) > 0 {
		lines = append(lines, "- Avoid: "+strings.Join(intent.Avoid, ", "))
	}
	if len(cons.TripSeasons) > 0 {
		lines = append(lines, "- Trip seasons: "+joinSeasons(cons.TripSeasons))
	}
	return strings.Join(lines, "\n")
}

// renderContext flattens the aggregated context into the prompt's
// knowledge block, one section per category in priority order.
func renderContext(agg *domain.AggregatedContext) string {
	var b strings.Builder
	for _, section := range agg.Sections {
		fmt.Fprintf(&b, "### %s\n", section.Category.Description())
		if len(section.Candidates) == 0 {
			b.WriteString("(no matches)\n\n")
			continue
		}
		for _, cand := range section.Candidates {
			b.WriteString(renderCandidate(cand))
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	if hints := renderClusterHints(agg); hints != "" {
		b.WriteString(hints)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderCandidate renders one knowledge line: the citable id, the
// fact, and the metadata the model must respect.
func renderCandidate(cand domain.ScoredCandidate) string {
	record := cand.Record
	parts := []string{truncateSnippet(record.Description, promptSnippetLimit)}

	switch {
	case record.Attraction != nil:
		meta := record.Attraction
		if meta.PriceEUR > 0 {
			parts = append(parts, fmt.Sprintf("price %.2f EUR", meta.PriceEUR))
		} else {
			parts = append(parts, "free")
		}
		if meta.Hours != nil {
			parts = append(parts, "open "+meta.Hours.String())
		}
		if len(meta.Seasons) > 0 {
			parts = append(parts, "seasons "+strings.Join(meta.Seasons, "/"))
		}
		if len(meta.Tags) > 0 {
			parts = append(parts, "tags "+strings.Join(meta.Tags, ", "))
		}
	case record.Food != nil:
		meta := record.Food
		parts = append(parts, "price band "+meta.Band.String())
		if meta.Cuisine != "" {
			parts = append(parts, meta.Cuisine)
		}
		if len(meta.DietaryTags) > 0 {
			parts = append(parts, "diets "+strings.Join(meta.DietaryTags, ", "))
		}
		if meta.Hours != nil {
			parts = append(parts, "open "+meta.Hours.String())
		}
	case record.Tip != nil:
		meta := record.Tip
		if len(meta.Tags) > 0 {
			parts = append(parts, "topics "+strings.Join(meta.Tags, ", "))
		}
		if len(meta.Seasons) > 0 {
			parts = append(parts, "seasons "+strings.Join(meta.Seasons, "/"))
		}
	case record.Itinerary != nil:
		meta := record.Itinerary
		parts = append(parts, fmt.Sprintf("%d days in %s on a %s budget",
			meta.DurationDays, meta.Destination, meta.Budget))
	}

	return fmt.Sprintf("- [%s] %s", record.ID, strings.Join(parts, " | "))
}

// renderClusterHints tells the model which located venues sit within
// easy walking distance of each other, so day plans stay compact.
func renderClusterHints(agg *domain.AggregatedContext) string {
	var titles []string
	var points []domain.Coordinates
	for _, section := range agg.Sections {
		for _, cand := range section.Candidates {
			if loc := cand.Record.Location(); loc != nil {
				titles = append(titles, cand.Record.ID)
				points = append(points, *loc)
			}
		}
	}
	if len(points) < 2 {
		return ""
	}

	var lines []string
	for _, cluster := range domain.ClusterByProximity(points, clusterRadiusKm) {
		if len(cluster) < 2 {
			continue
		}
		ids := make([]string, len(cluster))
		for i, idx := range cluster {
			ids[i] = titles[idx]
		}
		lines = append(lines, "- "+strings.Join(ids, " + "))
	}
	if len(lines) == 0 {
		return ""
	}
	return "### Walkable groups (schedule together)\n" + strings.Join(lines, "\n") + "\n"
}

// renderGuidance joins accumulated replan guidance into bullet lines.
func renderGuidance(guidance []string) string {
	if len(guidance) == 0 {
		return "- none"
	}
	return "- " + strings.Join(guidance, "\n- ")
}

func joinSeasons(seasons []domain.Season) string {
	names := make([]string, len(seasons))
	for i, s := range seasons {
		names[i] = s.String()
	}
	return strings.Join(names, ", ")
}
