package services

import (
	"fmt"
	"strings"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
)

// IntentAnalyzer parses a raw planning request into structured intent:
// normalised tag sets, the effective budget tier, trip seasons and the
// per-source query strings. Deterministic and rule-based; no AI call.
type IntentAnalyzer struct{}

// NewIntentAnalyzer creates a new intent analyzer.
func NewIntentAnalyzer() *IntentAnalyzer {
	return &IntentAnalyzer{}
}

// Analyze validates the request and derives the intent.
func (a *IntentAnalyzer) Analyze(req domain.PlanRequest) (domain.Intent, error) {
	if err := req.Validate(); err != nil {
		return domain.Intent{}, err
	}

	intent := domain.Intent{
		Destination:  strings.TrimSpace(req.Destination),
		DurationDays: req.DurationDays,
		Budget:       req.Budget,
		Dietary:      domain.NormalizeTags(req.Dietary),
		Interests:    domain.NormalizeTags(req.Interests),
		Avoid:        domain.NormalizeTags(req.Avoid),
	}
	if intent.Budget == "" {
		intent.Budget = domain.BudgetTierModerate
	}
	if req.StartDate != nil {
		intent.TripSeasons = domain.SeasonsOfTrip(*req.StartDate, req.DurationDays)
	}
	intent.Queries = buildQueries(intent)

	return intent, nil
}

// buildQueries derives one semantic query string per category from the
// intent. Stable wording: identical intents always produce identical
// queries.
func buildQueries(intent domain.Intent) map[domain.Category]string {
	queries := make(map[domain.Category]string, 4)

	attractions := fmt.Sprintf("top attractions and things to do in %s", intent.Destination)
	if len(intent.Interests) > 0 {
		attractions += " for " + strings.Join(intent.Interests, ", ")
	}
	queries[domain.CategoryAttraction] = attractions

	food := fmt.Sprintf("good places to eat in %s", intent.Destination)
	if len(intent.Dietary) > 0 {
		food = fmt.Sprintf("%s restaurants and places to eat in %s",
			strings.Join(intent.Dietary, " "), intent.Destination)
	}
	queries[domain.CategoryFood] = food

	tips := fmt.Sprintf("practical travel tips for visiting %s", intent.Destination)
	queries[domain.CategoryTip] = tips

	if intent.DurationDays > 0 {
		queries[domain.CategoryItinerary] = fmt.Sprintf("%d day trip itinerary for %s on a %s budget",
			intent.DurationDays, intent.Destination, intent.Budget)
	}

	return queries
}
