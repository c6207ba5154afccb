package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// BudgetTier classifies how much a traveller wants to spend.
type BudgetTier string

// Available budget tiers.
const (
	// BudgetTierBudget is the cheapest tier.
	BudgetTierBudget BudgetTier = "budget"

	// BudgetTierModerate is the middle tier.
	BudgetTierModerate BudgetTier = "moderate"

	// BudgetTierLuxury is the uncapped tier.
	BudgetTierLuxury BudgetTier = "luxury"
)

// IsValid returns true if the tier is recognised.
func (t BudgetTier) IsValid() bool {
	switch t {
	case BudgetTierBudget, BudgetTierModerate, BudgetTierLuxury:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t BudgetTier) String() string {
	return string(t)
}

// Description returns a human-readable description of the tier.
func (t BudgetTier) Description() string {
	switch t {
	case BudgetTierBudget:
		return "Budget (free and cheap picks)"
	case BudgetTierModerate:
		return "Moderate (mid-range picks)"
	case BudgetTierLuxury:
		return "Luxury (no price cap)"
	default:
		return unknownDescription
	}
}

// MaxAttractionPrice returns the attraction price ceiling in euros for
// the tier. Zero means uncapped.
func (t BudgetTier) MaxAttractionPrice() float64 {
	switch t {
	case BudgetTierBudget:
		return 10.0
	case BudgetTierModerate:
		return 25.0
	default:
		return 0
	}
}

// AllowedBands returns the food price bands the tier accepts.
func (t BudgetTier) AllowedBands() []PriceBand {
	switch t {
	case BudgetTierBudget:
		return []PriceBand{PriceBandBudget}
	case BudgetTierModerate:
		return []PriceBand{PriceBandBudget, PriceBandModerate}
	default:
		return []PriceBand{PriceBandBudget, PriceBandModerate, PriceBandUpscale}
	}
}

// AllBudgetTiers returns every tier, cheapest first.
func AllBudgetTiers() []BudgetTier {
	return []BudgetTier{BudgetTierBudget, BudgetTierModerate, BudgetTierLuxury}
}

// PlanRequest is the raw planning request as collected from the user.
type PlanRequest struct {
	// Destination is the city to plan for.
	Destination string

	// DurationDays is the trip length in days.
	DurationDays int

	// Budget is the requested budget tier.
	Budget BudgetTier

	// Dietary lists dietary restrictions (e.g. "vegetarian").
	Dietary []string

	// Interests lists interest tags (e.g. "museums", "food").
	Interests []string

	// Avoid lists tags the traveller wants excluded.
	Avoid []string

	// StartDate is the first trip day, if known. Nil leaves seasonal
	// checks unconstrained.
	StartDate *time.Time

	// DailyBudgetEUR caps spending per day. Zero uses the configured
	// default.
	DailyBudgetEUR float64

	// MaxWalkingKm caps walking per day. Zero uses the configured
	// default.
	MaxWalkingKm float64
}

// Validate checks the request is plannable.
func (r *PlanRequest) Validate() error {
	if strings.TrimSpace(r.Destination) == "" {
		return fmt.Errorf("%w: destination is required", ErrInvalidRequest)
	}
	if r.DurationDays < 0 {
		return fmt.Errorf("%w: duration %d days is negative", ErrInvalidRequest, r.DurationDays)
	}
	if r.Budget != "" && !r.Budget.IsValid() {
		return fmt.Errorf("%w: unknown budget tier %q", ErrInvalidRequest, r.Budget)
	}
	if r.DailyBudgetEUR < 0 {
		return fmt.Errorf("%w: daily budget is negative", ErrInvalidRequest)
	}
	if r.MaxWalkingKm < 0 {
		return fmt.Errorf("%w: walking limit is negative", ErrInvalidRequest)
	}
	return nil
}

// Intent is the structured reading of a PlanRequest. Built once per
// planning request by intent analysis; replanning adjusts the derived
// filters, never the intent itself.
type Intent struct {
	// Destination is the normalised city name.
	Destination string

	// DurationDays is the trip length.
	DurationDays int

	// Budget is the effective tier (defaulted when the request left
	// it empty).
	Budget BudgetTier

	// Dietary is the sorted, normalised dietary restriction set.
	Dietary []string

	// Interests is the sorted, normalised interest tag set.
	Interests []string

	// Avoid is the sorted, normalised exclusion tag set.
	Avoid []string

	// TripSeasons is the seasons the trip dates touch. Nil when the
	// request carried no start date.
	TripSeasons []Season

	// Queries holds the semantic query string issued per category.
	Queries map[Category]string
}

// QueryFor returns the category's semantic query, falling back to the
// destination when intent analysis produced none.
func (i *Intent) QueryFor(c Category) string {
	if q, ok := i.Queries[c]; ok && q != "" {
		return q
	}
	return i.Destination
}

// NormalizeTags lowercases, trims, deduplicates and sorts a tag set.
// Sorted order makes downstream relaxation steps deterministic.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	if len(out) == 0 {
		return nil
	}
	return out
}

// Constraints are the feasibility limits a draft itinerary is
// validated against.
type Constraints struct {
	// DailyBudgetEUR is the spending ceiling per day.
	DailyBudgetEUR float64

	// MaxWalkingKm is the walking ceiling per day.
	MaxWalkingKm float64

	// TripSeasons are the seasons the trip covers. Nil skips the
	// seasonal check.
	TripSeasons []Season
}
