package services

import (
	"fmt"
	"time"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
	"github.com/wayfarer-labs/wayfarer-cli/internal/logger"
)

// ConstraintValidator checks a draft itinerary against the trip's
// feasibility limits. Validation is pure: every fact it needs travels
// on the itinerary items, so the same draft and constraints always
// yield the same verdict with no store or network access.
type ConstraintValidator struct{}

// NewConstraintValidator creates a validator.
func NewConstraintValidator() *ConstraintValidator {
	return &ConstraintValidator{}
}

// Validate runs every check and collects every failure; it never
// stops at the first violation, so replanning sees the full picture.
// Checks run in a fixed order per day (budget, walking, then each
// item's hours and season), making the violation list deterministic.
func (v *ConstraintValidator) Validate(
	it *domain.Itinerary, cons domain.Constraints,
) domain.Verdict {
	var violations []domain.Violation

	for i := range it.Days {
		day := &it.Days[i]
		violations = append(violations, checkBudget(day, cons.DailyBudgetEUR)...)
		violations = append(violations, checkWalking(day, cons.MaxWalkingKm)...)
		for j := range day.Items {
			violations = append(violations, checkHours(day.Day, &day.Items[j])...)
			violations = append(violations, checkSeason(day.Day, &day.Items[j], cons.TripSeasons)...)
		}
	}

	verdict := domain.Verdict{Pass: len(violations) == 0, Violations: violations}
	if verdict.Pass {
		logger.Debug("Draft passed all checks")
	} else {
		logger.Debug("Draft failed %d checks", len(violations))
		for _, viol := range violations {
			logger.Debug("  %s", viol)
		}
	}
	return verdict
}

// checkBudget flags a day whose spend exceeds the daily ceiling.
// A zero ceiling disables the check.
func checkBudget(day *domain.DayPlan, dailyBudgetEUR float64) []domain.Violation {
	if dailyBudgetEUR <= 0 {
		return nil
	}
	total := day.TotalCost()
	if total <= dailyBudgetEUR {
		return nil
	}
	return []domain.Violation{{
		Kind: domain.ViolationBudget,
		Day:  day.Day,
		Detail: fmt.Sprintf("planned spend %.2f EUR exceeds the %.2f EUR daily budget",
			total, dailyBudgetEUR),
	}}
}

// checkWalking flags a day whose walking distance exceeds the limit.
// Distance is the great-circle path over the day's located stops in
// visit order; a zero limit disables the check.
func checkWalking(day *domain.DayPlan, maxWalkingKm float64) []domain.Violation {
	if maxWalkingKm <= 0 {
		return nil
	}
	km := day.WalkingKm()
	if km <= maxWalkingKm {
		return nil
	}
	return []domain.Violation{{
		Kind: domain.ViolationWalking,
		Day:  day.Day,
		Detail: fmt.Sprintf("%.1f km of walking exceeds the %.1f km daily limit (about %s on foot)",
			km, maxWalkingKm, domain.WalkingDuration(km).Round(time.Minute)),
	}}
}

// checkHours flags an item scheduled outside its venue's opening
// hours. Items without cited hours are unconstrained.
func checkHours(dayNum int, item *domain.ItineraryItem) []domain.Violation {
	if item.Hours == nil {
		return nil
	}
	if item.Hours.Contains(item.Window) {
		return nil
	}
	return []domain.Violation{{
		Kind: domain.ViolationHours,
		Day:  dayNum,
		Detail: fmt.Sprintf("%q planned %s but open %s",
			item.Title, item.Window, item.Hours),
	}}
}

// checkSeason flags an item whose venue is out of season for the trip
// dates. Unseasonal items and trips without dates are unconstrained.
func checkSeason(dayNum int, item *domain.ItineraryItem, tripSeasons []domain.Season) []domain.Violation {
	if domain.SeasonalMatch(item.Seasons, tripSeasons) {
		return nil
	}
	return []domain.Violation{{
		Kind: domain.ViolationSeason,
		Day:  dayNum,
		Detail: fmt.Sprintf("%q suits %v but the trip falls in %v",
			item.Title, item.Seasons, tripSeasons),
	}}
}
