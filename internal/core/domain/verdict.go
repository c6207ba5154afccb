package domain

import "fmt"

// ViolationKind classifies why a draft itinerary failed validation.
// Each kind maps to one documented replan adjustment.
type ViolationKind string

// Available violation kinds.
const (
	// ViolationBudget means a day's total cost exceeded the daily budget.
	ViolationBudget ViolationKind = "budget"

	// ViolationWalking means a day's walking distance exceeded the limit.
	ViolationWalking ViolationKind = "walking-distance"

	// ViolationHours means an item's window falls outside the cited
	// record's opening hours.
	ViolationHours ViolationKind = "opening-hours"

	// ViolationSeason means an item is out of season for the trip dates.
	ViolationSeason ViolationKind = "season"

	// ViolationUnparsable means the generated output could not be
	// parsed into an itinerary at all.
	ViolationUnparsable ViolationKind = "unparsable-output"
)

// IsValid returns true if the kind is recognised.
func (k ViolationKind) IsValid() bool {
	switch k {
	case ViolationBudget, ViolationWalking, ViolationHours, ViolationSeason, ViolationUnparsable:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k ViolationKind) String() string {
	return string(k)
}

// Violation is one failed constraint check with enough detail to
// steer replanning and to label a partial result for the caller.
type Violation struct {
	// Kind classifies the failure.
	Kind ViolationKind

	// Day is the 1-based day the violation occurred on, or zero when
	// it applies to the whole draft.
	Day int

	// Detail is a human-readable explanation with the offending values.
	Detail string
}

// String renders the violation for logs and warnings.
func (v Violation) String() string {
	if v.Day > 0 {
		return fmt.Sprintf("%s (day %d): %s", v.Kind, v.Day, v.Detail)
	}
	return fmt.Sprintf("%s: %s", v.Kind, v.Detail)
}

// Verdict is the outcome of validating one draft itinerary. All
// checks run even after the first failure so replanning sees the full
// diagnostic picture.
type Verdict struct {
	// Pass is true when no check failed.
	Pass bool

	// Violations lists every failed check in evaluation order.
	// Empty exactly when Pass is true.
	Violations []Violation
}

// Has reports whether the verdict contains a violation of the kind.
func (v *Verdict) Has(kind ViolationKind) bool {
	for _, viol := range v.Violations {
		if viol.Kind == kind {
			return true
		}
	}
	return false
}

// Score counts passed checks negatively by violations: fewer
// violations scores higher. Used to keep the best draft across
// replan iterations.
func (v *Verdict) Score() int {
	return -len(v.Violations)
}
