package domain

import "fmt"

// PriceBand classifies food venues by cost.
type PriceBand string

// Available price bands.
const (
	// PriceBandBudget marks venues around 10 EUR or less per meal.
	PriceBandBudget PriceBand = "€"

	// PriceBandModerate marks venues around 10-25 EUR per meal.
	PriceBandModerate PriceBand = "€€"

	// PriceBandUpscale marks venues above 25 EUR per meal.
	PriceBandUpscale PriceBand = "€€€"
)

// IsValid returns true if the price band is recognised.
func (b PriceBand) IsValid() bool {
	switch b {
	case PriceBandBudget, PriceBandModerate, PriceBandUpscale:
		return true
	default:
		return false
	}
}

// Rank returns the ordinal position of the band, cheapest first.
// Unrecognised bands rank highest so they never pass a budget filter.
func (b PriceBand) Rank() int {
	switch b {
	case PriceBandBudget:
		return 0
	case PriceBandModerate:
		return 1
	case PriceBandUpscale:
		return 2
	default:
		return 3
	}
}

// String returns the string representation.
func (b PriceBand) String() string {
	return string(b)
}

// KnowledgeRecord is one retrievable travel fact. Records are immutable
// once ingested; identifier and category never change. Identifiers are
// unique within a category, not across categories.
type KnowledgeRecord struct {
	// ID is the unique identifier within the record's category.
	ID string

	// Category is the knowledge domain this record belongs to.
	Category Category

	// Description is the free-text body. It is the embedding source
	// and the snippet quoted as evidence.
	Description string

	// SourceLabel names where the fact came from (e.g. "curated-guide").
	// Used for attribution in generated output.
	SourceLabel string

	// URL is an optional reference link for the evidence citation.
	URL string

	// Exactly one of the following is non-nil, matching Category.
	// Metadata is a closed set of per-category shapes so filters
	// read named fields, never positional or map lookups.

	// Attraction holds metadata when Category is CategoryAttraction.
	Attraction *AttractionMetadata

	// Food holds metadata when Category is CategoryFood.
	Food *FoodMetadata

	// Tip holds metadata when Category is CategoryTip.
	Tip *TipMetadata

	// Itinerary holds metadata when Category is CategoryItinerary.
	Itinerary *ItineraryMetadata
}

// AttractionMetadata describes a sight or activity.
type AttractionMetadata struct {
	// PriceEUR is the entry price in euros. Zero means free.
	PriceEUR float64

	// Location is the geographic position, if known.
	Location *Coordinates

	// Tags are interest labels (e.g. "museums", "architecture").
	Tags []string

	// Hours is the opening-hours interval, if the attraction has one.
	Hours *OpeningHours

	// Seasons restricts the attraction to named seasons
	// (e.g. "summer"). Empty means open year-round.
	Seasons []string
}

// FoodMetadata describes a restaurant or food venue.
type FoodMetadata struct {
	// Band is the venue's price band.
	Band PriceBand

	// DietaryTags lists supported diets (e.g. "vegetarian", "halal").
	DietaryTags []string

	// Cuisine names the cuisine style (e.g. "ramen", "bistro").
	Cuisine string

	// Location is the geographic position, if known.
	Location *Coordinates

	// Hours is the service-hours interval, if known.
	Hours *OpeningHours
}

// TipMetadata describes a piece of local advice.
type TipMetadata struct {
	// Tags are topic labels the tip applies to (e.g. "transport").
	Tags []string

	// Seasons restricts the tip to named seasons. Empty means always.
	Seasons []string
}

// ItineraryMetadata describes a prior itinerary kept for reference.
type ItineraryMetadata struct {
	// Destination is the city the reference trip covered.
	Destination string

	// DurationDays is the reference trip length.
	DurationDays int

	// Budget is the reference trip's budget tier.
	Budget BudgetTier
}

// Validate checks that the record is well-formed: non-empty identifier
// and description, a recognised category, and metadata whose shape
// matches the category.
func (r *KnowledgeRecord) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: record has no id", ErrInvalidRecord)
	}
	if !r.Category.IsValid() {
		return fmt.Errorf("%w: record %s has unknown category %q", ErrInvalidRecord, r.ID, r.Category)
	}
	if r.Description == "" {
		return fmt.Errorf("%w: record %s has no description", ErrInvalidRecord, r.ID)
	}
	var ok bool
	switch r.Category {
	case CategoryAttraction:
		ok = r.Attraction != nil
	case CategoryFood:
		ok = r.Food != nil
	case CategoryTip:
		ok = r.Tip != nil
	case CategoryItinerary:
		ok = r.Itinerary != nil
	}
	if !ok {
		return fmt.Errorf("%w: record %s lacks %s metadata", ErrInvalidRecord, r.ID, r.Category)
	}
	return nil
}

// Location returns the record's coordinates when its metadata carries
// them, or nil for categories without a position.
func (r *KnowledgeRecord) Location() *Coordinates {
	switch {
	case r.Attraction != nil:
		return r.Attraction.Location
	case r.Food != nil:
		return r.Food.Location
	default:
		return nil
	}
}

// Hours returns the record's opening hours when its metadata carries
// them, or nil when unconstrained.
func (r *KnowledgeRecord) Hours() *OpeningHours {
	switch {
	case r.Attraction != nil:
		return r.Attraction.Hours
	case r.Food != nil:
		return r.Food.Hours
	default:
		return nil
	}
}

// Seasons returns the record's season restriction when its metadata
// carries one, or nil when the record suits any season.
func (r *KnowledgeRecord) Seasons() []string {
	switch {
	case r.Attraction != nil:
		return r.Attraction.Seasons
	case r.Tip != nil:
		return r.Tip.Seasons
	default:
		return nil
	}
}
