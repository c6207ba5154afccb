package domain

// Category identifies one independent knowledge domain.
// Each category owns its own vector index; cross-category
// search is never performed.
type Category string

// Available knowledge categories.
const (
	// CategoryAttraction covers sights, museums and activities.
	CategoryAttraction Category = "attraction"

	// CategoryFood covers restaurants, cafes and street food.
	CategoryFood Category = "food"

	// CategoryTip covers local advice and practical guidance.
	CategoryTip Category = "tip"

	// CategoryItinerary covers prior itineraries kept as references.
	CategoryItinerary Category = "prior-itinerary"
)

// IsValid returns true if the category is recognised.
func (c Category) IsValid() bool {
	switch c {
	case CategoryAttraction, CategoryFood, CategoryTip, CategoryItinerary:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (c Category) String() string {
	return string(c)
}

// Description returns a human-readable description of the category.
func (c Category) Description() string {
	switch c {
	case CategoryAttraction:
		return "Attractions (sights, museums, activities)"
	case CategoryFood:
		return "Food (restaurants, cafes, street food)"
	case CategoryTip:
		return "Tips (local advice, practical guidance)"
	case CategoryItinerary:
		return "Prior Itineraries (reference trips)"
	default:
		return unknownDescription
	}
}

// SeedFile returns the conventional seed file name for the category.
func (c Category) SeedFile() string {
	switch c {
	case CategoryAttraction:
		return "attractions.json"
	case CategoryFood:
		return "food.json"
	case CategoryTip:
		return "tips.json"
	case CategoryItinerary:
		return "itineraries.json"
	default:
		return ""
	}
}

// IndexName returns the per-category index identifier used for
// persistence paths. One durable location per category.
func (c Category) IndexName() string {
	switch c {
	case CategoryAttraction:
		return "attractions"
	case CategoryFood:
		return "food"
	case CategoryTip:
		return "tips"
	case CategoryItinerary:
		return "itineraries"
	default:
		return ""
	}
}

// AllCategories returns every category in aggregation priority order.
// The merge order of retrieved context is fixed by this sequence.
func AllCategories() []Category {
	return []Category{
		CategoryAttraction,
		CategoryFood,
		CategoryTip,
		CategoryItinerary,
	}
}

// ParseCategory converts a string into a Category.
// Accepts both the canonical form and common plural aliases.
func ParseCategory(s string) (Category, bool) {
	switch s {
	case "attraction", "attractions":
		return CategoryAttraction, true
	case "food":
		return CategoryFood, true
	case "tip", "tips":
		return CategoryTip, true
	case "prior-itinerary", "itinerary", "itineraries":
		return CategoryItinerary, true
	default:
		return "", false
	}
}
