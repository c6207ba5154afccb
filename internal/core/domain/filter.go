package domain

// Filter is the keep/drop predicate a retriever applies to candidate
// records after the vector search. Filters are immutable for the
// duration of one query; Relax returns an adjusted copy.
type Filter interface {
	// Category is the knowledge domain the filter checks.
	Category() Category

	// Allows reports whether the record survives the filter. Records
	// whose metadata shape does not match the category never pass.
	Allows(rec *KnowledgeRecord) bool

	// Relax returns a copy with one documented relaxation step
	// applied, and true when something actually loosened. Used once
	// per source per retrieval round when a source comes back empty.
	Relax() (Filter, bool)
}

// AttractionFilter filters attraction records.
type AttractionFilter struct {
	// MaxPriceEUR drops attractions above this price. Zero is uncapped.
	MaxPriceEUR float64

	// RequiredTags keeps only records sharing at least one tag.
	// Empty keeps everything.
	RequiredTags []string

	// ExcludedTags drops records carrying any of these tags.
	ExcludedTags []string

	// ExcludedSeasons drops records available only in these seasons.
	ExcludedSeasons []Season
}

// Category returns CategoryAttraction.
func (f AttractionFilter) Category() Category { return CategoryAttraction }

// Allows applies the price, tag and season predicates.
func (f AttractionFilter) Allows(rec *KnowledgeRecord) bool {
	meta := rec.Attraction
	if meta == nil {
		return false
	}
	if f.MaxPriceEUR > 0 && meta.PriceEUR > f.MaxPriceEUR {
		return false
	}
	if len(f.RequiredTags) > 0 && !anyTagOverlap(f.RequiredTags, meta.Tags) {
		return false
	}
	if anyTagOverlap(f.ExcludedTags, meta.Tags) {
		return false
	}
	if seasonsAllExcluded(meta.Seasons, f.ExcludedSeasons) {
		return false
	}
	return true
}

// Relax drops the interest-tag requirement and raises the price cap
// one tier (10 to 25, 25 and above to uncapped).
func (f AttractionFilter) Relax() (Filter, bool) {
	relaxed := f
	changed := false
	if len(relaxed.RequiredTags) > 0 {
		relaxed.RequiredTags = nil
		changed = true
	}
	switch {
	case relaxed.MaxPriceEUR == 0:
		// Already uncapped.
	case relaxed.MaxPriceEUR <= BudgetTierBudget.MaxAttractionPrice():
		relaxed.MaxPriceEUR = BudgetTierModerate.MaxAttractionPrice()
		changed = true
	default:
		relaxed.MaxPriceEUR = 0
		changed = true
	}
	return relaxed, changed
}

// FoodFilter filters food records.
type FoodFilter struct {
	// Dietary requires every listed restriction to be supported.
	Dietary []string

	// Bands keeps only venues in the listed price bands. Empty keeps
	// every band.
	Bands []PriceBand
}

// Category returns CategoryFood.
func (f FoodFilter) Category() Category { return CategoryFood }

// Allows applies the dietary and price-band predicates.
func (f FoodFilter) Allows(rec *KnowledgeRecord) bool {
	meta := rec.Food
	if meta == nil {
		return false
	}
	if !containsAllTags(meta.DietaryTags, f.Dietary) {
		return false
	}
	if len(f.Bands) > 0 && !bandAllowed(meta.Band, f.Bands) {
		return false
	}
	return true
}

// Relax drops the last dietary restriction in sorted order, or, when
// none remain, widens the price range by one band.
func (f FoodFilter) Relax() (Filter, bool) {
	relaxed := f
	if n := len(relaxed.Dietary); n > 0 {
		relaxed.Dietary = append([]string(nil), relaxed.Dietary[:n-1]...)
		if len(relaxed.Dietary) == 0 {
			relaxed.Dietary = nil
		}
		return relaxed, true
	}
	if n := len(relaxed.Bands); n > 0 && n < len(BudgetTierLuxury.AllowedBands()) {
		widest := relaxed.Bands[0]
		for _, b := range relaxed.Bands[1:] {
			if b.Rank() > widest.Rank() {
				widest = b
			}
		}
		for _, b := range BudgetTierLuxury.AllowedBands() {
			if b.Rank() == widest.Rank()+1 {
				relaxed.Bands = append(append([]PriceBand(nil), relaxed.Bands...), b)
				return relaxed, true
			}
		}
	}
	return relaxed, false
}

// TipFilter filters tip records.
type TipFilter struct {
	// RequiredTags keeps only tips sharing at least one topic tag.
	// Empty keeps everything.
	RequiredTags []string

	// ExcludedSeasons drops tips that apply only in these seasons.
	ExcludedSeasons []Season
}

// Category returns CategoryTip.
func (f TipFilter) Category() Category { return CategoryTip }

// Allows applies the topic-tag and season predicates.
func (f TipFilter) Allows(rec *KnowledgeRecord) bool {
	meta := rec.Tip
	if meta == nil {
		return false
	}
	if len(f.RequiredTags) > 0 && !anyTagOverlap(f.RequiredTags, meta.Tags) {
		return false
	}
	if seasonsAllExcluded(meta.Seasons, f.ExcludedSeasons) {
		return false
	}
	return true
}

// Relax drops the topic-tag requirement.
func (f TipFilter) Relax() (Filter, bool) {
	if len(f.RequiredTags) == 0 {
		return f, false
	}
	relaxed := f
	relaxed.RequiredTags = nil
	return relaxed, true
}

// ItineraryFilter filters prior-itinerary records.
type ItineraryFilter struct {
	// DurationDays keeps itineraries near this trip length. Zero
	// keeps any length.
	DurationDays int

	// SlackDays widens the accepted length window on both sides.
	SlackDays int
}

// Category returns CategoryItinerary.
func (f ItineraryFilter) Category() Category { return CategoryItinerary }

// Allows keeps itineraries within the duration window.
func (f ItineraryFilter) Allows(rec *KnowledgeRecord) bool {
	meta := rec.Itinerary
	if meta == nil {
		return false
	}
	if f.DurationDays <= 0 {
		return true
	}
	diff := meta.DurationDays - f.DurationDays
	if diff < 0 {
		diff = -diff
	}
	return diff <= f.SlackDays
}

// Relax widens the duration window by two days on each side.
func (f ItineraryFilter) Relax() (Filter, bool) {
	if f.DurationDays <= 0 {
		return f, false
	}
	relaxed := f
	relaxed.SlackDays += 2
	return relaxed, true
}

// FilterSet bundles the per-category filters derived from one intent.
// The coordinator hands each retriever its own filter; the set itself
// is never shared across goroutines, callers receive copies.
type FilterSet struct {
	// Attractions filters the attraction source.
	Attractions AttractionFilter

	// Food filters the food source.
	Food FoodFilter

	// Tips filters the tip source.
	Tips TipFilter

	// Itineraries filters the prior-itinerary source.
	Itineraries ItineraryFilter
}

// For returns the filter for the given category.
func (fs FilterSet) For(c Category) Filter {
	switch c {
	case CategoryAttraction:
		return fs.Attractions
	case CategoryFood:
		return fs.Food
	case CategoryTip:
		return fs.Tips
	case CategoryItinerary:
		return fs.Itineraries
	default:
		return nil
	}
}

// BuildFilters derives the initial per-category filters from a parsed
// intent. Pure and deterministic, testable without any retrieval.
func BuildFilters(intent Intent) FilterSet {
	return FilterSet{
		Attractions: AttractionFilter{
			MaxPriceEUR:  intent.Budget.MaxAttractionPrice(),
			RequiredTags: intent.Interests,
			ExcludedTags: intent.Avoid,
		},
		Food: FoodFilter{
			Dietary: intent.Dietary,
			Bands:   intent.Budget.AllowedBands(),
		},
		Tips: TipFilter{
			RequiredTags: intent.Interests,
		},
		Itineraries: ItineraryFilter{
			DurationDays: intent.DurationDays,
			SlackDays:    1,
		},
	}
}

// SelectSources decides which categories a request plausibly needs.
// Food and tips are always queried, dietary-neutral or not; the
// prior-itinerary source is skipped for zero-day requests.
func SelectSources(intent Intent) []Category {
	sources := []Category{CategoryAttraction, CategoryFood, CategoryTip}
	if intent.DurationDays > 0 {
		sources = append(sources, CategoryItinerary)
	}
	return sources
}

func anyTagOverlap(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// containsAllTags reports whether have covers every tag in want.
func containsAllTags(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func bandAllowed(band PriceBand, allowed []PriceBand) bool {
	for _, b := range allowed {
		if b == band {
			return true
		}
	}
	return false
}

// seasonsAllExcluded reports whether a seasonal record is blocked
// outright: it has seasons and every one of them is excluded. Records
// without seasonal tags are never blocked.
func seasonsAllExcluded(recordSeasons []string, excluded []Season) bool {
	if len(recordSeasons) == 0 || len(excluded) == 0 {
		return false
	}
	for _, rs := range recordSeasons {
		blocked := false
		for _, ex := range excluded {
			if rs == string(ex) {
				blocked = true
				break
			}
		}
		if !blocked {
			return false
		}
	}
	return true
}
