package domain

import "fmt"

// ItineraryItem is one scheduled stop in a day plan.
type ItineraryItem struct {
	// Title is the display name of the stop.
	Title string

	// Window is the planned visit window.
	Window TimeWindow

	// CostEUR is the expected cost of the stop in euros.
	CostEUR float64

	// Category tags which knowledge domain the stop came from.
	Category Category

	// RecordID references the knowledge record the stop is based on.
	// Empty for free-form stops the generator invented.
	RecordID string

	// Location is the stop's position, when the cited record had one.
	Location *Coordinates

	// Hours are the venue's opening hours copied from the cited
	// record, so feasibility checks need no store access.
	Hours *OpeningHours

	// Seasons are the cited record's suitable seasons, empty when the
	// venue is not seasonal.
	Seasons []string

	// Notes carries generator guidance for the traveller.
	Notes string

	// Evidence is the citation justifying this stop.
	Evidence []Evidence
}

// DayPlan is one day of the itinerary.
type DayPlan struct {
	// Day is the 1-based day number.
	Day int

	// Items are the day's stops in visit order.
	Items []ItineraryItem
}

// TotalCost sums the cost of the day's items.
func (d *DayPlan) TotalCost() float64 {
	var total float64
	for _, it := range d.Items {
		total += it.CostEUR
	}
	return total
}

// WalkingKm sums the pairwise great-circle distance over consecutive
// located items. Items without coordinates contribute no distance.
func (d *DayPlan) WalkingKm() float64 {
	var points []Coordinates
	for _, it := range d.Items {
		if it.Location != nil {
			points = append(points, *it.Location)
		}
	}
	return PathDistanceKm(points)
}

// Itinerary is the generated trip plan.
type Itinerary struct {
	// Destination is the planned city.
	Destination string

	// Summary is a one-paragraph overview of the trip.
	Summary string

	// Days are the day plans in trip order.
	Days []DayPlan
}

// Validate checks the structural invariants: day numbers are 1-based
// and consecutive, item windows are well-formed, non-decreasing in
// start time and never overlapping within a day.
func (it *Itinerary) Validate() error {
	for i, day := range it.Days {
		if day.Day != i+1 {
			return fmt.Errorf("%w: day %d numbered %d", ErrInvalidItinerary, i+1, day.Day)
		}
		for j, item := range day.Items {
			if err := item.Window.Validate(); err != nil {
				return fmt.Errorf("%w: day %d item %q: %v", ErrInvalidItinerary, day.Day, item.Title, err)
			}
			if j == 0 {
				continue
			}
			prev := day.Items[j-1]
			if item.Window.Start < prev.Window.Start {
				return fmt.Errorf("%w: day %d item %q starts before %q",
					ErrInvalidItinerary, day.Day, item.Title, prev.Title)
			}
			if prev.Window.Overlaps(item.Window) {
				return fmt.Errorf("%w: day %d items %q and %q overlap",
					ErrInvalidItinerary, day.Day, prev.Title, item.Title)
			}
		}
	}
	return nil
}

// TotalCost sums cost across every day.
func (it *Itinerary) TotalCost() float64 {
	var total float64
	for i := range it.Days {
		total += it.Days[i].TotalCost()
	}
	return total
}

// ItemCount counts stops across every day.
func (it *Itinerary) ItemCount() int {
	var n int
	for i := range it.Days {
		n += len(it.Days[i].Items)
	}
	return n
}
