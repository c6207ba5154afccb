package domain

import (
	"fmt"
	"time"
)

const minutesPerDay = 24 * 60

// ClockTime is a time of day in minutes since midnight.
type ClockTime int

// ParseClock parses an "HH:MM" string into a ClockTime.
func ParseClock(s string) (ClockTime, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("%w: clock time %q", ErrInvalidClockTime, s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: clock time %q", ErrInvalidClockTime, s)
	}
	return ClockTime(h*60 + m), nil
}

// Valid returns true if the time falls within one day.
func (t ClockTime) Valid() bool {
	return t >= 0 && t < minutesPerDay
}

// String renders the time as "HH:MM".
func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// TimeWindow is a same-day interval. End is inclusive of activity up
// to that minute; a window never crosses midnight.
type TimeWindow struct {
	// Start is when the window opens.
	Start ClockTime

	// End is when the window closes. Always >= Start.
	End ClockTime
}

// Validate checks the window is well-ordered and within one day.
func (w TimeWindow) Validate() error {
	if !w.Start.Valid() || !w.End.Valid() {
		return fmt.Errorf("%w: window %s-%s out of range", ErrInvalidTimeWindow, w.Start, w.End)
	}
	if w.End < w.Start {
		return fmt.Errorf("%w: window ends %s before it starts %s", ErrInvalidTimeWindow, w.End, w.Start)
	}
	return nil
}

// Overlaps returns true if the two windows share any minute.
// Touching endpoints (one ends exactly when the other starts) do not
// count as overlap.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.Start < other.End && other.Start < w.End
}

// String renders the window as "HH:MM-HH:MM".
func (w TimeWindow) String() string {
	return w.Start.String() + "-" + w.End.String()
}

// OpeningHours is a venue's daily open interval. A Close before Open
// means the venue stays open past midnight.
type OpeningHours struct {
	// Open is when the venue opens.
	Open ClockTime

	// Close is when the venue closes.
	Close ClockTime
}

// Contains reports whether the whole visit window falls inside the
// open interval. For overnight hours the window may sit either in the
// evening span or in the early-morning span.
func (h OpeningHours) Contains(w TimeWindow) bool {
	if h.Open <= h.Close {
		return w.Start >= h.Open && w.End <= h.Close
	}
	// Overnight: open until past midnight.
	return w.Start >= h.Open || w.End <= h.Close
}

// String renders the hours as "HH:MM-HH:MM".
func (h OpeningHours) String() string {
	return h.Open.String() + "-" + h.Close.String()
}

// Season names a quarter of the travel year.
type Season string

// The four seasons.
const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

// String returns the string representation.
func (s Season) String() string {
	return string(s)
}

// SeasonOfMonth maps a month to its season: March-May spring,
// June-August summer, September-November autumn, otherwise winter.
func SeasonOfMonth(m time.Month) Season {
	switch {
	case m >= time.March && m <= time.May:
		return SeasonSpring
	case m >= time.June && m <= time.August:
		return SeasonSummer
	case m >= time.September && m <= time.November:
		return SeasonAutumn
	default:
		return SeasonWinter
	}
}

// SeasonsOfTrip returns the distinct seasons a trip touches, in
// calendar order of occurrence. Zero or negative duration yields nil.
func SeasonsOfTrip(start time.Time, days int) []Season {
	if days <= 0 {
		return nil
	}
	var seasons []Season
	seen := make(map[Season]bool)
	for d := 0; d < days; d++ {
		s := SeasonOfMonth(start.AddDate(0, 0, d).Month())
		if !seen[s] {
			seen[s] = true
			seasons = append(seasons, s)
		}
	}
	return seasons
}

// SeasonalMatch reports whether a record tagged with the given seasons
// is usable on a trip covering tripSeasons. Untagged records match any
// trip; an unknown trip season set (nil) matches any record.
func SeasonalMatch(recordSeasons []string, tripSeasons []Season) bool {
	if len(recordSeasons) == 0 || len(tripSeasons) == 0 {
		return true
	}
	for _, rs := range recordSeasons {
		for _, ts := range tripSeasons {
			if rs == string(ts) {
				return true
			}
		}
	}
	return false
}
