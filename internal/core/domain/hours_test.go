package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ClockTime
		wantErr  bool
	}{
		{
			name:     "morning time",
			input:    "09:00",
			expected: ClockTime(540),
		},
		{
			name:     "midnight",
			input:    "00:00",
			expected: ClockTime(0),
		},
		{
			name:     "last minute of the day",
			input:    "23:59",
			expected: ClockTime(1439),
		},
		{
			name:    "hour out of range",
			input:   "24:00",
			wantErr: true,
		},
		{
			name:    "minute out of range",
			input:   "12:60",
			wantErr: true,
		},
		{
			name:    "not a clock time",
			input:   "noonish",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidClockTime)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClockTime_String(t *testing.T) {
	assert.Equal(t, "09:05", ClockTime(545).String())
	assert.Equal(t, "00:00", ClockTime(0).String())
	assert.Equal(t, "23:59", ClockTime(1439).String())
}

func TestTimeWindow_Validate(t *testing.T) {
	valid := TimeWindow{Start: 540, End: 660}
	assert.NoError(t, valid.Validate())

	backwards := TimeWindow{Start: 660, End: 540}
	assert.ErrorIs(t, backwards.Validate(), ErrInvalidTimeWindow)

	outOfDay := TimeWindow{Start: 540, End: 1500}
	assert.ErrorIs(t, outOfDay.Validate(), ErrInvalidTimeWindow)
}

func TestTimeWindow_Overlaps(t *testing.T) {
	morning := TimeWindow{Start: 540, End: 660}  // 09:00-11:00
	midday := TimeWindow{Start: 600, End: 720}   // 10:00-12:00
	afternoon := TimeWindow{Start: 660, End: 780} // 11:00-13:00

	assert.True(t, morning.Overlaps(midday))
	assert.True(t, midday.Overlaps(morning))

	// Touching endpoints do not overlap.
	assert.False(t, morning.Overlaps(afternoon))
	assert.False(t, afternoon.Overlaps(morning))
}

func TestOpeningHours_Contains(t *testing.T) {
	museum := OpeningHours{Open: 540, Close: 1050} // 09:00-17:30

	tests := []struct {
		name     string
		window   TimeWindow
		expected bool
	}{
		{
			name:     "window inside hours",
			window:   TimeWindow{Start: 600, End: 720},
			expected: true,
		},
		{
			name:     "window exactly the full hours",
			window:   TimeWindow{Start: 540, End: 1050},
			expected: true,
		},
		{
			name:     "window starts before opening",
			window:   TimeWindow{Start: 480, End: 600},
			expected: false,
		},
		{
			name:     "window ends after closing",
			window:   TimeWindow{Start: 960, End: 1140},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, museum.Contains(tt.window))
		})
	}
}

func TestOpeningHours_Contains_Overnight(t *testing.T) {
	bar := OpeningHours{Open: 1080, Close: 120} // 18:00-02:00

	// Evening visit fits.
	assert.True(t, bar.Contains(TimeWindow{Start: 1140, End: 1380}))
	// Early-morning visit fits.
	assert.True(t, bar.Contains(TimeWindow{Start: 0, End: 90}))
	// Midday visit does not.
	assert.False(t, bar.Contains(TimeWindow{Start: 720, End: 780}))
}

func TestSeasonOfMonth(t *testing.T) {
	tests := []struct {
		month    time.Month
		expected Season
	}{
		{time.March, SeasonSpring},
		{time.May, SeasonSpring},
		{time.June, SeasonSummer},
		{time.August, SeasonSummer},
		{time.September, SeasonAutumn},
		{time.November, SeasonAutumn},
		{time.December, SeasonWinter},
		{time.January, SeasonWinter},
		{time.February, SeasonWinter},
	}

	for _, tt := range tests {
		t.Run(tt.month.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, SeasonOfMonth(tt.month))
		})
	}
}

func TestSeasonsOfTrip(t *testing.T) {
	// Trip entirely in one season.
	july := time.Date(2026, time.July, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, []Season{SeasonSummer}, SeasonsOfTrip(july, 3))

	// Trip crossing a season boundary.
	lateMay := time.Date(2026, time.May, 30, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, []Season{SeasonSpring, SeasonSummer}, SeasonsOfTrip(lateMay, 4))

	// No dates, no seasons.
	assert.Nil(t, SeasonsOfTrip(july, 0))
}

func TestSeasonalMatch(t *testing.T) {
	tests := []struct {
		name          string
		recordSeasons []string
		tripSeasons   []Season
		expected      bool
	}{
		{
			name:          "untagged record matches any trip",
			recordSeasons: nil,
			tripSeasons:   []Season{SeasonWinter},
			expected:      true,
		},
		{
			name:          "unknown trip dates match any record",
			recordSeasons: []string{"summer"},
			tripSeasons:   nil,
			expected:      true,
		},
		{
			name:          "season in common",
			recordSeasons: []string{"summer", "autumn"},
			tripSeasons:   []Season{SeasonSummer},
			expected:      true,
		},
		{
			name:          "no season in common",
			recordSeasons: []string{"summer"},
			tripSeasons:   []Season{SeasonWinter},
			expected:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SeasonalMatch(tt.recordSeasons, tt.tripSeasons))
		})
	}
}
