package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKnowledgeRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		record  KnowledgeRecord
		wantErr bool
	}{
		{
			name: "valid attraction",
			record: KnowledgeRecord{
				ID:          "louvre",
				Category:    CategoryAttraction,
				Description: "world's largest art museum",
				Attraction:  &AttractionMetadata{PriceEUR: 17},
			},
		},
		{
			name: "missing id",
			record: KnowledgeRecord{
				Category:    CategoryAttraction,
				Description: "x",
				Attraction:  &AttractionMetadata{},
			},
			wantErr: true,
		},
		{
			name: "unknown category",
			record: KnowledgeRecord{
				ID:          "r1",
				Category:    Category("hotels"),
				Description: "x",
			},
			wantErr: true,
		},
		{
			name: "missing description",
			record: KnowledgeRecord{
				ID:         "r1",
				Category:   CategoryAttraction,
				Attraction: &AttractionMetadata{},
			},
			wantErr: true,
		},
		{
			name: "metadata shape does not match category",
			record: KnowledgeRecord{
				ID:          "r1",
				Category:    CategoryFood,
				Description: "x",
				Attraction:  &AttractionMetadata{},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRecord)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestKnowledgeRecord_Location(t *testing.T) {
	pos := &Coordinates{Lat: 48.86, Lon: 2.34}

	withPos := attractionRecord("a1", 5)
	withPos.Attraction.Location = pos
	assert.Equal(t, pos, withPos.Location())

	tip := KnowledgeRecord{ID: "t1", Category: CategoryTip, Tip: &TipMetadata{}}
	assert.Nil(t, tip.Location())
}

func TestPriceBand_Rank(t *testing.T) {
	assert.Less(t, PriceBandBudget.Rank(), PriceBandModerate.Rank())
	assert.Less(t, PriceBandModerate.Rank(), PriceBandUpscale.Rank())

	// Unknown bands rank above everything so they never pass a cap.
	assert.Greater(t, PriceBand("????").Rank(), PriceBandUpscale.Rank())
}

func TestCategory_IsValid(t *testing.T) {
	for _, c := range AllCategories() {
		assert.True(t, c.IsValid(), c)
	}
	assert.False(t, Category("hotel").IsValid())
	assert.False(t, Category("").IsValid())
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input    string
		expected Category
		ok       bool
	}{
		{"attraction", CategoryAttraction, true},
		{"attractions", CategoryAttraction, true},
		{"food", CategoryFood, true},
		{"tips", CategoryTip, true},
		{"prior-itinerary", CategoryItinerary, true},
		{"itineraries", CategoryItinerary, true},
		{"hotel", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseCategory(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAllCategories_PriorityOrder(t *testing.T) {
	// The aggregation merge order depends on this exact sequence.
	assert.Equal(t, []Category{
		CategoryAttraction,
		CategoryFood,
		CategoryTip,
		CategoryItinerary,
	}, AllCategories())
}
