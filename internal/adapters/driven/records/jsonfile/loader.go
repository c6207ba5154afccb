package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driven"
)

var _ driven.RecordLoader = (*Loader)(nil)

// Loader reads knowledge records from JSON seed files.
type Loader struct{}

// NewLoader creates a new seed-file loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads one seed file and maps its records into the given
// category. A missing file keeps fs.ErrNotExist in the error chain so
// callers can treat an absent seed as "skip this category".
func (l *Loader) Load(ctx context.Context, path string, category domain.Category) ([]domain.KnowledgeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	switch category {
	case domain.CategoryAttraction:
		return loadAttractions(path, data)
	case domain.CategoryFood:
		return loadFood(path, data)
	case domain.CategoryTip:
		return loadTips(path, data)
	case domain.CategoryItinerary:
		return loadItineraries(path, data)
	default:
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, category)
	}
}

// hoursSeed is the JSON shape for opening hours. Both fields are
// 24-hour "HH:MM" strings.
type hoursSeed struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

func (h *hoursSeed) toDomain(recordID string) (*domain.OpeningHours, error) {
	open, err := domain.ParseClock(h.Open)
	if err != nil {
		return nil, fmt.Errorf("record %s opening time: %w", recordID, err)
	}
	closing, err := domain.ParseClock(h.Close)
	if err != nil {
		return nil, fmt.Errorf("record %s closing time: %w", recordID, err)
	}
	return &domain.OpeningHours{Open: open, Close: closing}, nil
}

// coordsFrom builds coordinates from optional lat/lon fields.
// Seed records carry both or neither.
func coordsFrom(recordID string, lat, lon *float64) (*domain.Coordinates, error) {
	switch {
	case lat == nil && lon == nil:
		return nil, nil
	case lat == nil || lon == nil:
		return nil, fmt.Errorf("%w: record %s has half a coordinate pair", domain.ErrInvalidRecord, recordID)
	default:
		return &domain.Coordinates{Lat: *lat, Lon: *lon}, nil
	}
}

type attractionSeed struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	SourceLabel string     `json:"source_label"`
	URL         string     `json:"url,omitempty"`
	PriceEUR    float64    `json:"price_eur"`
	Lat         *float64   `json:"lat,omitempty"`
	Lon         *float64   `json:"lon,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Hours       *hoursSeed `json:"hours,omitempty"`
	Seasons     []string   `json:"seasons,omitempty"`
}

func loadAttractions(path string, data []byte) ([]domain.KnowledgeRecord, error) {
	var seeds []attractionSeed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	records := make([]domain.KnowledgeRecord, 0, len(seeds))
	for _, s := range seeds {
		location, err := coordsFrom(s.ID, s.Lat, s.Lon)
		if err != nil {
			return nil, err
		}

		var hours *domain.OpeningHours
		if s.Hours != nil {
			if hours, err = s.Hours.toDomain(s.ID); err != nil {
				return nil, err
			}
		}

		records = append(records, domain.KnowledgeRecord{
			ID:          s.ID,
			Category:    domain.CategoryAttraction,
			Description: s.Description,
			SourceLabel: s.SourceLabel,
			URL:         s.URL,
			Attraction: &domain.AttractionMetadata{
				PriceEUR: s.PriceEUR,
				Location: location,
				Tags:     s.Tags,
				Hours:    hours,
				Seasons:  s.Seasons,
			},
		})
	}
	return records, nil
}

type foodSeed struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	SourceLabel string     `json:"source_label"`
	URL         string     `json:"url,omitempty"`
	PriceBand   string     `json:"price_band"`
	DietaryTags []string   `json:"dietary_tags,omitempty"`
	Cuisine     string     `json:"cuisine,omitempty"`
	Lat         *float64   `json:"lat,omitempty"`
	Lon         *float64   `json:"lon,omitempty"`
	Hours       *hoursSeed `json:"hours,omitempty"`
}

func loadFood(path string, data []byte) ([]domain.KnowledgeRecord, error) {
	var seeds []foodSeed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	records := make([]domain.KnowledgeRecord, 0, len(seeds))
	for _, s := range seeds {
		band := domain.PriceBand(s.PriceBand)
		if !band.IsValid() {
			return nil, fmt.Errorf("%w: record %s has unknown price band %q",
				domain.ErrInvalidRecord, s.ID, s.PriceBand)
		}

		location, err := coordsFrom(s.ID, s.Lat, s.Lon)
		if err != nil {
			return nil, err
		}

		var hours *domain.OpeningHours
		if s.Hours != nil {
			if hours, err = s.Hours.toDomain(s.ID); err != nil {
				return nil, err
			}
		}

		records = append(records, domain.KnowledgeRecord{
			ID:          s.ID,
			Category:    domain.CategoryFood,
			Description: s.Description,
			SourceLabel: s.SourceLabel,
			URL:         s.URL,
			Food: &domain.FoodMetadata{
				Band:        band,
				DietaryTags: s.DietaryTags,
				Cuisine:     s.Cuisine,
				Location:    location,
				Hours:       hours,
			},
		})
	}
	return records, nil
}

type tipSeed struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	SourceLabel string   `json:"source_label"`
	URL         string   `json:"url,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Seasons     []string `json:"seasons,omitempty"`
}

func loadTips(path string, data []byte) ([]domain.KnowledgeRecord, error) {
	var seeds []tipSeed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	records := make([]domain.KnowledgeRecord, 0, len(seeds))
	for _, s := range seeds {
		records = append(records, domain.KnowledgeRecord{
			ID:          s.ID,
			Category:    domain.CategoryTip,
			Description: s.Description,
			SourceLabel: s.SourceLabel,
			URL:         s.URL,
			Tip: &domain.TipMetadata{
				Tags:    s.Tags,
				Seasons: s.Seasons,
			},
		})
	}
	return records, nil
}

type itinerarySeed struct {
	ID           string `json:"id"`
	Description  string `json:"description"`
	SourceLabel  string `json:"source_label"`
	URL          string `json:"url,omitempty"`
	Destination  string `json:"destination"`
	DurationDays int    `json:"duration_days"`
	Budget       string `json:"budget"`
}

func loadItineraries(path string, data []byte) ([]domain.KnowledgeRecord, error) {
	var seeds []itinerarySeed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	records := make([]domain.KnowledgeRecord, 0, len(seeds))
	for _, s := range seeds {
		tier := domain.BudgetTier(s.Budget)
		if !tier.IsValid() {
			return nil, fmt.Errorf("%w: record %s has unknown budget tier %q",
				domain.ErrInvalidRecord, s.ID, s.Budget)
		}

		records = append(records, domain.KnowledgeRecord{
			ID:          s.ID,
			Category:    domain.CategoryItinerary,
			Description: s.Description,
			SourceLabel: s.SourceLabel,
			URL:         s.URL,
			Itinerary: &domain.ItineraryMetadata{
				Destination:  s.Destination,
				DurationDays: s.DurationDays,
				Budget:       tier,
			},
		})
	}
	return records, nil
}
