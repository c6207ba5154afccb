package services

import (
	"sort"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
	"github.com/wayfarer-labs/wayfarer-cli/internal/logger"
)

// ContextAggregator merges per-source retrieval results into the
// single ordered context handed to generation. Aggregation is pure
// and deterministic: the same inputs always produce the same context,
// byte for byte.
type ContextAggregator struct{}

// NewContextAggregator creates an aggregator.
func NewContextAggregator() *ContextAggregator {
	return &ContextAggregator{}
}

// Aggregate builds the generation context from one retrieval round.
//
// Sections appear in fixed priority order (attractions, food, tips,
// prior itineraries) regardless of which source answered first.
// Within a section candidates keep their retrieval order. A record
// surfacing in more than one source is kept once, in the occurrence
// with the highest score; the priority order breaks score ties.
// Selected sources that stayed empty are reported as exhausted rather
// than silently dropped.
func (a *ContextAggregator) Aggregate(
	results map[domain.Category][]domain.ScoredCandidate,
	selected []domain.Category,
) *domain.AggregatedContext {
	ordered := orderCategories(selected)

	best := bestScores(results, ordered)

	ctx := &domain.AggregatedContext{}
	seen := make(map[string]bool)

	for _, cat := range ordered {
		// Exhaustion is a retrieval outcome: the source itself came
		// back empty, not a section emptied by deduplication.
		if len(results[cat]) == 0 {
			ctx.ExhaustedCategories = append(ctx.ExhaustedCategories, cat)
		}

		section := domain.ContextSection{Category: cat}
		for _, cand := range results[cat] {
			id := cand.Record.ID
			if seen[id] {
				continue
			}
			// A duplicate record is emitted only by the section that
			// scored it highest.
			if cand.Score < best[id] {
				continue
			}
			seen[id] = true
			section.Candidates = append(section.Candidates, cand)
			ctx.Evidence = append(ctx.Evidence, cand.Evidence)
		}
		ctx.Sections = append(ctx.Sections, section)
	}

	logger.Debug("Aggregated %d candidates across %d sections, %d exhausted",
		ctx.CandidateCount(), len(ctx.Sections), len(ctx.ExhaustedCategories))
	return ctx
}

// orderCategories sorts the selected categories into the fixed
// priority order, dropping duplicates.
func orderCategories(selected []domain.Category) []domain.Category {
	want := make(map[domain.Category]bool, len(selected))
	for _, cat := range selected {
		want[cat] = true
	}
	var ordered []domain.Category
	for _, cat := range domain.AllCategories() {
		if want[cat] {
			ordered = append(ordered, cat)
		}
	}
	return ordered
}

// bestScores finds each record's highest score across all sections, so
// deduplication can keep the strongest occurrence.
func bestScores(
	results map[domain.Category][]domain.ScoredCandidate, ordered []domain.Category,
) map[string]float64 {
	best := make(map[string]float64)
	for _, cat := range ordered {
		for _, cand := range results[cat] {
			if s, ok := best[cand.Record.ID]; !ok || cand.Score > s {
				best[cand.Record.ID] = cand.Score
			}
		}
	}
	return best
}

// TopEvidence returns up to limit citations sorted by relevance, used
// for result display.
func TopEvidence(evidence []domain.Evidence, limit int) []domain.Evidence {
	out := make([]domain.Evidence, len(evidence))
	copy(out, evidence)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Relevance > out[j].Relevance
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
