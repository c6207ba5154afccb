package services

import (
	"context"
	"fmt"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driving"
	"github.com/wayfarer-labs/wayfarer-cli/internal/logger"
)

var _ driving.SearchService = (*SearchService)(nil)

// SearchService answers direct queries against a single knowledge
// category, outside the planning loop. Useful for checking what the
// indices hold and how a query scores.
type SearchService struct {
	retrievers map[domain.Category]Retriever
}

// NewSearchService creates a search service over the given retrievers.
func NewSearchService(retrievers []Retriever) (*SearchService, error) {
	if len(retrievers) == 0 {
		return nil, fmt.Errorf("%w: search needs at least one retriever", domain.ErrInvalidInput)
	}
	byCategory := make(map[domain.Category]Retriever, len(retrievers))
	for _, r := range retrievers {
		if _, dup := byCategory[r.Category()]; dup {
			return nil, fmt.Errorf("%w: duplicate retriever for %s", domain.ErrInvalidInput, r.Category())
		}
		byCategory[r.Category()] = r
	}
	return &SearchService{retrievers: byCategory}, nil
}

// Search embeds the query and returns the category's top candidates,
// unfiltered, highest score first.
func (s *SearchService) Search(
	ctx context.Context, category domain.Category, query string, k int,
) ([]domain.ScoredCandidate, error) {
	logger.Section("Knowledge Search")
	logger.Debug("Category: %s, query: %q, k: %d", category, query, k)

	retriever, ok := s.retrievers[category]
	if !ok {
		return nil, fmt.Errorf("%w: no index for category %q", domain.ErrNotFound, category)
	}

	candidates, err := retriever.Retrieve(ctx, query, nil, k)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	logger.Info("Found %d candidates", len(candidates))
	return candidates, nil
}
