package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
	"github.com/wayfarer-labs/wayfarer-cli/internal/logger"
)

// DefaultSourceTimeout bounds each source's retrieval task when no
// timeout is configured.
const DefaultSourceTimeout = 8 * time.Second

// MultiSourceCoordinator fans one retrieval round out to the selected
// knowledge sources concurrently and collects per-source results. A
// slow or failing source degrades to an empty result for that source;
// it never aborts the round.
type MultiSourceCoordinator struct {
	retrievers map[domain.Category]Retriever
	timeout    time.Duration
	k          int
}

// NewMultiSourceCoordinator creates a coordinator over the given
// retrievers. timeout bounds each source's task; k is the per-source
// candidate count.
func NewMultiSourceCoordinator(
	retrievers []Retriever, timeout time.Duration, k int,
) (*MultiSourceCoordinator, error) {
	if len(retrievers) == 0 {
		return nil, fmt.Errorf("%w: coordinator needs at least one retriever", domain.ErrInvalidInput)
	}
	byCategory := make(map[domain.Category]Retriever, len(retrievers))
	for _, r := range retrievers {
		if _, dup := byCategory[r.Category()]; dup {
			return nil, fmt.Errorf("%w: duplicate retriever for %s", domain.ErrInvalidInput, r.Category())
		}
		byCategory[r.Category()] = r
	}
	if timeout <= 0 {
		timeout = DefaultSourceTimeout
	}
	if k <= 0 {
		k = domain.DefaultAppSettings().Plan.RetrievalK
	}
	return &MultiSourceCoordinator{
		retrievers: byCategory,
		timeout:    timeout,
		k:          k,
	}, nil
}

// RetrieveAll issues one concurrent retrieval task per selected
// source and returns only after every task completed or timed out.
// The result always contains exactly the selected-source keys, each
// mapped to a possibly empty candidate list; callers never observe a
// partially populated map.
//
// Cold-start policy, applied per source independently: a source that
// returns zero results is retried once with a relaxed filter before
// its empty result is accepted.
func (c *MultiSourceCoordinator) RetrieveAll(
	ctx context.Context,
	queries map[domain.Category]string,
	filters domain.FilterSet,
	selected []domain.Category,
) (map[domain.Category][]domain.ScoredCandidate, error) {
	logger.Section("Multi-Source Retrieval")
	logger.Debug("Sources: %v, timeout: %s, k: %d", selected, c.timeout, c.k)

	results := make(map[domain.Category][]domain.ScoredCandidate, len(selected))
	for _, cat := range selected {
		results[cat] = []domain.ScoredCandidate{}
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for _, cat := range selected {
		retriever, ok := c.retrievers[cat]
		if !ok {
			logger.Warn("No retriever for source %s, returning empty", cat)
			continue
		}
		query := queries[cat]
		filter := filters.For(cat)

		g.Go(func() error {
			// The per-source timeout cancels only this task, never
			// its siblings.
			sctx, cancel := context.WithTimeout(gctx, c.timeout)
			defer cancel()

			candidates := c.retrieveOne(sctx, retriever, query, filter)

			mu.Lock()
			results[cat] = candidates
			mu.Unlock()
			return nil
		})
	}

	// Tasks report failures as empty results, so Wait only observes
	// context cancellation of the whole round.
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("retrieve all: %w", err)
	}

	for _, cat := range selected {
		logger.Debug("Source %s: %d candidates", cat, len(results[cat]))
	}
	return results, nil
}

// retrieveOne runs one source's retrieval with the cold-start retry.
// Failures and timeouts degrade to an empty result.
func (c *MultiSourceCoordinator) retrieveOne(
	ctx context.Context, retriever Retriever, query string, filter domain.Filter,
) []domain.ScoredCandidate {
	cat := retriever.Category()

	candidates, err := retriever.Retrieve(ctx, query, filter, c.k)
	if err != nil {
		logger.Warn("Source %s failed: %v", cat, err)
		return []domain.ScoredCandidate{}
	}
	if len(candidates) > 0 {
		return candidates
	}

	// Cold start: retry once with a relaxed filter, then accept empty.
	if filter == nil {
		return []domain.ScoredCandidate{}
	}
	relaxed, changed := filter.Relax()
	if !changed {
		return []domain.ScoredCandidate{}
	}
	logger.Debug("Source %s empty, retrying once with relaxed filter", cat)

	candidates, err = retriever.Retrieve(ctx, query, relaxed, c.k)
	if err != nil {
		logger.Warn("Source %s relaxed retry failed: %v", cat, err)
		return []domain.ScoredCandidate{}
	}
	return candidates
}
