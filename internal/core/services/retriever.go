package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driven"
	"github.com/wayfarer-labs/wayfarer-cli/internal/logger"
)

// snippetMaxLen bounds evidence snippets quoted from record text.
const snippetMaxLen = 200

// Retriever is the capability the coordinator fans out to: retrieve
// scored, evidence-annotated candidates from one knowledge category.
type Retriever interface {
	// Category returns the knowledge category this retriever serves.
	Category() domain.Category

	// Retrieve embeds the query, searches the category's index and
	// applies the filter. Returns at most k candidates ordered by
	// descending score, ties broken by ascending record identifier.
	// A nil filter keeps every candidate.
	Retrieve(ctx context.Context, query string, filter domain.Filter, k int) ([]domain.ScoredCandidate, error)
}

var _ Retriever = (*SourceRetriever)(nil)

// SourceRetriever retrieves candidates from one category's vector
// index. The retrieval shape is identical across categories; only the
// index and the filter differ.
type SourceRetriever struct {
	category  domain.Category
	index     driven.VectorIndex
	embedding driven.EmbeddingService
}

// NewSourceRetriever creates a retriever over one category index.
func NewSourceRetriever(
	category domain.Category,
	index driven.VectorIndex,
	embedding driven.EmbeddingService,
) (*SourceRetriever, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: category %q", domain.ErrInvalidInput, category)
	}
	if index == nil {
		return nil, fmt.Errorf("%w: %s retriever needs a vector index", domain.ErrInvalidInput, category)
	}
	if embedding == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	return &SourceRetriever{
		category:  category,
		index:     index,
		embedding: embedding,
	}, nil
}

// Category returns the knowledge category this retriever serves.
func (r *SourceRetriever) Category() domain.Category {
	return r.category
}

// Retrieve runs one embed, search, filter, truncate pass. It never
// widens the search on its own: an empty result after filtering is
// returned as-is, and relaxation stays the caller's decision.
func (r *SourceRetriever) Retrieve(
	ctx context.Context, query string, filter domain.Filter, k int,
) ([]domain.ScoredCandidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.ScoredCandidate{}, nil
	}
	if k <= 0 {
		k = domain.DefaultAppSettings().Plan.RetrievalK
	}
	if k > domain.MaxRetrievalResults {
		k = domain.MaxRetrievalResults
	}

	vector, err := r.embedding.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed %s query: %w", r.category, err)
	}

	// Oversample to leave room for filter rejection.
	hits, err := r.index.Search(ctx, vector, k*2)
	if err != nil {
		return nil, fmt.Errorf("search %s index: %w", r.category, err)
	}
	logger.Debug("Retriever %s: %d hits for %q", r.category, len(hits), query)

	candidates := make([]domain.ScoredCandidate, 0, k)
	for i := range hits {
		if filter != nil && !filter.Allows(&hits[i].Record) {
			continue
		}
		candidates = append(candidates, r.toCandidate(hits[i]))
	}

	// Descending score, ties by ascending record ID, so identical
	// inputs always produce identical output order.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Record.ID < candidates[j].Record.ID
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	logger.Debug("Retriever %s: %d candidates after filter", r.category, len(candidates))

	return candidates, nil
}

// toCandidate attaches evidence to a search hit.
func (r *SourceRetriever) toCandidate(hit driven.VectorHit) domain.ScoredCandidate {
	source := hit.Record.SourceLabel
	if source == "" {
		source = "knowledge-base"
	}
	return domain.ScoredCandidate{
		Record: hit.Record,
		Score:  hit.Similarity,
		Evidence: domain.Evidence{
			Source:    source + "/" + hit.Record.Category.String(),
			Snippet:   truncateSnippet(hit.Record.Description, snippetMaxLen),
			URL:       hit.Record.URL,
			Relevance: hit.Similarity,
			RecordID:  hit.Record.ID,
		},
	}
}

// truncateSnippet shortens text at a rune boundary with an ellipsis.
func truncateSnippet(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen-3]) + "..."
}
