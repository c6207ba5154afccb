package driving

import (
	"context"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
)

// SearchService provides direct retrieval against one knowledge
// category, outside the planning loop. Used for inspecting what the
// indices hold.
type SearchService interface {
	// Search embeds the query and returns the category's top
	// candidates, unfiltered, highest score first.
	Search(ctx context.Context, category domain.Category, query string, k int) ([]domain.ScoredCandidate, error)
}
