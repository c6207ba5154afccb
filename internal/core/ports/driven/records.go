package driven

import (
	"context"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
)

// RecordLoader reads knowledge records from seed storage. It is the
// ingestion boundary: loaded records are assumed valid and
// deduplicated by identifier within a category.
type RecordLoader interface {
	// Load reads every record from one seed file. The file's records
	// must all belong to the given category.
	Load(ctx context.Context, path string, category domain.Category) ([]domain.KnowledgeRecord, error)
}
