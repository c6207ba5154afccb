package driving

import (
	"context"
	"time"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
)

// IngestService loads seed records, embeds them and builds the
// per-category vector indices. Ingestion is fully serialised: only
// one run may be active at a time, and planning assumes ingestion
// finished before it starts.
type IngestService interface {
	// Ingest runs one ingestion pass over the seed directory.
	Ingest(ctx context.Context, opts IngestOptions) (*IngestReport, error)
}

// IngestOptions configures one ingestion pass.
type IngestOptions struct {
	// Dir is the seed directory holding one JSON file per category.
	Dir string

	// Categories restricts the pass to the listed categories.
	// Empty ingests every category whose seed file exists.
	Categories []domain.Category
}

// IngestReport summarises one ingestion pass.
type IngestReport struct {
	// BatchID identifies the pass in logs.
	BatchID string

	// Counts is the number of records indexed per category.
	Counts map[domain.Category]int

	// Skipped lists categories whose seed file was missing.
	Skipped []domain.Category

	// Elapsed is the wall-clock ingestion time.
	Elapsed time.Duration
}

// TotalRecords sums the indexed record counts.
func (r *IngestReport) TotalRecords() int {
	var n int
	for _, c := range r.Counts {
		n += c
	}
	return n
}
