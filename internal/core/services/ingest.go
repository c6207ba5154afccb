package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driven"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driving"
	"github.com/wayfarer-labs/wayfarer-cli/internal/logger"
)

var _ driving.IngestService = (*IngestOrchestrator)(nil)

// embedBatchSize bounds how many record descriptions go to the
// embedding provider per call.
const embedBatchSize = 32

// IngestOrchestrator loads seed records, embeds their descriptions and
// rebuilds the per-category vector indices. Runs are fully serialised:
// a second Ingest call while one is active fails fast with
// ErrIngestInProgress instead of queueing.
type IngestOrchestrator struct {
	loader   driven.RecordLoader
	embedder driven.EmbeddingService
	indices  map[domain.Category]driven.VectorIndex

	mu      sync.Mutex
	running bool
}

// NewIngestOrchestrator creates an ingest orchestrator over the given
// loader, embedder and indices.
func NewIngestOrchestrator(
	loader driven.RecordLoader,
	embedder driven.EmbeddingService,
	indices []driven.VectorIndex,
) (*IngestOrchestrator, error) {
	if loader == nil {
		return nil, fmt.Errorf("%w: ingest needs a record loader", domain.ErrInvalidInput)
	}
	if embedder == nil {
		return nil, fmt.Errorf("%w: ingest needs an embedding service", domain.ErrInvalidInput)
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("%w: ingest needs at least one index", domain.ErrInvalidInput)
	}
	byCategory := make(map[domain.Category]driven.VectorIndex, len(indices))
	for _, idx := range indices {
		if _, dup := byCategory[idx.Category()]; dup {
			return nil, fmt.Errorf("%w: duplicate index for %s", domain.ErrInvalidInput, idx.Category())
		}
		byCategory[idx.Category()] = idx
	}
	return &IngestOrchestrator{
		loader:   loader,
		embedder: embedder,
		indices:  byCategory,
	}, nil
}

// Ingest runs one ingestion pass: for every requested category it
// loads the seed file, validates and deduplicates the records, embeds
// the descriptions in batches and persists the rebuilt index. A
// missing seed file skips the category; a loading or embedding
// failure aborts the pass.
func (o *IngestOrchestrator) Ingest(ctx context.Context, opts driving.IngestOptions) (*driving.IngestReport, error) {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return nil, domain.ErrIngestInProgress
	}
	o.running = true
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		o.running = false
		o.mu.Unlock()
	}()

	started := time.Now()
	report := &driving.IngestReport{
		BatchID: uuid.New().String(),
		Counts:  make(map[domain.Category]int),
	}

	logger.Section("Knowledge Ingestion")
	logger.Info("Batch %s from %s", report.BatchID, opts.Dir)

	for _, cat := range o.selectCategories(opts.Categories) {
		path := filepath.Join(opts.Dir, cat.SeedFile())

		count, err := o.ingestCategory(ctx, cat, path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logger.Warn("No seed file for %s (%s), skipping", cat, path)
			report.Skipped = append(report.Skipped, cat)
			continue
		case err != nil:
			return nil, fmt.Errorf("ingest %s: %w", cat, err)
		}
		report.Counts[cat] = count
	}

	report.Elapsed = time.Since(started)
	logger.Info("Ingested %d records across %d categories in %s",
		report.TotalRecords(), len(report.Counts), report.Elapsed.Round(time.Millisecond))
	return report, nil
}

// selectCategories resolves the categories an ingestion pass covers,
// in the fixed category order.
func (o *IngestOrchestrator) selectCategories(requested []domain.Category) []domain.Category {
	want := make(map[domain.Category]bool, len(requested))
	for _, cat := range requested {
		want[cat] = true
	}
	var out []domain.Category
	for _, cat := range domain.AllCategories() {
		if _, ok := o.indices[cat]; !ok {
			continue
		}
		if len(requested) == 0 || want[cat] {
			out = append(out, cat)
		}
	}
	return out
}

// ingestCategory rebuilds one category's index from its seed file and
// returns how many records it indexed.
func (o *IngestOrchestrator) ingestCategory(ctx context.Context, cat domain.Category, path string) (int, error) {
	index := o.indices[cat]

	records, err := o.loader.Load(ctx, path, cat)
	if err != nil {
		return 0, err
	}
	records, err = validateRecords(records, cat)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		logger.Warn("Seed file for %s holds no records", cat)
		return 0, nil
	}
	logger.Debug("Loaded %d %s records", len(records), cat)

	for start := 0; start < len(records); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		texts := make([]string, len(batch))
		for i, rec := range batch {
			texts[i] = rec.Description
		}
		vectors, err := o.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return 0, fmt.Errorf("embed batch: %w", err)
		}
		if len(vectors) != len(batch) {
			return 0, fmt.Errorf("embed batch: got %d vectors for %d records", len(vectors), len(batch))
		}
		if err := index.Add(ctx, batch, vectors); err != nil {
			return 0, fmt.Errorf("index batch: %w", err)
		}
		logger.Debug("Indexed %d/%d %s records", end, len(records), cat)
	}

	if err := index.Persist(ctx); err != nil {
		return 0, fmt.Errorf("persist index: %w", err)
	}
	return len(records), nil
}

// validateRecords drops nothing silently: a malformed record fails the
// pass, a duplicate identifier within the category fails the pass, and
// a record filed under the wrong category fails the pass.
func validateRecords(records []domain.KnowledgeRecord, cat domain.Category) ([]domain.KnowledgeRecord, error) {
	seen := make(map[string]bool, len(records))
	for i := range records {
		rec := &records[i]
		if err := rec.Validate(); err != nil {
			return nil, err
		}
		if rec.Category != cat {
			return nil, fmt.Errorf("%w: record %s filed under %s but tagged %s",
				domain.ErrInvalidRecord, rec.ID, cat, rec.Category)
		}
		if seen[rec.ID] {
			return nil, fmt.Errorf("%w: duplicate record id %s", domain.ErrInvalidRecord, rec.ID)
		}
		seen[rec.ID] = true
	}
	return records, nil
}
