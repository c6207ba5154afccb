package services

import (
	"context"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driven"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driving"
)

// gatedLoader blocks inside Load until released, to hold an ingestion
// pass open while a second one is attempted.
type gatedLoader struct {
	entered chan struct{}
	release chan struct{}
	records []domain.KnowledgeRecord
}

func (l *gatedLoader) Load(_ context.Context, _ string, _ domain.Category) ([]domain.KnowledgeRecord, error) {
	select {
	case l.entered <- struct{}{}:
	default:
	}
	<-l.release
	return l.records, nil
}

func seedLoader() *mockRecordLoader {
	return &mockRecordLoader{
		missing: fmt.Errorf("open seed: %w", fs.ErrNotExist),
		records: map[string][]domain.KnowledgeRecord{
			"/seed/attractions.json": {
				parisAttraction("attr-1", "Louvre Museum", 17, 48.8606, 2.3376),
				parisAttraction("attr-2", "Eiffel Tower", 29, 48.8584, 2.2945),
			},
			"/seed/food.json": {
				parisFood("food-1", "Le Potager", domain.PriceBandBudget),
			},
		},
	}
}

func TestNewIngestOrchestrator_Validation(t *testing.T) {
	embedder := &mockEmbeddingService{embedding: []float32{0.1}}
	index := &mockVectorIndex{category: domain.CategoryAttraction}

	_, err := NewIngestOrchestrator(nil, embedder, []driven.VectorIndex{index})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NewIngestOrchestrator(seedLoader(), nil, []driven.VectorIndex{index})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NewIngestOrchestrator(seedLoader(), embedder, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NewIngestOrchestrator(seedLoader(), embedder, []driven.VectorIndex{
		&mockVectorIndex{category: domain.CategoryFood},
		&mockVectorIndex{category: domain.CategoryFood},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngestOrchestrator_Ingest_BuildsAllIndices(t *testing.T) {
	embedder := &mockEmbeddingService{embedding: []float32{0.1, 0.2}}
	attrIndex := &mockVectorIndex{category: domain.CategoryAttraction}
	foodIndex := &mockVectorIndex{category: domain.CategoryFood}
	o, err := NewIngestOrchestrator(seedLoader(), embedder, []driven.VectorIndex{attrIndex, foodIndex})
	require.NoError(t, err)

	report, err := o.Ingest(context.Background(), driving.IngestOptions{Dir: "/seed"})

	require.NoError(t, err)
	assert.NotEmpty(t, report.BatchID)
	assert.Equal(t, 2, report.Counts[domain.CategoryAttraction])
	assert.Equal(t, 1, report.Counts[domain.CategoryFood])
	assert.Equal(t, 3, report.TotalRecords())
	assert.Empty(t, report.Skipped)

	assert.Len(t, attrIndex.added, 2)
	assert.Len(t, foodIndex.added, 1)
	assert.Equal(t, 1, attrIndex.persisted, "each rebuilt index is persisted once")
	assert.Equal(t, 1, foodIndex.persisted)
	assert.Contains(t, embedder.texts, "Louvre Museum")
	assert.Contains(t, embedder.texts, "Le Potager")
}

func TestIngestOrchestrator_Ingest_SkipsMissingSeedFile(t *testing.T) {
	loader := seedLoader()
	delete(loader.records, "/seed/food.json")
	embedder := &mockEmbeddingService{embedding: []float32{0.1}}
	attrIndex := &mockVectorIndex{category: domain.CategoryAttraction}
	foodIndex := &mockVectorIndex{category: domain.CategoryFood}
	o, err := NewIngestOrchestrator(loader, embedder, []driven.VectorIndex{attrIndex, foodIndex})
	require.NoError(t, err)

	report, err := o.Ingest(context.Background(), driving.IngestOptions{Dir: "/seed"})

	require.NoError(t, err, "a missing seed file is not an error")
	assert.Equal(t, []domain.Category{domain.CategoryFood}, report.Skipped)
	assert.Equal(t, 2, report.Counts[domain.CategoryAttraction])
	assert.Empty(t, foodIndex.added)
}

func TestIngestOrchestrator_Ingest_RespectsCategoryFilter(t *testing.T) {
	embedder := &mockEmbeddingService{embedding: []float32{0.1}}
	attrIndex := &mockVectorIndex{category: domain.CategoryAttraction}
	foodIndex := &mockVectorIndex{category: domain.CategoryFood}
	o, err := NewIngestOrchestrator(seedLoader(), embedder, []driven.VectorIndex{attrIndex, foodIndex})
	require.NoError(t, err)

	report, err := o.Ingest(context.Background(), driving.IngestOptions{
		Dir:        "/seed",
		Categories: []domain.Category{domain.CategoryFood},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalRecords())
	assert.Empty(t, attrIndex.added, "unrequested categories are untouched")
	assert.Len(t, foodIndex.added, 1)
}

func TestIngestOrchestrator_Ingest_EmptySeedFile(t *testing.T) {
	loader := &mockRecordLoader{
		missing: fs.ErrNotExist,
		records: map[string][]domain.KnowledgeRecord{
			"/seed/attractions.json": {},
		},
	}
	embedder := &mockEmbeddingService{embedding: []float32{0.1}}
	index := &mockVectorIndex{category: domain.CategoryAttraction}
	o, err := NewIngestOrchestrator(loader, embedder, []driven.VectorIndex{index})
	require.NoError(t, err)

	report, err := o.Ingest(context.Background(), driving.IngestOptions{Dir: "/seed"})

	require.NoError(t, err)
	assert.Equal(t, 0, report.Counts[domain.CategoryAttraction])
	assert.Equal(t, 0, index.persisted, "nothing to persist for an empty file")
}

func TestIngestOrchestrator_Ingest_BatchesEmbeddings(t *testing.T) {
	var records []domain.KnowledgeRecord
	for i := 0; i < 70; i++ {
		id := fmt.Sprintf("attr-%03d", i)
		records = append(records, parisAttraction(id, "Stop "+id, 5, 48.85, 2.35))
	}
	loader := &mockRecordLoader{
		missing: fs.ErrNotExist,
		records: map[string][]domain.KnowledgeRecord{"/seed/attractions.json": records},
	}
	embedder := &mockEmbeddingService{embedding: []float32{0.1}}
	index := &mockVectorIndex{category: domain.CategoryAttraction}
	o, err := NewIngestOrchestrator(loader, embedder, []driven.VectorIndex{index})
	require.NoError(t, err)

	report, err := o.Ingest(context.Background(), driving.IngestOptions{Dir: "/seed"})

	require.NoError(t, err)
	assert.Equal(t, 70, report.Counts[domain.CategoryAttraction])
	assert.Equal(t, []int{32, 32, 6}, embedder.batchSizes)
	assert.Len(t, index.added, 70)
	assert.Equal(t, 1, index.persisted)
}

func TestIngestOrchestrator_Ingest_WrongCategoryFails(t *testing.T) {
	loader := &mockRecordLoader{
		missing: fs.ErrNotExist,
		records: map[string][]domain.KnowledgeRecord{
			"/seed/attractions.json": {parisFood("food-1", "Le Potager", domain.PriceBandBudget)},
		},
	}
	embedder := &mockEmbeddingService{embedding: []float32{0.1}}
	index := &mockVectorIndex{category: domain.CategoryAttraction}
	o, err := NewIngestOrchestrator(loader, embedder, []driven.VectorIndex{index})
	require.NoError(t, err)

	_, err = o.Ingest(context.Background(), driving.IngestOptions{Dir: "/seed"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidRecord)
	assert.Empty(t, index.added, "a bad seed file indexes nothing")
}

func TestIngestOrchestrator_Ingest_DuplicateIDFails(t *testing.T) {
	loader := &mockRecordLoader{
		missing: fs.ErrNotExist,
		records: map[string][]domain.KnowledgeRecord{
			"/seed/attractions.json": {
				parisAttraction("attr-1", "Louvre Museum", 17, 48.8606, 2.3376),
				parisAttraction("attr-1", "Louvre Museum again", 17, 48.8606, 2.3376),
			},
		},
	}
	embedder := &mockEmbeddingService{embedding: []float32{0.1}}
	index := &mockVectorIndex{category: domain.CategoryAttraction}
	o, err := NewIngestOrchestrator(loader, embedder, []driven.VectorIndex{index})
	require.NoError(t, err)

	_, err = o.Ingest(context.Background(), driving.IngestOptions{Dir: "/seed"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidRecord)
	assert.Contains(t, err.Error(), "duplicate record id")
}

func TestIngestOrchestrator_Ingest_EmbedFailureAborts(t *testing.T) {
	embedder := &mockEmbeddingService{embedErr: domain.ErrEmbeddingUnavailable}
	index := &mockVectorIndex{category: domain.CategoryAttraction}
	o, err := NewIngestOrchestrator(seedLoader(), embedder, []driven.VectorIndex{index})
	require.NoError(t, err)

	_, err = o.Ingest(context.Background(), driving.IngestOptions{Dir: "/seed"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.Contains(t, err.Error(), "ingest attraction")
}

func TestIngestOrchestrator_Ingest_SecondRunRejectedWhileActive(t *testing.T) {
	loader := &gatedLoader{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
		records: []domain.KnowledgeRecord{
			parisAttraction("attr-1", "Louvre Museum", 17, 48.8606, 2.3376),
		},
	}
	embedder := &mockEmbeddingService{embedding: []float32{0.1}}
	index := &mockVectorIndex{category: domain.CategoryAttraction}
	o, err := NewIngestOrchestrator(loader, embedder, []driven.VectorIndex{index})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := o.Ingest(context.Background(), driving.IngestOptions{Dir: "/seed"})
		done <- err
	}()
	<-loader.entered

	_, err = o.Ingest(context.Background(), driving.IngestOptions{Dir: "/seed"})
	assert.ErrorIs(t, err, domain.ErrIngestInProgress)

	close(loader.release)
	require.NoError(t, <-done)

	// With the first run finished, a fresh pass is accepted again.
	_, err = o.Ingest(context.Background(), driving.IngestOptions{Dir: "/seed"})
	assert.NoError(t, err)
}
