package services

import (
	"context"
	"sync"
	"time"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driven"
)

// --- Mock implementations shared across service tests ---

// mockEmbeddingService implements driven.EmbeddingService.
type mockEmbeddingService struct {
	embedding []float32
	embedErr  error
	dims      int

	mu         sync.Mutex
	texts      []string
	batchSizes []int
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.mu.Lock()
	m.texts = append(m.texts, text)
	m.mu.Unlock()
	return m.embedding, nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.mu.Lock()
	m.texts = append(m.texts, texts...)
	m.batchSizes = append(m.batchSizes, len(texts))
	m.mu.Unlock()
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = m.embedding
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 384
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockVectorIndex implements driven.VectorIndex with canned hits.
type mockVectorIndex struct {
	category  domain.Category
	hits      []driven.VectorHit
	searchErr error
	addErr    error

	mu         sync.Mutex
	searchedK  []int
	added      []domain.KnowledgeRecord
	persisted  int
	restored   int
	closeCalls int
}

func (m *mockVectorIndex) Category() domain.Category {
	return m.category
}

func (m *mockVectorIndex) Add(_ context.Context, records []domain.KnowledgeRecord, _ [][]float32) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.mu.Lock()
	m.added = append(m.added, records...)
	m.mu.Unlock()
	return nil
}

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, k int) ([]driven.VectorHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	m.mu.Lock()
	m.searchedK = append(m.searchedK, k)
	m.mu.Unlock()
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockVectorIndex) Persist(_ context.Context) error {
	m.mu.Lock()
	m.persisted++
	m.mu.Unlock()
	return nil
}

func (m *mockVectorIndex) Restore(_ context.Context) error {
	m.mu.Lock()
	m.restored++
	m.mu.Unlock()
	return nil
}

func (m *mockVectorIndex) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.added) > 0 {
		return len(m.added)
	}
	return len(m.hits)
}

func (m *mockVectorIndex) Close() error {
	m.mu.Lock()
	m.closeCalls++
	m.mu.Unlock()
	return nil
}

// mockRetriever implements Retriever with per-call canned results.
// results is consumed call by call; the last entry repeats once the
// queue is drained.
type mockRetriever struct {
	category domain.Category
	results  [][]domain.ScoredCandidate
	err      error
	delay    time.Duration

	mu      sync.Mutex
	calls   int
	queries []string
	filters []domain.Filter
	ks      []int
}

func (m *mockRetriever) Category() domain.Category {
	return m.category
}

func (m *mockRetriever) Retrieve(
	ctx context.Context, query string, filter domain.Filter, k int,
) ([]domain.ScoredCandidate, error) {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, query)
	m.filters = append(m.filters, filter)
	m.ks = append(m.ks, k)
	call := m.calls
	m.calls++

	if len(m.results) == 0 {
		return []domain.ScoredCandidate{}, nil
	}
	if call >= len(m.results) {
		call = len(m.results) - 1
	}
	return m.results[call], nil
}

func (m *mockRetriever) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockLLMService implements driven.LLMService with a queue of canned
// responses. The last response repeats once the queue is drained.
type mockLLMService struct {
	responses []string
	err       error

	mu      sync.Mutex
	prompts []string
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if len(m.responses) == 0 {
		return "", nil
	}
	call := len(m.prompts) - 1
	if call >= len(m.responses) {
		call = len(m.responses) - 1
	}
	return m.responses[call], nil
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLMService) Close() error {
	return nil
}

func (m *mockLLMService) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

// mockPromptStore implements driven.PromptStore from a name map.
type mockPromptStore struct {
	prompts map[string]string
	reloads int
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if prompt, ok := m.prompts[name]; ok {
		return prompt, nil
	}
	return "", domain.ErrNotFound
}

func (m *mockPromptStore) Reload() {
	m.reloads++
}

// mockRecordLoader implements driven.RecordLoader from a path map.
// Missing paths report fs.ErrNotExist via the injected error.
type mockRecordLoader struct {
	records map[string][]domain.KnowledgeRecord
	missing error
	err     error
}

func (m *mockRecordLoader) Load(_ context.Context, path string, _ domain.Category) ([]domain.KnowledgeRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	records, ok := m.records[path]
	if !ok {
		return nil, m.missing
	}
	return records, nil
}

// mockConfigStore implements driven.ConfigStore in memory.
type mockConfigStore struct {
	values map[string]any
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{values: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	if v, ok := m.values[key].(string); ok {
		return v
	}
	return ""
}

func (m *mockConfigStore) GetInt(key string) int {
	switch v := m.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func (m *mockConfigStore) GetBool(key string) bool {
	if v, ok := m.values[key].(bool); ok {
		return v
	}
	return false
}

func (m *mockConfigStore) GetFloat(key string) float64 {
	switch v := m.values[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func (m *mockConfigStore) GetStringSlice(key string) []string {
	if v, ok := m.values[key].([]string); ok {
		return v
	}
	return nil
}

func (m *mockConfigStore) Set(key string, value any) error {
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Save() error {
	return nil
}

func (m *mockConfigStore) Load() error {
	return nil
}

func (m *mockConfigStore) Path() string {
	return "/tmp/mock-config.toml"
}

// --- Shared fixtures ---

// parisAttraction builds a located attraction record for tests.
func parisAttraction(id, name string, price float64, lat, lon float64) domain.KnowledgeRecord {
	return domain.KnowledgeRecord{
		ID:          id,
		Category:    domain.CategoryAttraction,
		Description: name,
		SourceLabel: "curated-guide",
		Attraction: &domain.AttractionMetadata{
			PriceEUR: price,
			Location: &domain.Coordinates{Lat: lat, Lon: lon},
			Tags:     []string{"sightseeing"},
		},
	}
}

// parisFood builds a food record for tests.
func parisFood(id, name string, band domain.PriceBand) domain.KnowledgeRecord {
	return domain.KnowledgeRecord{
		ID:          id,
		Category:    domain.CategoryFood,
		Description: name,
		SourceLabel: "curated-guide",
		Food: &domain.FoodMetadata{
			Band:        band,
			DietaryTags: []string{"vegetarian"},
			Cuisine:     "bistro",
		},
	}
}

// scored wraps a record as a retrieval candidate with evidence.
func scored(record domain.KnowledgeRecord, score float64) domain.ScoredCandidate {
	return domain.ScoredCandidate{
		Record: record,
		Score:  score,
		Evidence: domain.Evidence{
			Source:    record.SourceLabel + "/" + record.Category.String(),
			Snippet:   record.Description,
			Relevance: score,
			RecordID:  record.ID,
		},
	}
}
