package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driven/index/sqlite/migrations"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driven"
)

var _ driven.VectorIndex = (*Index)(nil)

// Index is a SQLite-backed implementation of driven.VectorIndex for
// one category. Search runs brute-force cosine over an in-memory copy
// of the vectors; Persist and Restore move that copy to and from the
// category's database file.
type Index struct {
	category domain.Category
	db       *sql.DB
	path     string

	mu      sync.RWMutex
	ids     map[string]int
	entries []entry
	dims    int
	closed  bool
}

// entry pairs a record with its embedding. Slice position is
// insertion order and breaks search ties.
type entry struct {
	record domain.KnowledgeRecord
	vector []float32
}

// NewIndex opens (or creates) the index database for one category.
// If dataDir is empty, defaults to ~/.wayfarer/index/.
func NewIndex(dataDir string, category domain.Category) (*Index, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, category)
	}

	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".wayfarer", "index")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, category.String()+".db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	idx := &Index{
		category: category,
		db:       db,
		path:     dbPath,
		ids:      make(map[string]int),
	}

	// Run migrations
	if err := idx.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return idx, nil
}

// Category returns the knowledge category this index serves.
func (idx *Index) Category() domain.Category {
	return idx.category
}

// Path returns the database file path.
func (idx *Index) Path() string {
	return idx.path
}

// Add inserts records with their embedding vectors into the in-memory
// copy. Re-adding an identifier replaces the stored record in place,
// so the original insertion position is kept. Nothing touches the
// database until Persist.
func (idx *Index) Add(ctx context.Context, records []domain.KnowledgeRecord, vectors [][]float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(records) != len(vectors) {
		return fmt.Errorf("%w: %d records with %d vectors", domain.ErrInvalidInput, len(records), len(vectors))
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.closed {
		return domain.ErrIndexClosed
	}

	for i := range records {
		rec, vec := records[i], vectors[i]
		if len(vec) == 0 {
			return fmt.Errorf("%w: record %s has an empty vector", domain.ErrInvalidInput, rec.ID)
		}
		if idx.dims == 0 {
			idx.dims = len(vec)
		}
		if len(vec) != idx.dims {
			return fmt.Errorf("%w: record %s vector has %d dimensions, index holds %d",
				domain.ErrInvalidInput, rec.ID, len(vec), idx.dims)
		}

		if pos, ok := idx.ids[rec.ID]; ok {
			idx.entries[pos] = entry{record: rec, vector: vec}
			continue
		}
		idx.ids[rec.ID] = len(idx.entries)
		idx.entries = append(idx.entries, entry{record: rec, vector: vec})
	}
	return nil
}

// Search finds the k nearest records to the query vector. An empty or
// never-restored index returns an empty result.
func (idx *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		return nil, domain.ErrIndexClosed
	}
	if k <= 0 || len(idx.entries) == 0 {
		return []driven.VectorHit{}, nil
	}
	if len(query) != idx.dims {
		return nil, fmt.Errorf("%w: query vector has %d dimensions, index holds %d",
			domain.ErrInvalidInput, len(query), idx.dims)
	}

	type scored struct {
		position   int
		similarity float64
	}
	scores := make([]scored, len(idx.entries))
	for i := range idx.entries {
		scores[i] = scored{position: i, similarity: cosineSimilarity(query, idx.entries[i].vector)}
	}
	sort.SliceStable(scores, func(a, b int) bool {
		if scores[a].similarity != scores[b].similarity {
			return scores[a].similarity > scores[b].similarity
		}
		return scores[a].position < scores[b].position
	})

	if k > len(scores) {
		k = len(scores)
	}
	hits := make([]driven.VectorHit, k)
	for i := 0; i < k; i++ {
		e := idx.entries[scores[i].position]
		hits[i] = driven.VectorHit{Record: e.record, Similarity: scores[i].similarity}
	}
	return hits, nil
}

// Persist replaces the database contents with the in-memory records,
// all in one transaction.
func (idx *Index) Persist(ctx context.Context) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		return domain.ErrIndexClosed
	}

	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM records"); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (id, position, record, embedding)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i := range idx.entries {
		e := &idx.entries[i]
		payload, err := json.Marshal(e.record)
		if err != nil {
			return fmt.Errorf("marshalling record %s: %w", e.record.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, e.record.ID, i, string(payload),
			float32SliceToBytes(e.vector)); err != nil {
			return fmt.Errorf("saving record %s: %w", e.record.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Restore replaces the in-memory copy with the database contents.
// A category that was never persisted restores to an empty index.
func (idx *Index) Restore(ctx context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.closed {
		return domain.ErrIndexClosed
	}

	rows, err := idx.db.QueryContext(ctx, `
		SELECT record, embedding FROM records ORDER BY position
	`)
	if err != nil {
		return fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var entries []entry //nolint:prealloc // size unknown from query
	ids := make(map[string]int)
	dims := 0

	for rows.Next() {
		var payload string
		var blob []byte
		if err := rows.Scan(&payload, &blob); err != nil {
			return fmt.Errorf("scanning record: %w", err)
		}

		var rec domain.KnowledgeRecord
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return fmt.Errorf("unmarshalling record: %w", err)
		}

		vec := bytesToFloat32Slice(blob)
		if dims == 0 {
			dims = len(vec)
		}
		ids[rec.ID] = len(entries)
		entries = append(entries, entry{record: rec, vector: vec})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating records: %w", err)
	}

	idx.entries = entries
	idx.ids = ids
	idx.dims = dims
	return nil
}

// Count returns the number of records in the in-memory copy.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Close releases the database connection. Further operations fail
// with ErrIndexClosed.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.closed {
		return nil
	}
	idx.closed = true
	return idx.db.Close()
}

// migrate runs all pending migrations.
func (idx *Index) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := idx.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := idx.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".up.sql") {
			upFiles = append(upFiles, e.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_records.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := idx.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := idx.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// float32SliceToBytes converts a []float32 to little-endian bytes for
// BLOB storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a BLOB back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// cosineSimilarity maps the cosine of the angle between two equal
// length vectors from [-1,1] onto [0,1]. A zero vector scores 0.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))

	// Float error can push |cos| just past 1
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return (cos + 1) / 2
}
