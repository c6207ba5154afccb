package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driving"
)

// resetIngestFlags clears the sticky package-level flag values so each
// test starts from the command defaults.
func resetIngestFlags() {
	ingestDataDir = "data/seed"
	ingestCategories = nil
	ingestWatch = false
}

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest", ingestCmd.Use)
}

func TestIngestCmd_Short(t *testing.T) {
	assert.Equal(t, "Build the knowledge indices from seed files", ingestCmd.Short)
}

func TestIngestCmd_Flags(t *testing.T) {
	assert.NotNil(t, ingestCmd.Flags().Lookup("data"))
	assert.NotNil(t, ingestCmd.Flags().Lookup("category"))
	assert.NotNil(t, ingestCmd.Flags().Lookup("watch"))

	assert.Equal(t, "data/seed", ingestCmd.Flags().Lookup("data").DefValue)
}

func TestIngestCmd_NotConfigured(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	resetIngestFlags()
	ingestService = nil

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"ingest"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingest service not configured")
}

func TestIngestCmd_RendersReport(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	resetIngestFlags()

	var gotOpts driving.IngestOptions
	ingestService = &MockIngestService{
		IngestFunc: func(_ context.Context, opts driving.IngestOptions) (*driving.IngestReport, error) {
			gotOpts = opts
			return &driving.IngestReport{
				BatchID: "batch-1",
				Counts: map[domain.Category]int{
					domain.CategoryAttraction: 5,
					domain.CategoryFood:       4,
					domain.CategoryTip:        3,
				},
				Skipped: []domain.Category{domain.CategoryItinerary},
				Elapsed: 2 * time.Second,
			}, nil
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest", "--data", "testdata/seed"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, "testdata/seed", gotOpts.Dir)
	assert.Empty(t, gotOpts.Categories)

	output := buf.String()
	assert.Contains(t, output, "Ingested 12 records")
	assert.Contains(t, output, "attraction")
	assert.Contains(t, output, "skipped (no seed file)")
}

func TestIngestCmd_CategoryFilter(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	resetIngestFlags()

	var gotOpts driving.IngestOptions
	ingestService = &MockIngestService{
		IngestFunc: func(_ context.Context, opts driving.IngestOptions) (*driving.IngestReport, error) {
			gotOpts = opts
			return &driving.IngestReport{
				Counts: map[domain.Category]int{domain.CategoryFood: 4},
			}, nil
		},
	}

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"ingest", "--category", "food"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, []domain.Category{domain.CategoryFood}, gotOpts.Categories)
}

func TestIngestCmd_UnknownCategory(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	resetIngestFlags()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"ingest", "--category", "hotels"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown category "hotels"`)
}

func TestIngestCmd_ServiceError(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	resetIngestFlags()

	ingestService = &MockIngestService{
		IngestFunc: func(_ context.Context, _ driving.IngestOptions) (*driving.IngestReport, error) {
			return nil, errors.New("embedder unreachable")
		},
	}

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"ingest"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingest failed")
}
