// Package cli provides the cobra command tree for the wayfarer binary.
// Commands talk to the core exclusively through driving ports; the
// adapter graph behind those ports is assembled once in wire.
package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driven/ai"
	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driven/config/file"
	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driven/index/sqlite"
	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driven/records/jsonfile"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driven"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driving"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/services"
	"github.com/wayfarer-labs/wayfarer-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Persistent flags.
var (
	verbose bool
	dataDir string
)

// Injected services. Execute wires the real adapters; tests assign
// mocks directly.
var (
	planService     driving.PlanService
	searchService   driving.SearchService
	ingestService   driving.IngestService
	settingsService driving.SettingsService
	configStore     driven.ConfigStore
	promptStore     promptLibrary
)

// promptLibrary is what the prompts commands need from the prompt
// store: loading plus the maintenance operations the generation path
// never touches.
type promptLibrary interface {
	driven.PromptStore
	Names() []string
	Reset(name string) error
	Dir() string
}

var rootCmd = &cobra.Command{
	Use:   "wayfarer",
	Short: "Plan constraint-checked travel itineraries from local knowledge",
	Long: `Wayfarer plans multi-day travel itineraries from a local knowledge base.
Per-category vector retrieval gathers attractions, food, tips and prior
itineraries; an LLM drafts day plans from the retrieved evidence; and
every draft is validated against budget, walking-distance, opening-hours
and season constraints before it reaches you.

Run without a subcommand to start the interactive planning wizard.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if !wireOnExecute || wired {
			return nil
		}
		return wire(cmd)
	},
	RunE: runWizard,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose progress logging to stderr")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "",
		"application data directory (default ~/.wayfarer)")
}

// wireOnExecute gates adapter construction: Execute turns it on, so
// tests can run commands against injected mocks without touching the
// real home directory.
var (
	wireOnExecute bool
	wired         bool
	closers       []io.Closer
)

// Execute wires the real adapters and runs the root command.
func Execute() error {
	wireOnExecute = true
	defer closeAll()
	return rootCmd.Execute()
}

func closeAll() {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i].Close() //nolint:errcheck // Shutdown path, nothing to do with the error.
	}
	closers = nil
}

// wire assembles the adapter graph behind the driving ports. Stores
// and indices must open or the command fails; AI-backed services stay
// nil until the user configures providers, and each command reports
// what it is missing.
func wire(cmd *cobra.Command) error {
	wired = true

	cfg, err := file.NewConfigStore(dataDir)
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}
	configStore = cfg

	promptDir := ""
	if dataDir != "" {
		promptDir = filepath.Join(dataDir, "prompts")
	}
	prompts, err := file.NewPromptStore(promptDir)
	if err != nil {
		return fmt.Errorf("open prompt store: %w", err)
	}
	promptStore = prompts

	settingsService = services.NewSettingsService(cfg, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	indexDir := ""
	if dataDir != "" {
		indexDir = filepath.Join(dataDir, "index")
	}
	indices := make([]driven.VectorIndex, 0, len(domain.AllCategories()))
	for _, cat := range domain.AllCategories() {
		idx, err := sqlite.NewIndex(indexDir, cat)
		if err != nil {
			return fmt.Errorf("open %s index: %w", cat, err)
		}
		closers = append(closers, idx)
		if err := idx.Restore(cmd.Context()); err != nil {
			return fmt.Errorf("restore %s index: %w", cat, err)
		}
		indices = append(indices, idx)
	}

	embedder, err := ai.CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		logger.Warn("Embedding provider unavailable: %v", err)
	}
	llm, err := ai.CreateLLMService(&settings.LLM)
	if err != nil {
		logger.Warn("LLM provider unavailable: %v", err)
	}

	if embedder != nil {
		ingest, err := services.NewIngestOrchestrator(jsonfile.NewLoader(), embedder, indices)
		if err != nil {
			return fmt.Errorf("build ingest service: %w", err)
		}
		ingestService = ingest

		retrievers := make([]services.Retriever, 0, len(indices))
		for _, idx := range indices {
			r, err := services.NewSourceRetriever(idx.Category(), idx, embedder)
			if err != nil {
				return fmt.Errorf("build %s retriever: %w", idx.Category(), err)
			}
			retrievers = append(retrievers, r)
		}
		search, err := services.NewSearchService(retrievers)
		if err != nil {
			return fmt.Errorf("build search service: %w", err)
		}
		searchService = search

		if llm != nil {
			coordinator, err := services.NewMultiSourceCoordinator(
				retrievers, settings.Plan.SourceTimeout, settings.Plan.RetrievalK)
			if err != nil {
				return fmt.Errorf("build coordinator: %w", err)
			}
			generator, err := services.NewItineraryGenerator(llm)
			if err != nil {
				return fmt.Errorf("build generator: %w", err)
			}
			generator.SetPromptStore(prompts)
			planner, err := services.NewPlanOrchestrator(
				services.NewIntentAnalyzer(),
				coordinator,
				services.NewContextAggregator(),
				generator,
				services.NewConstraintValidator(),
				settings.Plan,
			)
			if err != nil {
				return fmt.Errorf("build planner: %w", err)
			}
			planService = planner
		}
	}
	return nil
}
