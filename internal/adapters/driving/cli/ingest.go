package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driving"
)

// watchDebounce batches rapid seed-file writes into one ingestion run.
const watchDebounce = 500 * time.Millisecond

var (
	ingestDataDir    string
	ingestCategories []string
	ingestWatch      bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Build the knowledge indices from seed files",
	Long: `Loads seed records, embeds their descriptions and rebuilds the
per-category vector indices.

The seed directory holds one JSON file per category: attractions.json,
food.json, tips.json and itineraries.json. Categories whose seed file
is missing are skipped. With --watch the command keeps running and
re-ingests whenever a seed file changes.`,
	Example: `  wayfarer ingest --data data/seed
  wayfarer ingest --data data/seed --category food
  wayfarer ingest --data data/seed --watch`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestDataDir, "data", "data/seed", "seed directory")
	ingestCmd.Flags().StringSliceVar(&ingestCategories, "category", nil,
		"restrict to the given categories (attraction, food, tip, prior-itinerary)")
	ingestCmd.Flags().BoolVar(&ingestWatch, "watch", false, "re-ingest when seed files change")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured: run 'wayfarer settings wizard' to set up an embedding provider")
	}

	opts := driving.IngestOptions{Dir: ingestDataDir}
	for _, raw := range ingestCategories {
		cat, ok := domain.ParseCategory(raw)
		if !ok {
			return fmt.Errorf("unknown category %q", raw)
		}
		opts.Categories = append(opts.Categories, cat)
	}

	report, err := ingestService.Ingest(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	outputIngestReport(cmd, report)

	if !ingestWatch {
		return nil
	}
	return watchSeedDir(cmd, opts)
}

// watchSeedDir re-ingests the seed directory whenever a JSON file in it
// changes, until the command is interrupted.
func watchSeedDir(cmd *cobra.Command, opts driving.IngestOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck // Shutdown path.

	if err := watcher.Add(opts.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", opts.Dir, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s for changes (ctrl+c to stop)...\n", opts.Dir)

	// The timer is created stopped and armed by the first relevant
	// event; each further event within the window re-arms it.
	debounce := time.NewTimer(watchDebounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			cmd.Println("Watch stopped.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".json") {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			debounce.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmd.PrintErrf("watch error: %v\n", err)

		case <-debounce.C:
			report, err := ingestService.Ingest(ctx, opts)
			switch {
			case errors.Is(err, context.Canceled):
				cmd.Println("Watch stopped.")
				return nil
			case errors.Is(err, domain.ErrIngestInProgress):
				// The previous run is still going; the next event
				// re-arms the timer.
				debounce.Reset(watchDebounce)
			case err != nil:
				cmd.PrintErrf("re-ingest failed: %v\n", err)
			default:
				outputIngestReport(cmd, report)
			}
		}
	}
}

func outputIngestReport(cmd *cobra.Command, report *driving.IngestReport) {
	cmd.Printf("Ingested %d records in %s\n",
		report.TotalRecords(), report.Elapsed.Round(time.Millisecond))
	for _, cat := range domain.AllCategories() {
		if count, ok := report.Counts[cat]; ok {
			cmd.Printf("  %-16s %d\n", cat, count)
		}
	}
	for _, cat := range report.Skipped {
		cmd.Printf("  %-16s skipped (no seed file)\n", cat)
	}
}
