package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
)

var (
	searchCategory string
	searchQuery    string
	searchLimit    int
	searchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search one knowledge category",
	Long: `Runs a semantic search against a single knowledge category,
outside the planning loop. Useful for checking what the indices hold
and how a query scores.`,
	Example: `  wayfarer search --category food --query "vegan ramen" -k 5
  wayfarer search --category attraction --query "impressionist museums" --json`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchCategory, "category", "",
		"knowledge category: attraction, food, tip or prior-itinerary (required)")
	searchCmd.Flags().StringVar(&searchQuery, "query", "", "semantic query (required)")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "k", 5, "maximum number of candidates")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	_ = searchCmd.MarkFlagRequired("category") //nolint:errcheck // Flag name is a constant.
	_ = searchCmd.MarkFlagRequired("query")    //nolint:errcheck // Flag name is a constant.
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return errors.New("search service not configured: run 'wayfarer settings wizard' to set up an embedding provider")
	}

	category, ok := domain.ParseCategory(searchCategory)
	if !ok {
		return fmt.Errorf("unknown category %q", searchCategory)
	}

	candidates, err := searchService.Search(cmd.Context(), category, searchQuery, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, candidates)
	}
	return outputSearchTable(cmd, candidates)
}

func outputSearchJSON(cmd *cobra.Command, candidates []domain.ScoredCandidate) error {
	data, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, candidates []domain.ScoredCandidate) error {
	if len(candidates) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range candidates {
		rec := &candidates[i].Record
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, rec.ID, candidates[i].Score)
		if rec.SourceLabel != "" {
			cmd.Printf("      Source: %s\n", rec.SourceLabel)
		}
		if candidates[i].Evidence.Snippet != "" {
			cmd.Printf("      %s\n", candidates[i].Evidence.Snippet)
		}
		cmd.Println()
	}

	return nil
}
