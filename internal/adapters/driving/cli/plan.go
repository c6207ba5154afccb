package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
)

var (
	planDestination string
	planDays        int
	planBudget      string
	planDietary     []string
	planInterests   []string
	planAvoid       []string
	planStartDate   string
	planDailyBudget float64
	planMaxWalking  float64
	planOutput      string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan a trip itinerary",
	Long: `Plans a multi-day itinerary for a destination.

The planner retrieves matching attractions, food, tips and prior
itineraries from the local knowledge base, drafts day plans with the
configured LLM and validates every draft against budget, walking,
opening-hours and season constraints. When no feasible plan is found
within the iteration budget, the best draft is returned together with
its remaining violations as warnings.`,
	Example: `  wayfarer plan --destination Paris --days 3 --budget budget
  wayfarer plan --destination Kyoto --days 2 --dietary vegan --interests food,temples
  wayfarer plan --destination Lisbon --days 4 --start 2026-09-12 --output json`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planDestination, "destination", "", "city to plan for (required)")
	planCmd.Flags().IntVar(&planDays, "days", 3, "trip length in days")
	planCmd.Flags().StringVar(&planBudget, "budget", "", "budget tier: budget, moderate or luxury")
	planCmd.Flags().StringSliceVar(&planDietary, "dietary", nil, "dietary restrictions (e.g. vegetarian,vegan)")
	planCmd.Flags().StringSliceVar(&planInterests, "interests", nil, "interest tags (e.g. museums,food)")
	planCmd.Flags().StringSliceVar(&planAvoid, "avoid", nil, "tags to exclude")
	planCmd.Flags().StringVar(&planStartDate, "start", "", "first trip day as YYYY-MM-DD (enables season checks)")
	planCmd.Flags().Float64Var(&planDailyBudget, "daily-budget", 0, "spending ceiling per day in EUR (0 = configured default)")
	planCmd.Flags().Float64Var(&planMaxWalking, "max-walking", 0, "walking ceiling per day in km (0 = configured default)")
	planCmd.Flags().StringVar(&planOutput, "output", "text", "output format: text or json")
	_ = planCmd.MarkFlagRequired("destination") //nolint:errcheck // Flag name is a constant.
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	if planService == nil {
		return errors.New("plan service not configured: run 'wayfarer settings wizard' to set up providers")
	}
	if planOutput != "text" && planOutput != "json" {
		return fmt.Errorf("unknown output format %q, want text or json", planOutput)
	}

	req := domain.PlanRequest{
		Destination:    planDestination,
		DurationDays:   planDays,
		Budget:         domain.BudgetTier(planBudget),
		Dietary:        planDietary,
		Interests:      planInterests,
		Avoid:          planAvoid,
		DailyBudgetEUR: planDailyBudget,
		MaxWalkingKm:   planMaxWalking,
	}
	if planStartDate != "" {
		start, err := time.Parse("2006-01-02", planStartDate)
		if err != nil {
			return fmt.Errorf("invalid start date %q, want YYYY-MM-DD", planStartDate)
		}
		req.StartDate = &start
	}

	result, err := planService.Plan(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("planning failed: %w", err)
	}

	if planOutput == "json" {
		return outputPlanJSON(cmd, result)
	}
	return outputPlanText(cmd, result)
}

func outputPlanJSON(cmd *cobra.Command, result *domain.PlanResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

//nolint:gocognit // Rendering walks every day, item and warning once.
func outputPlanText(cmd *cobra.Command, result *domain.PlanResult) error {
	if result.Itinerary == nil {
		cmd.Printf("No itinerary could be drafted for %s after %d round(s).\n",
			result.Destination, result.Iterations+1)
		outputPlanWarnings(cmd, result.Warnings)
		return nil
	}

	it := result.Itinerary
	cmd.Printf("Itinerary for %s (%d days)\n", it.Destination, len(it.Days))
	if it.Summary != "" {
		cmd.Println(it.Summary)
	}
	cmd.Println()

	for i := range it.Days {
		day := &it.Days[i]
		cmd.Printf("Day %d  (%.2f EUR, %.1f km on foot)\n", day.Day, day.TotalCost(), day.WalkingKm())
		for j := range day.Items {
			item := &day.Items[j]
			cmd.Printf("  %s  %s", item.Window, item.Title)
			if item.CostEUR > 0 {
				cmd.Printf("  (%.2f EUR)", item.CostEUR)
			}
			cmd.Println()
			if item.Notes != "" {
				cmd.Printf("               %s\n", item.Notes)
			}
			for _, ev := range item.Evidence {
				cmd.Printf("               source: %s %s (%.2f)\n", ev.Source, ev.RecordID, ev.Relevance)
			}
		}
		cmd.Println()
	}

	cmd.Printf("Total cost: %.2f EUR over %d stops\n", it.TotalCost(), it.ItemCount())

	if result.Feasible {
		cmd.Printf("Plan is feasible (%d round(s), %s)\n",
			result.Iterations+1, result.Elapsed.Round(time.Millisecond))
	} else {
		cmd.Printf("Iteration budget exhausted after %d round(s); best draft shown.\n",
			result.Iterations+1)
		outputPlanWarnings(cmd, result.Warnings)
	}
	if len(result.ExhaustedCategories) > 0 {
		cmd.Printf("No knowledge found for: %s\n", joinCategories(result.ExhaustedCategories))
	}
	return nil
}

func outputPlanWarnings(cmd *cobra.Command, warnings []domain.Violation) {
	if len(warnings) == 0 {
		return
	}
	cmd.Println("Warnings:")
	for _, w := range warnings {
		cmd.Printf("  - %s\n", w.String())
	}
}

func joinCategories(cats []domain.Category) string {
	out := ""
	for i, c := range cats {
		if i > 0 {
			out += ", "
		}
		out += c.String()
	}
	return out
}
