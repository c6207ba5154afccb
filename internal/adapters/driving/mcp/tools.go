package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
)

// PlanTripInput is the input schema for the plan_trip tool.
type PlanTripInput struct {
	Destination    string   `json:"destination" jsonschema:"the city to plan a trip for"`
	Days           int      `json:"days,omitempty" jsonschema:"trip length in days (default 3)"`
	Budget         string   `json:"budget,omitempty" jsonschema:"budget tier: budget, moderate or luxury"`
	Dietary        []string `json:"dietary,omitempty" jsonschema:"dietary restrictions such as vegetarian or halal"`
	Interests      []string `json:"interests,omitempty" jsonschema:"interest tags such as museums or street-food"`
	Avoid          []string `json:"avoid,omitempty" jsonschema:"tags to exclude from the plan"`
	StartDate      string   `json:"start_date,omitempty" jsonschema:"first trip day as YYYY-MM-DD, enables season checks"`
	DailyBudgetEUR float64  `json:"daily_budget_eur,omitempty" jsonschema:"spending ceiling per day in EUR (0 = configured default)"`
	MaxWalkingKm   float64  `json:"max_walking_km,omitempty" jsonschema:"walking ceiling per day in km (0 = configured default)"`
}

// PlanTripOutput is the output schema for the plan_trip tool.
type PlanTripOutput struct {
	Destination string      `json:"destination"`
	Feasible    bool        `json:"feasible"`
	Summary     string      `json:"summary,omitempty"`
	Days        []DayOutput `json:"days,omitempty"`
	Warnings    []string    `json:"warnings,omitempty"`
	Iterations  int         `json:"iterations"`
}

// DayOutput is one planned day.
type DayOutput struct {
	Day   int          `json:"day"`
	Items []ItemOutput `json:"items"`
}

// ItemOutput is one scheduled stop.
type ItemOutput struct {
	Title    string  `json:"title"`
	Window   string  `json:"window"`
	Category string  `json:"category"`
	CostEUR  float64 `json:"cost_eur,omitempty"`
	RecordID string  `json:"record_id,omitempty"`
	Notes    string  `json:"notes,omitempty"`
}

// SearchInput is the input schema for the search_knowledge tool.
type SearchInput struct {
	Category string `json:"category" jsonschema:"knowledge category: attraction, food, tip or prior-itinerary"`
	Query    string `json:"query" jsonschema:"the semantic query"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of candidates to return (default 5)"`
}

// SearchOutput is the output schema for the search_knowledge tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single retrieved candidate.
type SearchResultOutput struct {
	RecordID    string  `json:"record_id"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Source      string  `json:"source,omitempty"`
	Score       float64 `json:"score"`
	Snippet     string  `json:"snippet,omitempty"`
}

// registerTools wires the tool handlers into the SDK server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "plan_trip",
		Description: "Plan a constraint-checked travel itinerary from the local knowledge base",
	}, s.handlePlanTrip)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_knowledge",
		Description: "Search one travel knowledge category semantically",
	}, s.handleSearchKnowledge)
}

// handlePlanTrip handles the plan_trip tool invocation.
func (s *Server) handlePlanTrip(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PlanTripInput,
) (*mcp.CallToolResult, PlanTripOutput, error) {
	if s.ports.Plan == nil {
		return nil, PlanTripOutput{}, ErrPlanningUnavailable
	}

	req := domain.PlanRequest{
		Destination:    input.Destination,
		DurationDays:   input.Days,
		Budget:         domain.BudgetTier(input.Budget),
		Dietary:        input.Dietary,
		Interests:      input.Interests,
		Avoid:          input.Avoid,
		DailyBudgetEUR: input.DailyBudgetEUR,
		MaxWalkingKm:   input.MaxWalkingKm,
	}
	if req.DurationDays <= 0 {
		req.DurationDays = 3
	}
	if input.StartDate != "" {
		start, err := time.Parse("2006-01-02", input.StartDate)
		if err != nil {
			return nil, PlanTripOutput{}, fmt.Errorf("invalid start_date %q, want YYYY-MM-DD", input.StartDate)
		}
		req.StartDate = &start
	}

	result, err := s.ports.Plan.Plan(ctx, req)
	if err != nil {
		return nil, PlanTripOutput{}, err
	}

	return nil, planTripOutput(result), nil
}

// planTripOutput flattens a plan result into the tool's wire shape.
func planTripOutput(result *domain.PlanResult) PlanTripOutput {
	output := PlanTripOutput{
		Destination: result.Destination,
		Feasible:    result.Feasible,
		Iterations:  result.Iterations,
	}
	for _, warning := range result.Warnings {
		output.Warnings = append(output.Warnings, warning.String())
	}
	if result.Itinerary == nil {
		return output
	}

	output.Summary = result.Itinerary.Summary
	output.Days = make([]DayOutput, len(result.Itinerary.Days))
	for i := range result.Itinerary.Days {
		day := &result.Itinerary.Days[i]
		out := DayOutput{Day: day.Day, Items: make([]ItemOutput, len(day.Items))}
		for j := range day.Items {
			item := &day.Items[j]
			out.Items[j] = ItemOutput{
				Title:    item.Title,
				Window:   item.Window.String(),
				Category: item.Category.String(),
				CostEUR:  item.CostEUR,
				RecordID: item.RecordID,
				Notes:    item.Notes,
			}
		}
		output.Days[i] = out
	}
	return output
}

// handleSearchKnowledge handles the search_knowledge tool invocation.
func (s *Server) handleSearchKnowledge(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	category, ok := domain.ParseCategory(input.Category)
	if !ok {
		return nil, SearchOutput{}, fmt.Errorf("unknown category %q", input.Category)
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 5
	}

	candidates, err := s.ports.Search.Search(ctx, category, input.Query, limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(candidates)),
		Count:   len(candidates),
	}

	for i := range candidates {
		rec := &candidates[i].Record
		output.Results[i] = SearchResultOutput{
			RecordID:    rec.ID,
			Category:    rec.Category.String(),
			Description: rec.Description,
			Source:      rec.SourceLabel,
			Score:       candidates[i].Score,
			Snippet:     candidates[i].Evidence.Snippet,
		}
	}

	return nil, output, nil
}
