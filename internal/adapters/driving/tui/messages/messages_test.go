package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		name     string
		view     ViewType
		expected string
	}{
		{name: "menu", view: ViewMenu, expected: "menu"},
		{name: "wizard", view: ViewWizard, expected: "wizard"},
		{name: "itinerary", view: ViewItinerary, expected: "itinerary"},
		{name: "search", view: ViewSearch, expected: "search"},
		{name: "ingest", view: ViewIngest, expected: "ingest"},
		{name: "settings", view: ViewSettings, expected: "settings"},
		{name: "help", view: ViewHelp, expected: "help"},
		{name: "unknown", view: ViewType(99), expected: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.view.String())
		})
	}
}

func TestViewChanged(t *testing.T) {
	msg := ViewChanged{View: ViewWizard}

	assert.Equal(t, ViewWizard, msg.View)
}

func TestPlanCompleted(t *testing.T) {
	result := &domain.PlanResult{Destination: "Lisbon", Feasible: true}

	msg := PlanCompleted{Result: result}

	assert.Equal(t, result, msg.Result)
	assert.NoError(t, msg.Err)

	failed := PlanCompleted{Err: errors.New("llm unreachable")}
	assert.Error(t, failed.Err)
	assert.Nil(t, failed.Result)
}

func TestSearchCompleted(t *testing.T) {
	results := []domain.ScoredCandidate{
		{Record: domain.KnowledgeRecord{ID: "attr-001"}, Score: 0.8},
	}

	msg := SearchCompleted{Results: results}

	assert.Len(t, msg.Results, 1)
	assert.NoError(t, msg.Err)
}

func TestErrorOccurred(t *testing.T) {
	err := errors.New("boom")

	msg := ErrorOccurred{Err: err}

	assert.Equal(t, err, msg.Err)
}
