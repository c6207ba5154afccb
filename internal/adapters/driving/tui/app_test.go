package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui/messages"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
)

// newTestApp builds an app on mock services, failing the test if
// construction does.
func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(&Ports{
		Plan:     &MockPlanService{},
		Search:   &MockSearchService{},
		Ingest:   &MockIngestService{},
		Settings: &MockSettingsService{},
	})
	require.NoError(t, err)
	return app
}

// goToSearchView drives the app from the menu into the search screen.
func goToSearchView(app *App) {
	app.SetDimensions(80, 24)
	app.Update(messages.ViewChanged{View: messages.ViewSearch})
}

func lisbonResult() *domain.PlanResult {
	return &domain.PlanResult{
		RequestID:   "req-tui",
		Destination: "Lisbon",
		Itinerary: &domain.Itinerary{
			Destination: "Lisbon",
			Days: []domain.DayPlan{
				{
					Day: 1,
					Items: []domain.ItineraryItem{
						{
							Title:    "Castelo de São Jorge",
							Window:   domain.TimeWindow{Start: 9 * 60, End: 11 * 60},
							CostEUR:  15,
							Category: domain.CategoryAttraction,
							RecordID: "attr-101",
						},
					},
				},
			},
		},
		Feasible: true,
	}
}

func TestNewApp_Success(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, messages.ViewMenu, app.CurrentView()) // Starts at menu
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{
		Plan:   nil,
		Search: &MockSearchService{},
	})

	assert.Error(t, err)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app := newTestApp(t)

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Equal(t, app, app.WithContext(ctx))
}

func TestApp_Init(t *testing.T) {
	app := newTestApp(t)

	// Init batches the alt-screen and window-title commands
	assert.NotNil(t, app.Init())
}

func TestApp_Update_WindowSize(t *testing.T) {
	app := newTestApp(t)

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
}

func TestApp_Update_TypingQuery(t *testing.T) {
	app := newTestApp(t)
	goToSearchView(app)

	// Query is synced from the search view after key input
	for _, r := range "tram" {
		app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	assert.Equal(t, "tram", app.Query())
}

func TestApp_Update_SearchCompleted(t *testing.T) {
	app := newTestApp(t)

	results := []domain.ScoredCandidate{
		{
			Record: domain.KnowledgeRecord{ID: "food-001", Category: domain.CategoryFood},
			Score:  0.9,
		},
	}
	model, cmd := app.Update(messages.SearchCompleted{Results: results, Err: nil})

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.Len(t, app.Results(), 1)
	assert.Equal(t, 0, app.SelectedIndex())
}

func TestApp_Update_SearchCompleted_Error(t *testing.T) {
	app := newTestApp(t)

	app.Update(messages.SearchCompleted{Err: errors.New("index unavailable")})

	assert.Error(t, app.Err())
	assert.Empty(t, app.Results())
}

func TestApp_Update_PlanCompleted(t *testing.T) {
	app := newTestApp(t)
	app.SetDimensions(80, 24)
	app.Update(messages.ViewChanged{View: messages.ViewWizard})

	result := lisbonResult()
	app.Update(messages.PlanCompleted{Result: result})

	assert.Equal(t, messages.ViewItinerary, app.CurrentView())
	assert.Equal(t, result, app.LastResult())
	assert.NoError(t, app.Err())
}

func TestApp_Update_PlanCompleted_Error(t *testing.T) {
	app := newTestApp(t)
	app.SetDimensions(80, 24)
	app.Update(messages.ViewChanged{View: messages.ViewWizard})

	app.Update(messages.PlanCompleted{Err: errors.New("llm unreachable")})

	// The wizard keeps the error and the view does not change
	assert.Equal(t, messages.ViewWizard, app.CurrentView())
	assert.Error(t, app.Err())
	assert.Nil(t, app.LastResult())
}

func TestApp_Update_ViewChanged(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name string
		view messages.ViewType
	}{
		{name: "wizard", view: messages.ViewWizard},
		{name: "search", view: messages.ViewSearch},
		{name: "ingest", view: messages.ViewIngest},
		{name: "settings", view: messages.ViewSettings},
		{name: "help", view: messages.ViewHelp},
		{name: "menu", view: messages.ViewMenu},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app.Update(messages.ViewChanged{View: tt.view})
			assert.Equal(t, tt.view, app.CurrentView())
		})
	}
}

func TestApp_Update_ReplanRequested(t *testing.T) {
	app := newTestApp(t)
	app.SetDimensions(80, 24)

	// Plan once so the wizard has answers to reopen
	app.Update(messages.ViewChanged{View: messages.ViewWizard})
	app.Update(messages.PlanCompleted{Result: lisbonResult()})
	require.Equal(t, messages.ViewItinerary, app.CurrentView())

	_, cmd := app.Update(messages.ReplanRequested{})

	assert.Equal(t, messages.ViewWizard, app.CurrentView())
	assert.NotNil(t, cmd)
}

func TestApp_Update_IngestCompleted(t *testing.T) {
	app := newTestApp(t)

	app.Update(messages.IngestCompleted{Err: errors.New("seed dir missing")})

	assert.Error(t, app.Err())
}

func TestApp_Update_QuitMessage(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_Update_CtrlC(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_Update_ErrorOccurred(t *testing.T) {
	app := newTestApp(t)

	testErr := errors.New("something broke")
	app.Update(messages.ErrorOccurred{Err: testErr})

	assert.Equal(t, testErr, app.Err())
}

func TestApp_View_NotReady(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_View_Menu(t *testing.T) {
	app := newTestApp(t)
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	view := app.View()

	assert.Contains(t, view, "Wayfarer")
	assert.Contains(t, view, "Plan a Trip")
}

func TestApp_View_Help(t *testing.T) {
	app := newTestApp(t)
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	app.Update(messages.ViewChanged{View: messages.ViewHelp})

	view := app.View()

	assert.Contains(t, view, "Help")
	assert.Contains(t, view, "Wizard:")

	// Esc returns to the menu
	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_View_Itinerary(t *testing.T) {
	app := newTestApp(t)
	app.SetDimensions(80, 24)
	app.Update(messages.PlanCompleted{Result: lisbonResult()})

	view := app.View()

	assert.Contains(t, view, "Itinerary for Lisbon")
	assert.Contains(t, view, "Castelo de São Jorge")
}
