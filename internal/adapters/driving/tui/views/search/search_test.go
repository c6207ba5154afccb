package search

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui/messages"
	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui/styles"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
)

// MockSearchService is a mock implementation of driving.SearchService.
type MockSearchService struct {
	SearchFunc func(ctx context.Context, category domain.Category, query string, k int) ([]domain.ScoredCandidate, error)
}

func (m *MockSearchService) Search(
	ctx context.Context,
	category domain.Category,
	query string,
	k int,
) ([]domain.ScoredCandidate, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, category, query, k)
	}
	return nil, nil
}

func sampleCandidates() []domain.ScoredCandidate {
	return []domain.ScoredCandidate{
		{
			Record: domain.KnowledgeRecord{
				ID:          "food-001",
				Category:    domain.CategoryFood,
				Description: "Noodle stall near the station",
				SourceLabel: "city-guide",
			},
			Score: 0.91,
			Evidence: domain.Evidence{
				Source:   "city-guide",
				Snippet:  "Noodle stall near the station",
				RecordID: "food-001",
			},
		},
		{
			Record: domain.KnowledgeRecord{
				ID:          "food-002",
				Category:    domain.CategoryFood,
				Description: "Market hall with vegetarian options",
				SourceLabel: "blog",
			},
			Score: 0.74,
		},
	}
}

func typeString(view *View, s string) {
	for _, r := range s {
		view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestNewView(t *testing.T) {
	s := styles.DefaultStyles()

	view := NewView(s, nil, &MockSearchService{})

	require.NotNil(t, view)
	assert.True(t, view.InputFocused())
	assert.Equal(t, domain.CategoryAttraction, view.Category())
	assert.False(t, view.Ready())
}

func TestNewView_NilStyles(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{})

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
	assert.NotNil(t, view.keymap)
}

func TestView_Init(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{})

	assert.NotNil(t, view.Init())
}

func TestView_Update_WindowSize(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{})

	view.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	assert.True(t, view.Ready())
	assert.Equal(t, 100, view.width)
}

func TestView_TypingQuery(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{})
	view.SetDimensions(80, 24)

	typeString(view, "ramen")

	assert.Equal(t, "ramen", view.Query())
}

func TestView_TabCyclesCategory(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{})

	require.Equal(t, domain.CategoryAttraction, view.Category())

	view.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, domain.CategoryFood, view.Category())

	view.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, domain.CategoryTip, view.Category())

	view.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, domain.CategoryItinerary, view.Category())

	// Wraps back around
	view.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, domain.CategoryAttraction, view.Category())
}

func TestView_SetCategory(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{})

	view.SetCategory(domain.CategoryTip)
	assert.Equal(t, domain.CategoryTip, view.Category())

	// Unknown values are ignored
	view.SetCategory(domain.Category("bogus"))
	assert.Equal(t, domain.CategoryTip, view.Category())
}

func TestView_EnterSubmitsSearch(t *testing.T) {
	var captured struct {
		category domain.Category
		query    string
		k        int
	}
	mockSearch := &MockSearchService{
		SearchFunc: func(_ context.Context, category domain.Category, query string, k int) ([]domain.ScoredCandidate, error) {
			captured.category = category
			captured.query = query
			captured.k = k
			return sampleCandidates(), nil
		},
	}
	view := NewView(nil, nil, mockSearch)
	view.SetDimensions(80, 24)
	view.Update(tea.KeyMsg{Type: tea.KeyTab}) // food
	typeString(view, "ramen")

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.False(t, view.InputFocused())

	msg := cmd()
	completed, ok := msg.(messages.SearchCompleted)
	require.True(t, ok)
	require.NoError(t, completed.Err)
	assert.Len(t, completed.Results, 2)
	assert.Equal(t, domain.CategoryFood, captured.category)
	assert.Equal(t, "ramen", captured.query)
	assert.Equal(t, searchLimit, captured.k)
}

func TestView_EnterWithEmptyQuery(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{})
	view.SetDimensions(80, 24)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.True(t, view.InputFocused())
}

func TestView_SearchCompleted(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{})
	view.SetDimensions(80, 24)

	view.Update(messages.SearchCompleted{Results: sampleCandidates()})

	assert.Len(t, view.Results(), 2)
	assert.Equal(t, 0, view.SelectedIndex())
	assert.False(t, view.InputFocused())
	assert.NoError(t, view.Err())
}

func TestView_SearchCompleted_Error(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{})
	view.SetDimensions(80, 24)

	view.Update(messages.SearchCompleted{Err: errors.New("index unavailable")})

	assert.Error(t, view.Err())
	assert.Empty(t, view.Results())
}

func TestView_PerformSearch_NoService(t *testing.T) {
	view := NewView(nil, nil, nil)

	cmd := view.performSearch(domain.CategoryFood, "ramen")
	msg := cmd()

	occurred, ok := msg.(messages.ErrorOccurred)
	require.True(t, ok)
	assert.ErrorIs(t, occurred.Err, ErrNoSearchService)
}

func TestView_PerformSearch_ServiceError(t *testing.T) {
	mockSearch := &MockSearchService{
		SearchFunc: func(_ context.Context, _ domain.Category, _ string, _ int) ([]domain.ScoredCandidate, error) {
			return nil, errors.New("embedding failed")
		},
	}
	view := NewView(nil, nil, mockSearch)

	cmd := view.performSearch(domain.CategoryFood, "ramen")
	msg := cmd()

	completed, ok := msg.(messages.SearchCompleted)
	require.True(t, ok)
	assert.Error(t, completed.Err)
	assert.Nil(t, completed.Results)
}

func TestView_ResultsNavigation(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{})
	view.SetDimensions(80, 24)
	view.Update(messages.SearchCompleted{Results: sampleCandidates()})
	require.False(t, view.InputFocused())

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 1, view.SelectedIndex())

	// Does not move past the last result
	view.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, view.SelectedIndex())

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 0, view.SelectedIndex())

	view.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, view.SelectedIndex())
}

func TestView_NewSearchKey(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{})
	view.SetDimensions(80, 24)
	typeString(view, "ramen")
	view.Update(messages.SearchCompleted{Results: sampleCandidates()})
	require.False(t, view.InputFocused())

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})

	assert.True(t, view.InputFocused())
	assert.Empty(t, view.Query())
}

func TestView_EscReturnsToMenu(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{})

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	msg := cmd()
	changed, ok := msg.(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewMenu, changed.View)
}

func TestView_View(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{})

	assert.Equal(t, "Initialising...", view.View())

	view.SetDimensions(80, 24)
	output := view.View()
	assert.Contains(t, output, "Search Knowledge")
	assert.Contains(t, output, "[attraction]")
	assert.Contains(t, output, "Tab cycles the category.")

	view.Update(messages.SearchCompleted{Results: sampleCandidates()})
	output = view.View()
	assert.Contains(t, output, "food-001")
	assert.Contains(t, output, "0.91")
}

func TestView_View_Error(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{})
	view.SetDimensions(80, 24)

	view.Update(messages.SearchCompleted{Err: errors.New("index unavailable")})

	output := view.View()
	assert.Contains(t, output, "Error: index unavailable")
}

func TestView_Reset(t *testing.T) {
	view := NewView(nil, nil, &MockSearchService{})
	view.SetDimensions(80, 24)
	view.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeString(view, "ramen")
	view.Update(messages.SearchCompleted{Results: sampleCandidates()})

	view.Reset()

	assert.Empty(t, view.Query())
	assert.Empty(t, view.Results())
	assert.Equal(t, domain.CategoryAttraction, view.Category())
	assert.True(t, view.InputFocused())
	assert.NoError(t, view.Err())
}
