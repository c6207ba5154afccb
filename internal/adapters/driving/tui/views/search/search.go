// Package search provides the knowledge search view for the TUI.
package search

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui/components/input"
	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui/components/list"
	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui/components/status"
	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui/keymap"
	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui/messages"
	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui/styles"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driving"
)

// searchLimit is how many candidates a TUI search requests.
const searchLimit = 10

// View represents the search view with category selector, query input,
// results list, and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	list      *list.CandidateList
	statusbar *status.Bar

	searchService driving.SearchService
	ctx           context.Context

	categories    []domain.Category
	categoryIndex int

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // typing when true, navigating results when false
}

// NewView builds the search screen with the input focused.
func NewView(s *styles.Styles, km *keymap.KeyMap, searchService driving.SearchService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewQueryInput(s),
		list:          list.NewCandidateList(s),
		statusbar:     status.NewBar(s, km),
		searchService: searchService,
		ctx:           context.Background(),
		categories:    domain.AllCategories(),
		width:         80,
		height:        24,
		focusInput:    true,
	}
}

// WithContext threads the context search commands run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the cursor blink.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update reacts to results, category switches and keys.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.applyResults(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.showError(msg.Err)
		return v, nil
	}

	return v, v.forward(msg)
}

// forward hands a non-key message to the input and list components.
func (v *View) forward(msg tea.Msg) tea.Cmd {
	var inputCmd, listCmd tea.Cmd
	v.input, inputCmd = v.input.Update(msg)
	v.list, listCmd = v.list.Update(msg)
	return tea.Batch(inputCmd, listCmd)
}

// handleKeyMsg processes keyboard input. Esc and tab work in both
// modes, everything else depends on where the focus is.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case tea.KeyTab:
		v.categoryIndex = (v.categoryIndex + 1) % len(v.categories)
		return v, nil
	}

	if v.focusInput {
		return v, v.handleTypingKeys(msg)
	}
	v.handleResultKeys(msg)
	return v, nil
}

// handleTypingKeys runs while the query input has focus. Enter submits
// a non-empty query and moves focus to the results.
func (v *View) handleTypingKeys(msg tea.KeyMsg) tea.Cmd {
	if msg.Type != tea.KeyEnter {
		v.input, _ = v.input.Update(msg)
		return nil
	}

	query := v.input.Value()
	if query == "" {
		return nil
	}
	v.statusbar.SetState(status.StateSearching)
	v.focusInput = false
	v.input.Blur()
	return v.performSearch(v.Category(), query)
}

// handleResultKeys runs while the result list has focus.
func (v *View) handleResultKeys(msg tea.KeyMsg) {
	switch {
	case msg.Type == tea.KeyUp || msg.String() == "k":
		v.list.MoveUp()
	case msg.Type == tea.KeyDown || msg.String() == "j":
		v.list.MoveDown()
	case msg.String() == "n":
		v.focusInput = true
		v.input.Focus()
		v.input.SetValue("")
	}
}

// performSearch runs a single-category search off the UI goroutine.
func (v *View) performSearch(category domain.Category, query string) tea.Cmd {
	return func() tea.Msg {
		if v.searchService == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}
		results, err := v.searchService.Search(v.ctx, category, query, searchLimit)
		return messages.SearchCompleted{Results: results, Err: err}
	}
}

// applyResults shows a finished search. On success the focus moves to
// the result list.
func (v *View) applyResults(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.showError(msg.Err)
		return
	}

	v.err = nil
	v.list.SetCandidates(msg.Results)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetResultCount(len(msg.Results))
	v.focusInput = false
	v.input.Blur()
}

// showError surfaces err in the view and the status bar.
func (v *View) showError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View paints input, category tabs and whichever state the search
// is in.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	header := v.styles.Title.Render("Search Knowledge") + "  " +
		v.styles.Subtitle.Render("["+v.Category().String()+"]")

	sections := []string{
		header,
		v.styles.Muted.Render("Tab cycles the category."),
		"",
		v.input.View(),
		"",
	}
	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}
	sections = append(sections, v.list.View(), "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions records the terminal size and resizes the parts.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)

	// The header, input and status bar take roughly ten rows.
	rows := height - 10
	if rows < 5 {
		rows = 5
	}
	v.list.SetDimensions(width, rows)
}

// Category returns the currently selected category.
func (v *View) Category() domain.Category {
	if v.categoryIndex < 0 || v.categoryIndex >= len(v.categories) {
		return domain.CategoryAttraction
	}
	return v.categories[v.categoryIndex]
}

// SetCategory selects a category, ignoring unknown values.
func (v *View) SetCategory(category domain.Category) {
	for i, c := range v.categories {
		if c == category {
			v.categoryIndex = i
			return
		}
	}
}

// Query returns the current query text.
func (v *View) Query() string {
	return v.input.Value()
}

// Results returns the current candidates.
func (v *View) Results() []domain.ScoredCandidate {
	return v.list.Candidates()
}

// SelectedIndex returns the selected result index.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Ready returns whether the view has been sized.
func (v *View) Ready() bool {
	return v.ready
}

// InputFocused reports whether the query input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Reset clears the view state for a fresh search.
func (v *View) Reset() {
	v.input.Reset()
	v.input.Focus()
	v.list.SetCandidates(nil)
	v.statusbar.Clear()
	v.categoryIndex = 0
	v.focusInput = true
	v.err = nil
}
