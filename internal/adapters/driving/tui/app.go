// Package tui provides the interactive terminal wizard for trip planning.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui/messages"
	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui/styles"
	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui/views/ingest"
	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui/views/itinerary"
	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui/views/menu"
	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui/views/search"
	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui/views/settings"
	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui/views/wizard"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
)

// App is the bubbletea root model. It owns one sub-view per screen
// and routes every message to whichever view has focus.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles

	menuView      *menu.View
	wizardView    *wizard.View
	itineraryView *itinerary.View
	searchView    *search.View
	ingestView    *ingest.View
	settingsView  *settings.View

	// currentView tracks which view has focus.
	currentView messages.ViewType

	// lastResult is the most recent plan result.
	lastResult *domain.PlanResult

	// Search state mirrored from the search view for the accessors.
	query         string
	results       []domain.ScoredCandidate
	selectedIndex int

	err    error
	width  int
	height int
	ready  bool
}

var _ tea.Model = (*App)(nil)

// NewApp builds every view up front from the injected services.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		menuView:      menu.NewView(s),
		wizardView:    wizard.NewView(s, ports.Plan),
		itineraryView: itinerary.NewView(s),
		searchView:    search.NewView(s, nil, ports.Search),
		ingestView:    ingest.NewView(s, ports.Ingest),
		settingsView:  settings.NewView(s, ports.Settings),
		currentView:   messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app and its service-calling views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.wizardView.WithContext(ctx)
	a.searchView.WithContext(ctx)
	a.ingestView.WithContext(ctx)
	return a
}

// Init enters the alt screen and titles the terminal window.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("wayfarer - Trip Planning"),
	)
}

// Update implements tea.Model. App-level messages are handled here,
// everything else goes to the focused view.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case messages.PlanCompleted:
		return a, a.finishPlan(msg)

	case messages.SearchCompleted:
		var cmd tea.Cmd
		a.searchView, cmd = a.searchView.Update(msg)
		a.results = a.searchView.Results()
		a.err = a.searchView.Err()
		a.selectedIndex = 0
		return a, cmd

	case messages.IngestCompleted:
		var cmd tea.Cmd
		a.ingestView, cmd = a.ingestView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
		}
		return a, cmd

	case messages.ViewChanged:
		return a, a.switchView(msg.View)

	case messages.ReplanRequested:
		// Back into the wizard with the previous answers intact.
		a.currentView = messages.ViewWizard
		return a, a.wizardView.EditRequest()

	case messages.ErrorOccurred:
		a.err = msg.Err

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.updateActive(msg)
}

// resize records the terminal size and passes it to every view.
func (a *App) resize(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	a.menuView.SetDimensions(width, height)
	a.wizardView.SetDimensions(width, height)
	a.itineraryView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
	a.ingestView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}

// handleKey routes keys to the focused view. Ctrl+c always quits, esc
// leaves the help screen.
func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}
	if a.currentView == messages.ViewHelp {
		if msg.Type == tea.KeyEsc {
			a.currentView = messages.ViewMenu
		}
		return nil
	}
	return a.updateActive(msg)
}

// finishPlan stops the wizard spinner and, on success, shows the new
// itinerary. On failure the wizard stays up with the error.
func (a *App) finishPlan(msg messages.PlanCompleted) tea.Cmd {
	var cmd tea.Cmd
	a.wizardView, cmd = a.wizardView.Update(msg)
	if msg.Err != nil {
		a.err = msg.Err
		return cmd
	}

	a.err = nil
	a.lastResult = msg.Result
	a.itineraryView.SetResult(msg.Result)
	a.currentView = messages.ViewItinerary
	return cmd
}

// switchView activates a view, resetting the ones that carry state
// between visits.
func (a *App) switchView(view messages.ViewType) tea.Cmd {
	a.currentView = view

	switch view {
	case messages.ViewWizard:
		a.wizardView.Reset()
		return a.wizardView.Init()
	case messages.ViewSearch:
		a.searchView.Reset()
		return a.searchView.Init()
	case messages.ViewIngest:
		return a.ingestView.Init()
	case messages.ViewSettings:
		a.settingsView.Reset()
		return a.settingsView.Init()
	case messages.ViewMenu, messages.ViewHelp, messages.ViewItinerary:
	}
	return nil
}

// updateActive forwards a message to the view that has focus and syncs
// the state the accessors expose.
func (a *App) updateActive(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewWizard:
		a.wizardView, cmd = a.wizardView.Update(msg)
		a.err = a.wizardView.Err()
	case messages.ViewItinerary:
		a.itineraryView, cmd = a.itineraryView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
		a.query = a.searchView.Query()
		a.results = a.searchView.Results()
		a.selectedIndex = a.searchView.SelectedIndex()
		a.err = a.searchView.Err()
	case messages.ViewIngest:
		a.ingestView, cmd = a.ingestView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		// The help screen is static.
	}
	return cmd
}

// View hands rendering to the focused view.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewWizard:
		return a.wizardView.View()
	case messages.ViewItinerary:
		return a.itineraryView.View()
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewIngest:
		return a.ingestView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp paints the static key reference.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Return to menu
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Wizard:
  (type)      Answer the question
  enter       Next step / Plan
  esc         Previous step

Itinerary:
  j/k, ↑/↓    Scroll
  e           Edit answers and replan
  n           Start a new trip

Search:
  tab         Cycle category
  (type)      Enter search query
  enter       Submit search
  esc         Return to menu

Results:
  j/k, ↑/↓    Navigate results
  n           New search
  esc         Return to menu

[esc] return to menu`
}

// Run blocks inside the bubbletea event loop until the user quits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Query reports the query typed into the search view.
func (a *App) Query() string {
	return a.query
}

// Results returns the current search candidates.
func (a *App) Results() []domain.ScoredCandidate {
	return a.results
}

// SelectedIndex reports which result row is highlighted.
func (a *App) SelectedIndex() int {
	return a.selectedIndex
}

// LastResult returns the most recent plan result.
func (a *App) LastResult() *domain.PlanResult {
	return a.lastResult
}

// CurrentView reports which screen has focus.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err reports the most recent failure surfaced to the user.
func (a *App) Err() error {
	return a.err
}

// Ready reports whether the first window size arrived.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions without a WindowSizeMsg.
func (a *App) SetDimensions(width, height int) {
	a.resize(width, height)
}
