// Package menu implements the wizard's landing screen.
package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui/messages"
	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui/styles"
)

// Item is one menu row.
type Item struct {
	Label string
	View  messages.ViewType
	Quit  bool // selecting this row quits instead of switching views
}

// View is the main navigation menu.
type View struct {
	styles   *styles.Styles
	items    []Item
	selected int

	dimStyle    lipgloss.Style
	rowStyle    lipgloss.Style
	activeStyle lipgloss.Style

	width  int
	height int
	ready  bool
}

// NewView creates the menu with its fixed set of entries.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles: s,
		items: []Item{
			{Label: "Plan a Trip", View: messages.ViewWizard},
			{Label: "Search Knowledge", View: messages.ViewSearch},
			{Label: "Rebuild Indices", View: messages.ViewIngest},
			{Label: "Settings", View: messages.ViewSettings},
			{Label: "Help", View: messages.ViewHelp},
			{Label: "Quit", Quit: true},
		},
		dimStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		rowStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		activeStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
		width:       80,
		height:      24,
	}
}

// Init has nothing to start; the menu is static.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles menu input.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		return v, v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.items)-1 {
			v.selected++
		}
	case "q":
		return tea.Quit
	case "enter":
		return v.open(v.items[v.selected])
	}
	return nil
}

// open switches to the chosen view, or quits for the quit row.
func (v *View) open(item Item) tea.Cmd {
	if item.Quit {
		return tea.Quit
	}
	return func() tea.Msg {
		return messages.ViewChanged{View: item.View}
	}
}

// View paints the title, the rows and the key hints.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Wayfarer"))
	b.WriteString("\n\n")
	b.WriteString(v.dimStyle.Render("Constraint-aware Trip Planning"))
	b.WriteString("\n\n")

	for i, item := range v.items {
		if i == v.selected {
			b.WriteString("> " + v.activeStyle.Render(item.Label))
		} else {
			b.WriteString("  " + v.rowStyle.Render(item.Label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.dimStyle.Render("[j/k] Navigate  [Enter] Select  [q] Quit"))

	return b.String()
}

// SetDimensions records the terminal size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected reports which row the cursor is on.
func (v *View) Selected() int {
	return v.selected
}
