// Package input provides the query line for knowledge search.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui/styles"
)

// QueryInput is a bubbles textinput dressed in the app styles with a
// rendered label. The embedded model supplies value and focus handling.
type QueryInput struct {
	textinput.Model
	styles *styles.Styles
}

// NewQueryInput creates a focused query input.
func NewQueryInput(s *styles.Styles) *QueryInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	m := textinput.New()
	m.Placeholder = "e.g. vegetarian ramen near the station"
	m.Focus()
	m.CharLimit = 256
	m.Width = 50

	return &QueryInput{Model: m, styles: s}
}

// Init starts the cursor blink.
func (q *QueryInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update forwards msg to the embedded model.
func (q *QueryInput) Update(msg tea.Msg) (*QueryInput, tea.Cmd) {
	var cmd tea.Cmd
	q.Model, cmd = q.Model.Update(msg)
	return q, cmd
}

// View renders the labelled input line.
func (q *QueryInput) View() string {
	label := q.styles.Title.Render("Query: ")
	field := q.styles.InputField.Render(q.Model.View())
	//nolint:misspell // Center is how lipgloss spells it
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// SetWidth resizes the field, reserving room for the label and keeping
// a usable minimum on narrow terminals.
func (q *QueryInput) SetWidth(width int) {
	inner := width - 10
	if inner < 20 {
		inner = 20
	}
	q.Model.Width = inner
}
