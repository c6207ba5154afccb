// Package status provides the status bar shown along the bottom of
// TUI views: current activity on the left, keybinding hints on the
// right.
package status

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui/keymap"
	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui/styles"
)

// State names what the application is doing right now.
type State string

const (
	StateReady     State = "ready"
	StateSearching State = "searching"
	StatePlanning  State = "planning"
	StateError     State = "error"
	StateHelp      State = "help"
	StateResults   State = "results"
)

// busyLabels are the left-hand texts for states that carry no
// message or count of their own.
var busyLabels = map[State]string{
	StateSearching: "Searching...",
	StatePlanning:  "Planning itinerary...",
	StateHelp:      "Help",
}

// hintSeparator joins the keybinding hints on the right.
const hintSeparator = " · "

// Bar is the passive status component. Views drive it through the
// Set methods; it never reacts to messages itself.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	note    string
	results int
	width   int
}

// NewBar creates a status bar. Nil styles or keymap fall back to the
// package defaults.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init implements tea.Model. The bar has no startup work.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. The bar is updated via Set methods,
// so every message passes through unchanged.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	return s, nil
}

// View renders one line: status text left, hints right, padded apart
// to the configured width.
func (s *Bar) View() string {
	left := s.statusText()
	right := s.hintText()

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", gap) + right)
}

// statusText picks the left-hand text for the current state.
func (s *Bar) statusText() string {
	if label, ok := busyLabels[s.state]; ok {
		style := s.styles.Muted
		if s.state == StateHelp {
			style = s.styles.Normal
		}
		return style.Render(label)
	}

	switch {
	case s.state == StateError && s.note != "":
		return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.note))
	case s.state == StateError:
		return s.styles.Error.Render("Error")
	case s.results > 0:
		return s.styles.Normal.Render(fmt.Sprintf("%d results", s.results))
	default:
		return s.styles.Muted.Render("Ready")
	}
}

// hintText renders the keybinding hints for the current state.
// Result navigation gets its richer hint set.
func (s *Bar) hintText() string {
	bindings := s.keymap.ShortHelp()
	if s.state == StateResults && s.results > 0 {
		bindings = s.keymap.ResultsHelp()
	}

	var b strings.Builder
	for i, binding := range bindings {
		if i > 0 {
			b.WriteString(hintSeparator)
		}
		help := binding.Help()
		b.WriteString(help.Key)
		b.WriteString(": ")
		b.WriteString(help.Desc)
	}
	return s.styles.Muted.Render(b.String())
}

// SetState switches what the bar reflects.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State reports what the bar currently reflects.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets the text shown alongside an error state.
func (s *Bar) SetMessage(message string) {
	s.note = message
}

// Message reports the note set for the error state.
func (s *Bar) Message() string {
	return s.note
}

// SetResultCount sets how many results the active view is showing.
func (s *Bar) SetResultCount(count int) {
	s.results = count
}

// ResultCount reports the count shown in the results state.
func (s *Bar) ResultCount() int {
	return s.results
}

// SetWidth sets the render width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width reports the render width.
func (s *Bar) Width() int {
	return s.width
}

// Clear returns the bar to the ready state. Width is layout, not
// status, and survives.
func (s *Bar) Clear() {
	s.state = StateReady
	s.note = ""
	s.results = 0
}
