// Package styles defines the colour palette and lipgloss styles shared
// by every TUI view.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme is the colour palette the styles are built from.
type Theme struct {
	Primary    lipgloss.Color // main accent
	Secondary  lipgloss.Color // secondary accent
	Background lipgloss.Color
	Foreground lipgloss.Color // default text
	Muted      lipgloss.Color // de-emphasised text
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Border     lipgloss.Color
}

// DefaultTheme returns the built-in palette.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#0EA5E9"), // sky blue
		Secondary:  lipgloss.Color("#F59E0B"), // amber
		Background: lipgloss.Color("#1E1E2E"),
		Foreground: lipgloss.Color("#CDD6F4"),
		Muted:      lipgloss.Color("#6C7086"),
		Success:    lipgloss.Color("#A6E3A1"),
		Warning:    lipgloss.Color("#F9E2AF"),
		Error:      lipgloss.Color("#F38BA8"),
		Border:     lipgloss.Color("#45475A"),
	}
}

// Styles holds the lipgloss styles views render with.
type Styles struct {
	theme *Theme

	// Headings.
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	DayHeader lipgloss.Style

	// Body text.
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Help     lipgloss.Style

	// Outcome messages.
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	// Chrome.
	InputField lipgloss.Style
	StatusBar  lipgloss.Style
}

// NewStyles builds the style set for a theme. A nil theme gets the
// default palette.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	text := lipgloss.NewStyle().Foreground(theme.Foreground)
	muted := lipgloss.NewStyle().Foreground(theme.Muted)

	return &Styles{
		theme: theme,

		Title:     lipgloss.NewStyle().Foreground(theme.Primary).Bold(true),
		Subtitle:  lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true),
		DayHeader: lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Underline(true),

		Normal:   text,
		Muted:    muted,
		Selected: text.Background(theme.Primary).Bold(true),
		Help:     muted,

		Success: lipgloss.NewStyle().Foreground(theme.Success),
		Warning: lipgloss.NewStyle().Foreground(theme.Warning),
		Error:   lipgloss.NewStyle().Foreground(theme.Error),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
		StatusBar: muted.
			Background(lipgloss.Color("#181825")).
			Padding(0, 1),
	}
}

// DefaultStyles builds the style set from the built-in palette.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme exposes the palette behind these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
