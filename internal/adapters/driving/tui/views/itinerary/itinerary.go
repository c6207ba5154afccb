// Package itinerary provides the plan result view for the TUI.
package itinerary

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui/messages"
	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui/styles"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
)

// timeRounding trims elapsed durations for display.
const timeRounding = 100 * time.Millisecond

// View is the itinerary result view. It renders a completed plan day by
// day and scrolls when the plan is longer than the terminal.
type View struct {
	styles *styles.Styles

	result       *domain.PlanResult
	lines        []string
	scrollOffset int
	width        int
	height       int
	ready        bool
}

// NewView creates a new itinerary view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		width:  80,
		height: 24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetResult stores a plan result and rebuilds the rendered lines.
func (v *View) SetResult(result *domain.PlanResult) {
	v.result = result
	v.scrollOffset = 0
	v.buildLines()
}

// Update handles messages for the itinerary view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		v.buildLines()
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		maxOffset := v.maxScrollOffset()
		if v.scrollOffset < maxOffset {
			v.scrollOffset++
		}
	case "pgup", "ctrl+u":
		v.scrollOffset -= v.visibleLines()
		if v.scrollOffset < 0 {
			v.scrollOffset = 0
		}
	case "pgdown", "ctrl+d":
		maxOffset := v.maxScrollOffset()
		v.scrollOffset += v.visibleLines()
		if v.scrollOffset > maxOffset {
			v.scrollOffset = maxOffset
		}
	case "home", "g":
		v.scrollOffset = 0
	case "end", "G":
		v.scrollOffset = v.maxScrollOffset()
	case "n":
		// Start over with a blank wizard
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewWizard}
		}
	case "e":
		// Reopen the wizard with the previous answers
		return v, func() tea.Msg {
			return messages.ReplanRequested{}
		}
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	return v, nil
}

// buildLines renders the plan into styled lines for scrolling.
func (v *View) buildLines() {
	if v.result == nil {
		v.lines = nil
		return
	}

	res := v.result
	lines := make([]string, 0, 32)

	if res.Itinerary == nil {
		lines = append(lines, v.styles.Warning.Render("No itinerary could be drafted."))
		lines = append(lines, v.wrapLines(v.renderWarnings(res))...)
		v.lines = lines
		return
	}

	it := res.Itinerary
	if it.Summary != "" {
		lines = append(lines, v.wrapLines(it.Summary)...)
		lines = append(lines, "")
	}

	for i := range it.Days {
		day := &it.Days[i]
		lines = append(lines, v.styles.DayHeader.Render(fmt.Sprintf("Day %d", day.Day)))
		for _, item := range day.Items {
			lines = append(lines, fmt.Sprintf("  %s  %s",
				v.styles.Subtitle.Render(item.Window.String()),
				v.styles.Normal.Render(item.Title)))
			detail := fmt.Sprintf("%.2f EUR · %s", item.CostEUR, item.Category.String())
			if item.RecordID != "" {
				detail += " · " + item.RecordID
			}
			lines = append(lines, v.styles.Muted.Render("               "+detail))
			if item.Notes != "" {
				lines = append(lines, v.styles.Muted.Render("               "+item.Notes))
			}
		}
		lines = append(lines, v.styles.Muted.Render(
			fmt.Sprintf("  Day total: %.2f EUR, %.1f km on foot", day.TotalCost(), day.WalkingKm())))
		lines = append(lines, "")
	}

	lines = append(lines, v.styles.Normal.Render(
		fmt.Sprintf("Trip total: %.2f EUR across %d stops", it.TotalCost(), it.ItemCount())))
	lines = append(lines, "")

	if res.Feasible {
		lines = append(lines, v.styles.Success.Render("Plan is feasible."))
	} else {
		lines = append(lines, v.styles.Warning.Render(
			fmt.Sprintf("Iteration budget exhausted after %d round(s); residual issues:", res.Iterations+1)))
	}
	lines = append(lines, v.wrapLines(v.renderWarnings(res))...)

	lines = append(lines, "")
	lines = append(lines, v.styles.Muted.Render(
		fmt.Sprintf("Planned in %s (%d replan round(s)).", res.Elapsed.Round(timeRounding), res.Iterations)))

	v.lines = lines
}

// renderWarnings formats residual violations and exhausted categories.
func (v *View) renderWarnings(res *domain.PlanResult) string {
	var b strings.Builder
	for _, w := range res.Warnings {
		b.WriteString(v.styles.Warning.Render("  - " + w.String()))
		b.WriteString("\n")
	}
	if len(res.ExhaustedCategories) > 0 {
		names := make([]string, 0, len(res.ExhaustedCategories))
		for _, c := range res.ExhaustedCategories {
			names = append(names, c.String())
		}
		b.WriteString(v.styles.Muted.Render("  No knowledge found for: " + strings.Join(names, ", ")))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// wrapLines splits pre-rendered text into lines, dropping empties at the end.
func (v *View) wrapLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// visibleLines returns the number of content lines that fit on screen.
func (v *View) visibleLines() int {
	// Reserve lines for title, separator, footer and padding
	reserved := 6
	available := v.height - reserved
	if available < 1 {
		available = 1
	}
	return available
}

// maxScrollOffset returns the maximum scroll offset.
func (v *View) maxScrollOffset() int {
	maxOffset := len(v.lines) - v.visibleLines()
	if maxOffset < 0 {
		maxOffset = 0
	}
	return maxOffset
}

// View renders the itinerary view.
func (v *View) View() string {
	var b strings.Builder

	title := "Itinerary"
	if v.result != nil {
		title = fmt.Sprintf("Itinerary for %s", v.result.Destination)
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", minInt(v.width-4, 60)))
	b.WriteString("\n\n")

	if v.result == nil {
		b.WriteString(v.styles.Muted.Render("(No itinerary yet. Plan a trip from the menu.)"))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	visible := v.visibleLines()
	for i := v.scrollOffset; i < len(v.lines) && i < v.scrollOffset+visible; i++ {
		b.WriteString(v.lines[i])
		b.WriteString("\n")
	}

	// Scroll position indicator
	if len(v.lines) > visible {
		b.WriteString("\n")
		percentage := 0
		if v.maxScrollOffset() > 0 {
			percentage = v.scrollOffset * 100 / v.maxScrollOffset()
		}
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d%%] Line %d-%d of %d",
			percentage,
			v.scrollOffset+1,
			minInt(v.scrollOffset+visible, len(v.lines)),
			len(v.lines))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [e] edit & replan  [n] new trip  [esc] menu")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.buildLines()
}

// Result returns the current plan result.
func (v *View) Result() *domain.PlanResult {
	return v.result
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
