// Package ingest provides the index rebuild view for the TUI.
package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui/messages"
	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui/styles"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driving"
)

// defaultSeedDir matches the ingest command's default seed directory.
const defaultSeedDir = "data/seed"

// elapsedRounding trims elapsed durations for display.
const elapsedRounding = 10 * time.Millisecond

// View is the index rebuild view. It re-embeds every seed file and
// shows the per-category counts when done.
type View struct {
	styles        *styles.Styles
	ingestService driving.IngestService
	ctx           context.Context

	dir     string
	running bool
	spinner spinner.Model
	report  *driving.IngestReport
	err     error

	width  int
	height int
	ready  bool
}

// NewView creates a new ingest view.
func NewView(s *styles.Styles, ingestService driving.IngestService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Subtitle

	return &View{
		styles:        s,
		ingestService: ingestService,
		ctx:           context.Background(),
		dir:           defaultSeedDir,
		spinner:       sp,
		width:         80,
		height:        24,
	}
}

// WithContext sets the context for ingest calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the ingest view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case spinner.TickMsg:
		if !v.running {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.IngestCompleted:
		v.running = false
		v.report = msg.Report
		v.err = msg.Err
		return v, nil

	case messages.ErrorOccurred:
		v.running = false
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if v.running {
			return v, nil
		}
		v.running = true
		v.err = nil
		v.report = nil
		return v, tea.Batch(v.spinner.Tick, v.performIngest())
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}
	return v, nil
}

// performIngest rebuilds every category index from the seed directory.
func (v *View) performIngest() tea.Cmd {
	return func() tea.Msg {
		if v.ingestService == nil {
			return messages.IngestCompleted{Err: fmt.Errorf("ingest service not available")}
		}
		report, err := v.ingestService.Ingest(v.ctx, driving.IngestOptions{Dir: v.dir})
		return messages.IngestCompleted{Report: report, Err: err}
	}
}

// View renders the ingest view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Rebuild Indices"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Normal.Render(
		fmt.Sprintf("Re-embeds every seed file under %s and rebuilds the per-category indices.", v.dir)))
	b.WriteString("\n\n")

	switch {
	case v.running:
		b.WriteString(v.spinner.View())
		b.WriteString(v.styles.Normal.Render(" Embedding records..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case v.report != nil:
		b.WriteString(v.renderReport())
	default:
		b.WriteString(v.styles.Muted.Render("Press Enter to start."))
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[Enter] Rebuild  [esc] Back"))

	return b.String()
}

// renderReport formats the per-category ingest counts.
func (v *View) renderReport() string {
	var b strings.Builder

	b.WriteString(v.styles.Success.Render(
		fmt.Sprintf("Ingested %d records in %s.", v.report.TotalRecords(), v.report.Elapsed.Round(elapsedRounding))))
	b.WriteString("\n\n")

	skipped := make(map[domain.Category]bool, len(v.report.Skipped))
	for _, c := range v.report.Skipped {
		skipped[c] = true
	}

	for _, category := range domain.AllCategories() {
		if skipped[category] {
			b.WriteString(v.styles.Muted.Render(
				fmt.Sprintf("  %-16s skipped (no seed file)", category.String())))
			b.WriteString("\n")
			continue
		}
		if count, ok := v.report.Counts[category]; ok {
			b.WriteString(v.styles.Normal.Render(
				fmt.Sprintf("  %-16s %d records", category.String(), count)))
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Running reports whether an ingest run is in flight.
func (v *View) Running() bool {
	return v.running
}

// Report returns the last ingest report.
func (v *View) Report() *driving.IngestReport {
	return v.report
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
