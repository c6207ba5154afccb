package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui"
)

// tuiCmd launches the wizard explicitly. Running the binary with no
// subcommand lands in the same place.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive planning wizard",
	Long: `Launch the interactive terminal wizard for trip planning.

The wizard walks through destination, duration, budget and preferences,
then plans the itinerary and renders it day by day.

Controls:
  Enter    - Confirm answer / Advance
  Esc      - Back / Cancel
  ↑/k, ↓/j - Navigate choices
  q        - Quit (outside text entry)`,
	RunE: runWizard,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runWizard(cmd *cobra.Command, _ []string) error {
	// A panic inside bubbletea leaves the terminal in a bad state and
	// no trace of what happened; print the stack before dying.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := tui.NewApp(&tui.Ports{
		Plan:     planService,
		Search:   searchService,
		Ingest:   ingestService,
		Settings: settingsService,
	})
	if err != nil {
		return fmt.Errorf("build wizard: %w", err)
	}
	app.WithContext(cmd.Context())

	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("wizard: %w", err)
	}
	return nil
}
