// Package wizard provides the trip planning question flow for the TUI.
package wizard

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui/messages"
	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui/styles"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driving"
)

// Step tracks the current question in the wizard.
type Step int

const (
	StepDestination Step = iota
	StepDays
	StepBudget
	StepDietary
	StepInterests
	StepAvoid
	StepConfirm
	StepPlanning
)

// Key constants.
const (
	keyEnter = "enter"
	keyEsc   = "esc"
)

// defaultDays is used when the traveller submits an empty duration.
const defaultDays = 3

// View is the trip planning wizard view.
type View struct {
	styles      *styles.Styles
	planService driving.PlanService
	ctx         context.Context

	// Wizard state
	step Step

	// Question inputs
	destinationInput textinput.Model
	daysInput        textinput.Model
	dietaryInput     textinput.Model
	interestsInput   textinput.Model
	avoidInput       textinput.Model

	// Budget tier selection
	tiers        []domain.BudgetTier
	selectedTier int

	// Planning state
	spinner  spinner.Model
	planning bool

	err    error
	width  int
	height int
	ready  bool
}

// NewView creates a new wizard view.
func NewView(s *styles.Styles, planService driving.PlanService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	destinationInput := textinput.New()
	destinationInput.Placeholder = "e.g. Paris"
	destinationInput.CharLimit = 128
	destinationInput.Focus()

	daysInput := textinput.New()
	daysInput.Placeholder = fmt.Sprintf("number of days (default: %d)", defaultDays)
	daysInput.CharLimit = 3

	dietaryInput := textinput.New()
	dietaryInput.Placeholder = "comma-separated, e.g. vegetarian (optional)"
	dietaryInput.CharLimit = 256

	interestsInput := textinput.New()
	interestsInput.Placeholder = "comma-separated, e.g. museums, food (optional)"
	interestsInput.CharLimit = 256

	avoidInput := textinput.New()
	avoidInput.Placeholder = "comma-separated, e.g. crowds (optional)"
	avoidInput.CharLimit = 256

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Subtitle

	return &View{
		styles:           s,
		planService:      planService,
		ctx:              context.Background(),
		step:             StepDestination,
		destinationInput: destinationInput,
		daysInput:        daysInput,
		dietaryInput:     dietaryInput,
		interestsInput:   interestsInput,
		avoidInput:       avoidInput,
		tiers:            domain.AllBudgetTiers(),
		selectedTier:     1, // moderate
		spinner:          sp,
		width:            80,
		height:           24,
	}
}

// WithContext sets the context for planning calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the wizard view.
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
		if v.step != StepPlanning {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.PlanCompleted:
		v.planning = false
		if msg.Err != nil {
			v.err = msg.Err
			v.step = StepConfirm
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg processes keyboard input based on the current step.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == keyEsc {
		return v.handleEscape()
	}

	switch v.step {
	case StepDestination:
		return v.handleTextStep(msg, &v.destinationInput, v.validateDestination, StepDays, v.daysInput.Focus)
	case StepDays:
		return v.handleTextStep(msg, &v.daysInput, v.validateDays, StepBudget, nil)
	case StepBudget:
		return v.handleBudgetSelect(msg)
	case StepDietary:
		return v.handleTextStep(msg, &v.dietaryInput, nil, StepInterests, v.interestsInput.Focus)
	case StepInterests:
		return v.handleTextStep(msg, &v.interestsInput, nil, StepAvoid, v.avoidInput.Focus)
	case StepAvoid:
		return v.handleTextStep(msg, &v.avoidInput, nil, StepConfirm, nil)
	case StepConfirm:
		if msg.String() == keyEnter {
			return v.startPlanning()
		}
	case StepPlanning:
		// Only escape is handled while planning
	}

	return v, nil
}

// handleEscape steps backwards through the questions, leaving the view
// entirely from the first one.
func (v *View) handleEscape() (*View, tea.Cmd) {
	switch v.step {
	case StepDestination:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case StepDays:
		v.step = StepDestination
		v.daysInput.Blur()
		return v, v.destinationInput.Focus()
	case StepBudget:
		v.step = StepDays
		return v, v.daysInput.Focus()
	case StepDietary:
		v.step = StepBudget
		v.dietaryInput.Blur()
		return v, nil
	case StepInterests:
		v.step = StepDietary
		v.interestsInput.Blur()
		return v, v.dietaryInput.Focus()
	case StepAvoid:
		v.step = StepInterests
		v.avoidInput.Blur()
		return v, v.interestsInput.Focus()
	case StepConfirm:
		v.step = StepAvoid
		return v, v.avoidInput.Focus()
	case StepPlanning:
		// The run keeps going in the background; the result lands in the
		// itinerary view whenever it arrives.
		v.planning = false
		v.step = StepConfirm
		return v, nil
	}
	return v, nil
}

// handleTextStep forwards keys to a text input and advances on enter.
func (v *View) handleTextStep(
	msg tea.KeyMsg,
	ti *textinput.Model,
	validate func() error,
	next Step,
	focusNext func() tea.Cmd,
) (*View, tea.Cmd) {
	if msg.String() == keyEnter {
		if validate != nil {
			if err := validate(); err != nil {
				v.err = err
				return v, nil
			}
		}
		v.err = nil
		ti.Blur()
		v.step = next
		if focusNext != nil {
			return v, focusNext()
		}
		return v, nil
	}

	var cmd tea.Cmd
	*ti, cmd = ti.Update(msg)
	return v, cmd
}

func (v *View) validateDestination() error {
	if strings.TrimSpace(v.destinationInput.Value()) == "" {
		return fmt.Errorf("destination is required")
	}
	return nil
}

func (v *View) validateDays() error {
	raw := strings.TrimSpace(v.daysInput.Value())
	if raw == "" {
		return nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("days must be a number")
	}
	if days < 1 {
		return fmt.Errorf("days must be at least 1")
	}
	return nil
}

// handleBudgetSelect handles tier selection.
func (v *View) handleBudgetSelect(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selectedTier > 0 {
			v.selectedTier--
		}
	case "down", "j":
		if v.selectedTier < len(v.tiers)-1 {
			v.selectedTier++
		}
	case keyEnter:
		v.step = StepDietary
		return v, v.dietaryInput.Focus()
	}
	return v, nil
}

// startPlanning builds the request and kicks off the planning command.
func (v *View) startPlanning() (*View, tea.Cmd) {
	req := v.Request()
	v.err = nil
	v.planning = true
	v.step = StepPlanning
	return v, tea.Batch(v.spinner.Tick, v.performPlan(req))
}

// performPlan runs the planning pipeline and reports the outcome.
func (v *View) performPlan(req domain.PlanRequest) tea.Cmd {
	return func() tea.Msg {
		if v.planService == nil {
			return messages.PlanCompleted{Err: fmt.Errorf("plan service not available")}
		}
		result, err := v.planService.Plan(v.ctx, req)
		return messages.PlanCompleted{Result: result, Err: err}
	}
}

// Request assembles a plan request from the current answers.
func (v *View) Request() domain.PlanRequest {
	days := defaultDays
	if raw := strings.TrimSpace(v.daysInput.Value()); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			days = parsed
		}
	}

	tier := domain.BudgetTierModerate
	if v.selectedTier >= 0 && v.selectedTier < len(v.tiers) {
		tier = v.tiers[v.selectedTier]
	}

	return domain.PlanRequest{
		Destination:  strings.TrimSpace(v.destinationInput.Value()),
		DurationDays: days,
		Budget:       tier,
		Dietary:      splitCSV(v.dietaryInput.Value()),
		Interests:    splitCSV(v.interestsInput.Value()),
		Avoid:        splitCSV(v.avoidInput.Value()),
	}
}

// splitCSV splits a comma-separated answer into trimmed, non-empty parts.
func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// View renders the wizard.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Plan a Trip"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	}

	switch v.step {
	case StepDestination:
		b.WriteString(v.renderQuestion(1, "Where are you going?", v.destinationInput.View()))
	case StepDays:
		b.WriteString(v.renderQuestion(2, "How many days?", v.daysInput.View()))
	case StepBudget:
		b.WriteString(v.renderBudgetSelect())
	case StepDietary:
		b.WriteString(v.renderQuestion(4, "Any dietary restrictions?", v.dietaryInput.View()))
	case StepInterests:
		b.WriteString(v.renderQuestion(5, "What are you interested in?", v.interestsInput.View()))
	case StepAvoid:
		b.WriteString(v.renderQuestion(6, "Anything to avoid?", v.avoidInput.View()))
	case StepConfirm:
		b.WriteString(v.renderConfirm())
	case StepPlanning:
		b.WriteString(v.renderPlanning())
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderQuestion(number int, prompt, inputView string) string {
	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("Step %d of 6", number)))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Normal.Render(prompt))
	b.WriteString("\n")
	b.WriteString(inputView)
	return b.String()
}

func (v *View) renderBudgetSelect() string {
	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render("Step 3 of 6"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Normal.Render("What is your budget?"))
	b.WriteString("\n\n")

	for i, tier := range v.tiers {
		indicator := "  "
		line := fmt.Sprintf("%s (%s)", tier.String(), tier.Description())
		if i == v.selectedTier {
			indicator = "> "
			b.WriteString(v.styles.Selected.Render(indicator + line))
		} else {
			b.WriteString(v.styles.Normal.Render(indicator + line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (v *View) renderConfirm() string {
	req := v.Request()

	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render("Ready to plan"))
	b.WriteString("\n\n")

	rows := []struct {
		label string
		value string
	}{
		{"Destination", req.Destination},
		{"Days", strconv.Itoa(req.DurationDays)},
		{"Budget", req.Budget.String()},
		{"Dietary", joinOrNone(req.Dietary)},
		{"Interests", joinOrNone(req.Interests)},
		{"Avoid", joinOrNone(req.Avoid)},
	}
	for _, row := range rows {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  %-12s", row.label)))
		b.WriteString(v.styles.Normal.Render(row.value))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Success.Render("Press Enter to plan the itinerary."))
	return b.String()
}

func (v *View) renderPlanning() string {
	var b strings.Builder
	b.WriteString(v.spinner.View())
	b.WriteString(v.styles.Normal.Render(" Planning your itinerary..."))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("Retrieving knowledge, drafting days and checking constraints."))
	return b.String()
}

func (v *View) renderHelp() string {
	switch v.step {
	case StepBudget:
		return v.styles.Help.Render("[j/k] Navigate  [Enter] Select  [esc] Back")
	case StepConfirm:
		return v.styles.Help.Render("[Enter] Plan  [esc] Back")
	case StepPlanning:
		return v.styles.Help.Render("[esc] Abandon")
	default:
		return v.styles.Help.Render("[Enter] Next  [esc] Back")
	}
}

// Reset clears every answer and returns to the first question.
func (v *View) Reset() {
	v.step = StepDestination
	v.destinationInput.Reset()
	v.daysInput.Reset()
	v.dietaryInput.Reset()
	v.interestsInput.Reset()
	v.avoidInput.Reset()
	v.selectedTier = 1
	v.planning = false
	v.err = nil
	v.blurAll()
	v.destinationInput.Focus()
}

// EditRequest reopens the flow with the previous answers intact.
func (v *View) EditRequest() tea.Cmd {
	v.step = StepDestination
	v.planning = false
	v.err = nil
	v.blurAll()
	return v.destinationInput.Focus()
}

func (v *View) blurAll() {
	v.destinationInput.Blur()
	v.daysInput.Blur()
	v.dietaryInput.Blur()
	v.interestsInput.Blur()
	v.avoidInput.Blur()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// CurrentStep returns the current wizard step.
func (v *View) CurrentStep() Step {
	return v.step
}

// Planning reports whether a planning run is in flight.
func (v *View) Planning() bool {
	return v.planning
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}
