// Package settings implements the provider configuration screen of
// the wizard.
package settings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui/messages"
	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui/styles"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driving"
)

// Section is the screen within the settings flow the user is on.
type Section int

const (
	SectionOverview Section = iota
	SectionEmbedding
	SectionLLM
	SectionPlan
)

// Key strings shared across section handlers.
const (
	keyDown  = "down"
	keyEnter = "enter"
	keyTab   = "tab"
)

// providerPane bundles what differs between the embedding and LLM
// sections. Both run the same interaction: pick a provider from a
// list, supply an API key when the provider needs one, persist.
type providerPane struct {
	subtitle  string
	providers func() []domain.AIProvider
	models    func() map[domain.AIProvider]string
	current   func(*domain.AppSettings) domain.AIProvider
	input     *textinput.Model
	persist   func(provider domain.AIProvider, model, apiKey string) error
}

// View walks the user through provider choice, model and API key for
// both AI backends, then validates and saves.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.AppSettings
	err      error

	section      Section
	selected     int // row within the current section
	focusedField int // 0 = list or first input, 1 = second input

	embeddingAPIKeyInput textinput.Model
	llmAPIKeyInput       textinput.Model

	budgetInput  textinput.Model
	walkingInput textinput.Model

	width  int
	height int
	ready  bool
}

func newKeyInput() textinput.Model {
	in := textinput.New()
	in.Placeholder = "Enter API key"
	in.EchoMode = textinput.EchoPassword
	in.CharLimit = 256
	return in
}

func newLimitInput(placeholder string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 8
	return in
}

// NewView builds the settings screen on the overview section.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:               s,
		settingsService:      settingsService,
		section:              SectionOverview,
		embeddingAPIKeyInput: newKeyInput(),
		llmAPIKeyInput:       newKeyInput(),
		budgetInput:          newLimitInput("daily budget in EUR"),
		walkingInput:         newLimitInput("max km per day"),
	}
}

// Init kicks off the initial settings load.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

// loadSettings fetches the stored settings off the UI goroutine.
func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: fmt.Errorf("settings service not wired")}
		}
		settings, err := v.settingsService.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update reacts to loads, saves, validation results and keys.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.settings = msg.Settings
		v.err = nil
		return v, nil

	case messages.SettingsSaved:
		v.err = msg.Err
		if msg.Err == nil {
			return v, v.loadSettings()
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == "esc" {
		return v.handleEscape()
	}

	switch v.section {
	case SectionOverview:
		return v.handleOverviewKeys(msg)
	case SectionEmbedding, SectionLLM:
		return v.handleProviderKeys(v.pane(), msg)
	case SectionPlan:
		return v.handlePlanKeys(msg)
	}

	return v, nil
}

// handleEscape backs out one level: section to overview, overview to menu.
func (v *View) handleEscape() (*View, tea.Cmd) {
	if v.section == SectionOverview {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}
	v.returnToOverview()
	return v, nil
}

// returnToOverview resets navigation state and blurs every input.
func (v *View) returnToOverview() {
	v.section = SectionOverview
	v.selected = 0
	v.focusedField = 0
	v.embeddingAPIKeyInput.Blur()
	v.llmAPIKeyInput.Blur()
	v.budgetInput.Blur()
	v.walkingInput.Blur()
}

func (v *View) handleOverviewKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	const rowCount = 3 // Embedding, LLM, Plan Limits

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < rowCount-1 {
			v.selected++
		}
	case keyEnter:
		switch v.selected {
		case 0:
			v.openProviderSection(SectionEmbedding)
		case 1:
			v.openProviderSection(SectionLLM)
		case 2:
			v.section = SectionPlan
			v.selected = 0
			v.focusedField = 0
			v.seedPlanInputs()
			return v, v.budgetInput.Focus()
		}
	}
	return v, nil
}

// openProviderSection enters a provider section with the cursor on the
// provider that is currently configured.
func (v *View) openProviderSection(s Section) {
	v.section = s
	v.selected = 0
	if v.settings == nil {
		return
	}
	pane := v.pane()
	for i, p := range pane.providers() {
		if p == pane.current(v.settings) {
			v.selected = i
			return
		}
	}
}

func (v *View) handleProviderKeys(pane *providerPane, msg tea.KeyMsg) (*View, tea.Cmd) {
	list := pane.providers()

	// API key input has focus.
	if v.focusedField == 1 {
		switch msg.String() {
		case keyTab, "shift+tab":
			v.focusedField = 0
			pane.input.Blur()
			return v, nil
		case keyEnter:
			if v.selected < len(list) {
				return v, v.saveProvider(pane, list[v.selected], pane.input.Value())
			}
			return v, nil
		default:
			var cmd tea.Cmd
			*pane.input, cmd = pane.input.Update(msg)
			return v, cmd
		}
	}

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(list)-1 {
			v.selected++
		}
	case keyTab:
		if v.selected < len(list) && list[v.selected].RequiresAPIKey() {
			v.focusedField = 1
			return v, pane.input.Focus()
		}
	case keyEnter:
		if v.selected >= len(list) {
			break
		}
		chosen := list[v.selected]
		if chosen.RequiresAPIKey() {
			// Key required before the save can run.
			v.focusedField = 1
			return v, pane.input.Focus()
		}
		return v, v.saveProvider(pane, chosen, "")
	}
	return v, nil
}

// handlePlanKeys edits the planning limits. Tab moves between the two
// inputs, enter saves both.
func (v *View) handlePlanKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyTab, keyDown, "shift+tab", "up":
		if v.focusedField == 0 {
			v.focusedField = 1
			v.budgetInput.Blur()
			return v, v.walkingInput.Focus()
		}
		v.focusedField = 0
		v.walkingInput.Blur()
		return v, v.budgetInput.Focus()
	case keyEnter:
		return v, v.savePlanLimits()
	default:
		var cmd tea.Cmd
		if v.focusedField == 0 {
			v.budgetInput, cmd = v.budgetInput.Update(msg)
		} else {
			v.walkingInput, cmd = v.walkingInput.Update(msg)
		}
		return v, cmd
	}
}

// saveProvider persists a provider choice with its default model.
func (v *View) saveProvider(pane *providerPane, provider domain.AIProvider, apiKey string) tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsSaved{Err: fmt.Errorf("settings service not wired")}
		}
		model := pane.models()[provider]
		if err := pane.persist(provider, model, apiKey); err != nil {
			return messages.SettingsSaved{Err: err}
		}
		v.returnToOverview()
		pane.input.SetValue("")
		return messages.SettingsSaved{}
	}
}

// savePlanLimits parses both limit inputs and persists them.
func (v *View) savePlanLimits() tea.Cmd {
	budget, err := strconv.ParseFloat(strings.TrimSpace(v.budgetInput.Value()), 64)
	if err != nil || budget <= 0 {
		v.err = fmt.Errorf("daily budget must be a positive number")
		return nil
	}
	walking, err := strconv.ParseFloat(strings.TrimSpace(v.walkingInput.Value()), 64)
	if err != nil || walking <= 0 {
		v.err = fmt.Errorf("walking limit must be a positive number")
		return nil
	}
	v.err = nil

	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsSaved{Err: fmt.Errorf("settings service not wired")}
		}
		settings, err := v.settingsService.Get()
		if err != nil {
			return messages.SettingsSaved{Err: err}
		}
		settings.Plan.DailyBudgetEUR = budget
		settings.Plan.MaxWalkingKm = walking
		if err := v.settingsService.Save(settings); err != nil {
			return messages.SettingsSaved{Err: err}
		}
		v.returnToOverview()
		return messages.SettingsSaved{}
	}
}

// seedPlanInputs pre-fills the limit inputs from the loaded settings.
func (v *View) seedPlanInputs() {
	if v.settings == nil {
		return
	}
	v.budgetInput.SetValue(strconv.FormatFloat(v.settings.Plan.DailyBudgetEUR, 'f', -1, 64))
	v.walkingInput.SetValue(strconv.FormatFloat(v.settings.Plan.MaxWalkingKm, 'f', -1, 64))
}

// pane returns the provider pane matching the active section. Any
// section other than LLM falls back to the embedding pane.
func (v *View) pane() *providerPane {
	if v.section == SectionLLM {
		return &providerPane{
			subtitle:  "Select LLM Provider",
			providers: domain.AllLLMProviders,
			models:    domain.DefaultLLMModels,
			current:   func(s *domain.AppSettings) domain.AIProvider { return s.LLM.Provider },
			input:     &v.llmAPIKeyInput,
			persist: func(provider domain.AIProvider, model, apiKey string) error {
				return v.settingsService.SetLLMProvider(provider, model, apiKey)
			},
		}
	}
	return &providerPane{
		subtitle:  "Select Embedding Provider",
		providers: domain.AllEmbeddingProviders,
		models:    domain.DefaultEmbeddingModels,
		current:   func(s *domain.AppSettings) domain.AIProvider { return s.Embedding.Provider },
		input:     &v.embeddingAPIKeyInput,
		persist: func(provider domain.AIProvider, model, apiKey string) error {
			return v.settingsService.SetEmbeddingProvider(provider, model, apiKey)
		},
	}
}

// View paints the active section.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	switch v.section {
	case SectionOverview:
		b.WriteString(v.renderOverview())
	case SectionEmbedding, SectionLLM:
		b.WriteString(v.renderProviderSelect(v.pane()))
	case SectionPlan:
		b.WriteString(v.renderPlanSection())
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderOverview() string {
	type row struct {
		label, value, badge string
	}

	rows := []row{
		{
			label: "Embedding Provider",
			value: providerSummary(v.settings.Embedding.Provider, v.settings.Embedding.Model),
			badge: v.configuredBadge(v.settings.Embedding.IsConfigured()),
		},
		{
			label: "LLM Provider",
			value: providerSummary(v.settings.LLM.Provider, v.settings.LLM.Model),
			badge: v.configuredBadge(v.settings.LLM.IsConfigured()),
		},
		{
			label: "Plan Limits",
			value: fmt.Sprintf("%.0f EUR/day, %.0f km/day",
				v.settings.Plan.DailyBudgetEUR, v.settings.Plan.MaxWalkingKm),
		},
	}

	var b strings.Builder
	for i, r := range rows {
		line := "  "
		if i == v.selected {
			line = "> "
		}
		line += fmt.Sprintf("%s: %s", r.label, r.value)
		if r.badge != "" {
			line += " " + r.badge
		}

		style := v.styles.Normal
		if i == v.selected {
			style = v.styles.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.settingsService != nil {
		if err := v.settingsService.Validate(); err != nil {
			b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Warning: %s", err.Error())))
		} else {
			b.WriteString(v.styles.Success.Render("Configuration is valid"))
		}
	}

	return b.String()
}

func providerSummary(provider domain.AIProvider, model string) string {
	if provider == "" {
		return "Not Set"
	}
	return fmt.Sprintf("%s (%s)", provider.Description(), model)
}

func (v *View) configuredBadge(configured bool) string {
	if configured {
		return v.styles.Success.Render("[configured]")
	}
	return v.styles.Warning.Render("[needs API key]")
}

func (v *View) renderProviderSelect(pane *providerPane) string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render(pane.subtitle))
	b.WriteString("\n\n")

	list := pane.providers()
	models := pane.models()

	for i, provider := range list {
		onRow := i == v.selected && v.focusedField == 0

		line := "  "
		if onRow {
			line = "> "
		}
		line += provider.Description()
		if v.settings != nil && provider == pane.current(v.settings) {
			line += v.styles.Success.Render(" (current)")
		}

		style := v.styles.Normal
		if onRow {
			style = v.styles.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")

		if model, ok := models[provider]; ok {
			b.WriteString(v.styles.Muted.Render("    Model: " + model))
			b.WriteString("\n")
		}
	}

	if v.selected < len(list) && list[v.selected].RequiresAPIKey() {
		b.WriteString("\n")
		b.WriteString(v.styles.Normal.Render("API Key:"))
		b.WriteString("\n")
		b.WriteString(pane.input.View())
		b.WriteString("\n")
	}

	return b.String()
}

func (v *View) renderPlanSection() string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render("Planning Limits"))
	b.WriteString("\n\n")

	b.WriteString(v.styles.Normal.Render("Daily budget (EUR):"))
	b.WriteString("\n")
	b.WriteString(v.budgetInput.View())
	b.WriteString("\n\n")

	b.WriteString(v.styles.Normal.Render("Max walking distance (km/day):"))
	b.WriteString("\n")
	b.WriteString(v.walkingInput.View())
	b.WriteString("\n")

	return b.String()
}

func (v *View) renderHelp() string {
	switch v.section {
	case SectionOverview:
		return v.styles.Help.Render("[j/k] navigate  [enter] edit  [esc] back")
	case SectionEmbedding, SectionLLM:
		if v.focusedField == 1 {
			return v.styles.Help.Render("[tab] back to list  [enter] save  [esc] back")
		}
		return v.styles.Help.Render("[j/k] navigate  [tab] API key  [enter] select  [esc] back")
	case SectionPlan:
		return v.styles.Help.Render("[tab] next field  [enter] save  [esc] back")
	default:
		return ""
	}
}

// SetDimensions records the terminal size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Reset clears transient state so a revisit starts clean.
func (v *View) Reset() {
	v.returnToOverview()
	v.err = nil
	v.embeddingAPIKeyInput.SetValue("")
	v.llmAPIKeyInput.SetValue("")
}
