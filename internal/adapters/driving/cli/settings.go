package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure AI providers, planning limits and prompt templates.

Use subcommands to configure specific settings or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Configure the embedding provider used to index and retrieve knowledge records.`,
	RunE:  runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the LLM provider used to draft itineraries.`,
	RunE:  runSettingsLLM,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set one configuration value",
	Long: `Set a configuration value by key, e.g.

  wayfarer settings set plan.daily_budget_eur 75
  wayfarer settings set plan.max_walking_km 8.5
  wayfarer settings set llm.model llama3.2`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List raw configuration keys and values",
	RunE:  runSettingsList,
}

var settingsPromptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Manage LLM prompt templates",
	Long: `List, inspect, edit and reset the prompt templates used for
itinerary generation. Templates live as editable text files in the
prompts directory; resetting one restores the built-in default.`,
	RunE: runPromptsList,
}

var promptsShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Print one prompt template",
	Args:  cobra.ExactArgs(1),
	RunE:  runPromptsShow,
}

var promptsEditCmd = &cobra.Command{
	Use:   "edit [name]",
	Short: "Edit one prompt template in $EDITOR",
	Args:  cobra.ExactArgs(1),
	RunE:  runPromptsEdit,
}

var promptsResetCmd = &cobra.Command{
	Use:   "reset [name]",
	Short: "Restore one prompt template to its default",
	Args:  cobra.ExactArgs(1),
	RunE:  runPromptsReset,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsListCmd)
	settingsPromptsCmd.AddCommand(promptsShowCmd)
	settingsPromptsCmd.AddCommand(promptsEditCmd)
	settingsPromptsCmd.AddCommand(promptsResetCmd)
	settingsCmd.AddCommand(settingsPromptsCmd)
	rootCmd.AddCommand(settingsCmd)
}

//nolint:funlen // Linear rendering of every settings section.
func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.Provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Provider.RequiresAPIKey() {
		if settings.Embedding.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Embedding.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !settings.Embedding.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.Provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		if settings.LLM.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.LLM.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status = "configured"
	if !settings.LLM.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	// Planning limits
	cmd.Println("[Plan]")
	cmd.Printf("  Daily budget: %.2f EUR\n", settings.Plan.DailyBudgetEUR)
	cmd.Printf("  Max walking: %.1f km/day\n", settings.Plan.MaxWalkingKm)
	cmd.Printf("  Max iterations: %d\n", settings.Plan.MaxIterations)
	cmd.Printf("  Source timeout: %s\n", settings.Plan.SourceTimeout)
	cmd.Printf("  Retrieval k: %d\n", settings.Plan.RetrievalK)
	cmd.Println()

	// Overall verdict.
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'wayfarer settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println("Wayfarer Settings Wizard")
	cmd.Println("========================")
	cmd.Println()

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Step 1: Configure Embedding Provider")
	cmd.Println("------------------------------------")
	cmd.Println("Knowledge retrieval needs an embedding provider.")
	cmd.Println()
	if err := configureEmbeddingProvider(cmd, reader); err != nil {
		return err
	}

	cmd.Println("Step 2: Configure LLM Provider")
	cmd.Println("------------------------------")
	cmd.Println("Itinerary drafting needs an LLM provider.")
	cmd.Println()
	if err := configureLLMProvider(cmd, reader); err != nil {
		return err
	}

	cmd.Println("Step 3: Planning Limits")
	cmd.Println("-----------------------")
	if err := configurePlanLimits(cmd, reader); err != nil {
		return err
	}

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}

	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)
	return configureEmbeddingProvider(cmd, reader)
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)
	return configureLLMProvider(cmd, reader)
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	value, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("key %q is not set", args[0])
	}
	if strings.Contains(args[0], "api_key") {
		if s, isString := value.(string); isString {
			value = maskAPIKey(s)
		}
	}
	cmd.Printf("%v\n", value)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]
	if err := configStore.Set(key, parseConfigValue(key, raw)); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	cmd.Printf("Set %s\n", key)
	return nil
}

func runSettingsList(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	// The canonical key set comes from the saved settings; listing the
	// raw file would miss keys still at their defaults.
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	rows := []struct {
		key   string
		value string
	}{
		{"embedding.provider", settings.Embedding.Provider.String()},
		{"embedding.model", settings.Embedding.Model},
		{"embedding.base_url", settings.Embedding.BaseURL},
		{"embedding.api_key", maskIfSet(settings.Embedding.APIKey)},
		{"llm.provider", settings.LLM.Provider.String()},
		{"llm.model", settings.LLM.Model},
		{"llm.base_url", settings.LLM.BaseURL},
		{"llm.api_key", maskIfSet(settings.LLM.APIKey)},
		{"plan.daily_budget_eur", strconv.FormatFloat(settings.Plan.DailyBudgetEUR, 'f', -1, 64)},
		{"plan.max_walking_km", strconv.FormatFloat(settings.Plan.MaxWalkingKm, 'f', -1, 64)},
		{"plan.max_iterations", strconv.Itoa(settings.Plan.MaxIterations)},
		{"plan.source_timeout", settings.Plan.SourceTimeout.String()},
		{"plan.retrieval_k", strconv.Itoa(settings.Plan.RetrievalK)},
	}
	for _, row := range rows {
		cmd.Printf("%-24s %s\n", row.key, row.value)
	}
	cmd.Printf("\nConfig file: %s\n", configStore.Path())
	return nil
}

// parseConfigValue keeps TOML values typed: integers and floats are
// stored as numbers, true/false as booleans, everything else as a
// string. Secrets are never coerced.
func parseConfigValue(key, raw string) any {
	if strings.Contains(key, "api_key") {
		return raw
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

func runPromptsList(cmd *cobra.Command, _ []string) error {
	if promptStore == nil {
		return errors.New("prompt store not configured")
	}

	cmd.Println("Prompt templates:")
	for _, name := range promptStore.Names() {
		cmd.Printf("  %s\n", name)
	}
	cmd.Printf("\nPrompt directory: %s\n", promptStore.Dir())
	return nil
}

func runPromptsShow(cmd *cobra.Command, args []string) error {
	if promptStore == nil {
		return errors.New("prompt store not configured")
	}

	prompt, err := promptStore.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load prompt %q: %w", args[0], err)
	}
	cmd.Println(prompt)
	return nil
}

func runPromptsEdit(cmd *cobra.Command, args []string) error {
	if promptStore == nil {
		return errors.New("prompt store not configured")
	}

	name := args[0]
	// Loading first materialises the default file on first use.
	if _, err := promptStore.Load(name); err != nil {
		return fmt.Errorf("failed to load prompt %q: %w", name, err)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	path := filepath.Join(promptStore.Dir(), name+".txt")

	editCmd := exec.Command(editor, path) //nolint:gosec // Editor choice belongs to the user.
	editCmd.Stdin = os.Stdin
	editCmd.Stdout = os.Stdout
	editCmd.Stderr = os.Stderr
	if err := editCmd.Run(); err != nil {
		return fmt.Errorf("editor failed: %w", err)
	}

	promptStore.Reload()
	cmd.Printf("Updated %s\n", path)
	return nil
}

func runPromptsReset(cmd *cobra.Command, args []string) error {
	if promptStore == nil {
		return errors.New("prompt store not configured")
	}

	if err := promptStore.Reset(args[0]); err != nil {
		return fmt.Errorf("failed to reset prompt %q: %w", args[0], err)
	}
	cmd.Printf("Prompt %q restored to its default.\n", args[0])
	return nil
}

//nolint:dupl // the embedding and LLM flows ask the same questions
func configureEmbeddingProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nChoice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	defaults := domain.DefaultEmbeddingModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Model [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("API key: ")
		apiKey = readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetEmbeddingProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	// Ping the provider before declaring success.
	cmd.Print("Checking provider... ")
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Embedding provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

//nolint:dupl // the embedding and LLM flows ask the same questions
func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nChoice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	defaults := domain.DefaultLLMModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Model [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("API key: ")
		apiKey = readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetLLMProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	// Ping the provider before declaring success.
	cmd.Print("Checking provider... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

// configurePlanLimits prompts for the planning limits, keeping the
// current value when the user just presses enter.
func configurePlanLimits(cmd *cobra.Command, reader *bufio.Reader) error {
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Printf("Daily budget in EUR [%.2f]: ", settings.Plan.DailyBudgetEUR)
	if input := readLine(reader); input != "" {
		budget, err := strconv.ParseFloat(input, 64)
		if err != nil || budget <= 0 {
			return fmt.Errorf("invalid daily budget %q", input)
		}
		settings.Plan.DailyBudgetEUR = budget
	}

	cmd.Printf("Max walking km per day [%.1f]: ", settings.Plan.MaxWalkingKm)
	if input := readLine(reader); input != "" {
		walking, err := strconv.ParseFloat(input, 64)
		if err != nil || walking <= 0 {
			return fmt.Errorf("invalid walking limit %q", input)
		}
		settings.Plan.MaxWalkingKm = walking
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save plan limits: %w", err)
	}
	cmd.Printf("Plan limits saved: %.2f EUR/day, %.1f km/day\n\n",
		settings.Plan.DailyBudgetEUR, settings.Plan.MaxWalkingKm)
	return nil
}

// Shared input helpers.

func maskIfSet(key string) string {
	if key == "" {
		return ""
	}
	return maskAPIKey(key)
}

//nolint:errcheck // an unread answer falls back to the default
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // interactive input, empty on failure
func readPassword() string {
	// No echo when stdin is a real terminal.
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Piped input is read plainly.
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
