package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driven"
)

var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore serves generation prompts from user-editable files under
// the prompt directory, falling back to the embedded defaults. The
// directory is seeded lazily on first use, so constructing a store
// performs no I/O.
type PromptStore struct {
	mu        sync.Mutex
	promptDir string
	cache     map[string]string
	seeded    bool
	seedErr   error
}

// defaultPrompts seeds new prompt files and serves as the fallback
// when a file is missing.
//
//nolint:lll // template text reads better unwrapped
var defaultPrompts = map[string]string{
	driven.PromptItinerarySystem: `You are a travel planner. You build day-by-day itineraries strictly from the knowledge provided to you.

Rules:
- Use ONLY venues and facts from the provided knowledge. Cite each stop's record id.
- Respond with a single JSON document and nothing else. No markdown fences, no prose.
- The document has this shape:
  {"summary": "...", "days": [{"day": 1, "items": [{"title": "...", "start": "09:00", "end": "11:00", "cost_eur": 17, "record_id": "...", "notes": "..."}]}]}
- Days are numbered from 1 with no gaps. Items within a day are in visit order with non-overlapping time windows.
- Times use 24-hour HH:MM. Costs are in euros; use 0 for free stops.
- Schedule stops within their opening hours and keep each day's spending within the daily budget.`,

	driven.PromptItineraryGeneration: `Plan a trip to %s lasting %d days on a %s budget (at most %.2f EUR per day).

Constraints:
%s

Knowledge:
%s

Guidance:
%s

Respond with the JSON document only.`,
}

const promptsReadme = `# Wayfarer Prompts

The files in this directory drive itinerary generation and are yours
to edit. Changes take effect on the next command. Restore a default
with: wayfarer settings prompts reset <name>

## Files

- itinerary_system.txt frames the generation call: role, output
  contract, hard rules.
- itinerary_generation.txt is the per-request template carrying the
  constraints, knowledge and guidance.

## Placeholders

The generation template is filled with Go fmt verbs, in this order:
destination (%s), duration in days (%d), budget tier (%s), daily
budget in EUR (%.2f), constraint lines (%s), knowledge context (%s)
and guidance lines (%s). Edited templates must keep that order.
`

// NewPromptStore creates a prompt store rooted at promptDir. An empty
// promptDir means ~/.wayfarer/prompts.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".wayfarer", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for name. The first call seeds the
// prompt directory; later calls serve from the cache. A missing or
// unreadable file falls back to the embedded default.
func (s *PromptStore) Load(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensure(); err != nil {
		// Embedded defaults still serve when the directory is unusable.
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", err)
	}

	if prompt, ok := s.cache[name]; ok {
		return prompt, nil
	}

	data, err := os.ReadFile(s.promptFile(name))
	if err != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	prompt := strings.TrimSpace(string(data))
	s.cache[name] = prompt
	return prompt, nil
}

// Reload drops the cache so the next Load reads from disk again.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]string)
}

// Reset restores a prompt file to its embedded default and drops the
// cached copy. Unknown names are rejected.
func (s *PromptStore) Reset(name string) error {
	content, ok := defaultPrompts[name]
	if !ok {
		return fmt.Errorf("unknown prompt %q", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensure(); err != nil {
		return fmt.Errorf("prompt store init failed: %w", err)
	}
	if err := os.WriteFile(s.promptFile(name), []byte(content), 0600); err != nil {
		return fmt.Errorf("reset prompt %q: %w", name, err)
	}

	delete(s.cache, name)
	return nil
}

// Names returns the known prompt names in sorted order.
func (s *PromptStore) Names() []string {
	names := make([]string, 0, len(defaultPrompts))
	for name := range defaultPrompts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dir reports where the template files live.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// ensure seeds the prompt directory once. The outcome is remembered,
// so a failed seed is not retried. Callers hold mu.
func (s *PromptStore) ensure() error {
	if !s.seeded {
		s.seedErr = s.seed()
		s.seeded = true
	}
	return s.seedErr
}

// seed creates the prompt directory and any missing default files.
// Files the user already has are left untouched.
func (s *PromptStore) seed() error {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		return fmt.Errorf("create prompt directory: %w", err)
	}

	for name, content := range defaultPrompts {
		if err := writeIfMissing(s.promptFile(name), content); err != nil {
			return fmt.Errorf("create default prompt %q: %w", name, err)
		}
	}

	if err := writeIfMissing(filepath.Join(s.promptDir, "README.md"), promptsReadme); err != nil {
		return fmt.Errorf("create prompts README: %w", err)
	}
	return nil
}

func (s *PromptStore) promptFile(name string) string {
	return filepath.Join(s.promptDir, name+".txt")
}

// writeIfMissing writes content to path only when nothing is there yet.
func writeIfMissing(path, content string) error {
	if _, err := os.Stat(path); err == nil || !os.IsNotExist(err) {
		return nil
	}
	return os.WriteFile(path, []byte(content), 0600)
}
