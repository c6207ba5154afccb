// Package list renders scored candidates as a navigable list.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driving/tui/styles"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
)

// CandidateList displays scored knowledge candidates in a navigable list.
type CandidateList struct {
	candidates []domain.ScoredCandidate
	selected   int
	styles     *styles.Styles
	width      int
	height     int
}

// NewCandidateList creates a new candidate list component.
func NewCandidateList(s *styles.Styles) *CandidateList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &CandidateList{
		candidates: nil,
		selected:   0,
		styles:     s,
		width:      80,
		height:     10,
	}
}

// Init initialises the candidate list.
func (c *CandidateList) Init() tea.Cmd {
	return nil
}

// Update moves the cursor on arrow and vim keys.
func (c *CandidateList) Update(msg tea.Msg) (*CandidateList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // only arrow keys matter here
		switch msg.Type {
		case tea.KeyUp:
			c.MoveUp()
		case tea.KeyDown:
			c.MoveDown()
		}
		switch msg.String() {
		case "k":
			c.MoveUp()
		case "j":
			c.MoveDown()
		}
	}
	return c, nil
}

// View renders the candidate list.
func (c *CandidateList) View() string {
	if len(c.candidates) == 0 {
		return c.styles.Muted.Render("No results")
	}

	lines := make([]string, 0, len(c.candidates)*2+2)

	header := c.styles.Subtitle.Render(fmt.Sprintf("Results (%d)", len(c.candidates)))
	lines = append(lines, header, "")

	// Each candidate takes up to three lines, so size the window by three
	visibleCount := (c.height - 4) / 3
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if c.selected >= visibleCount {
		start = c.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(c.candidates) {
		end = len(c.candidates)
	}

	for i := start; i < end; i++ {
		line := c.renderCandidate(i, &c.candidates[i])
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// renderCandidate formats a single scored candidate with a snippet preview.
func (c *CandidateList) renderCandidate(index int, cand *domain.ScoredCandidate) string {
	indicator := "  "
	if index == c.selected {
		indicator = "> "
	}

	// Record ID with score
	id := cand.Record.ID
	if id == "" {
		id = "(unknown)"
	}

	maxIDLen := c.width - 20
	if maxIDLen < 10 {
		maxIDLen = 10
	}
	if len(id) > maxIDLen {
		id = id[:maxIDLen-3] + "..."
	}

	score := fmt.Sprintf("%.2f", cand.Score)

	var titleLine string
	if index == c.selected {
		titleLine = c.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxIDLen, id, score))
	} else {
		titleLine = c.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxIDLen, id)) +
			c.styles.Muted.Render(score)
	}

	// Snippet preview (evidence snippet, falling back to the record description)
	preview := cand.Evidence.Snippet
	if preview == "" {
		preview = cand.Record.Description
	}

	maxPreviewLen := c.width - 6
	if maxPreviewLen < 20 {
		maxPreviewLen = 20
	}
	if len(preview) > maxPreviewLen {
		preview = preview[:maxPreviewLen-3] + "..."
	}

	previewLine := c.styles.Muted.Render("    " + preview)

	// Source label line (if available)
	var sourceLine string
	if cand.Record.SourceLabel != "" {
		sourceLine = "\n" + c.styles.Subtitle.Render("    "+cand.Record.SourceLabel)
	}

	return titleLine + sourceLine + "\n" + previewLine
}

// SetCandidates updates the candidate list.
func (c *CandidateList) SetCandidates(candidates []domain.ScoredCandidate) {
	c.candidates = candidates
	c.selected = 0
}

// Candidates returns the current candidates.
func (c *CandidateList) Candidates() []domain.ScoredCandidate {
	return c.candidates
}

// Selected returns the index of the selected candidate.
func (c *CandidateList) Selected() int {
	return c.selected
}

// SetSelected jumps the cursor, ignoring out-of-range indices.
func (c *CandidateList) SetSelected(index int) {
	if index >= 0 && index < len(c.candidates) {
		c.selected = index
	}
}

// SelectedCandidate returns the currently selected candidate, or nil if none.
func (c *CandidateList) SelectedCandidate() *domain.ScoredCandidate {
	if len(c.candidates) == 0 || c.selected < 0 || c.selected >= len(c.candidates) {
		return nil
	}
	return &c.candidates[c.selected]
}

// MoveUp steps the cursor toward the top.
func (c *CandidateList) MoveUp() {
	if c.selected > 0 {
		c.selected--
	}
}

// MoveDown steps the cursor toward the bottom.
func (c *CandidateList) MoveDown() {
	if c.selected < len(c.candidates)-1 {
		c.selected++
	}
}

// SetDimensions records the space the list may use.
func (c *CandidateList) SetDimensions(width, height int) {
	c.width = width
	c.height = height
}

// Width reports the usable width.
func (c *CandidateList) Width() int {
	return c.width
}

// Height reports the usable height.
func (c *CandidateList) Height() int {
	return c.height
}

// Count returns the number of candidates.
func (c *CandidateList) Count() int {
	return len(c.candidates)
}

// IsEmpty reports whether there is nothing to show.
func (c *CandidateList) IsEmpty() bool {
	return len(c.candidates) == 0
}
