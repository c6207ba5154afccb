package domain

// ContextSection is one category's retrieved candidates within an
// aggregated context, kept in retrieval order.
type ContextSection struct {
	// Category is the knowledge domain of the section.
	Category Category

	// Candidates are the section's results, highest score first.
	Candidates []ScoredCandidate
}

// AggregatedContext is the merged evidence bundle handed to
// generation. Rebuilt every orchestration iteration; never mutated in
// place.
type AggregatedContext struct {
	// Sections are the per-category results in fixed priority order:
	// attractions, food, tips, prior itineraries. Generation is
	// sensitive to context ordering, so this order never varies.
	Sections []ContextSection

	// Evidence is the flattened citation list across all sections,
	// in section order.
	Evidence []Evidence

	// ExhaustedCategories lists sources that stayed empty even after
	// their one relaxation retry. Surfaced to generation and to the
	// user as "no matches".
	ExhaustedCategories []Category
}

// Section returns the section for a category, or nil when the
// category was not queried.
func (c *AggregatedContext) Section(cat Category) *ContextSection {
	for i := range c.Sections {
		if c.Sections[i].Category == cat {
			return &c.Sections[i]
		}
	}
	return nil
}

// IsEmpty reports whether no section holds any candidate.
func (c *AggregatedContext) IsEmpty() bool {
	for i := range c.Sections {
		if len(c.Sections[i].Candidates) > 0 {
			return false
		}
	}
	return true
}

// CandidateCount counts candidates across all sections.
func (c *AggregatedContext) CandidateCount() int {
	var n int
	for i := range c.Sections {
		n += len(c.Sections[i].Candidates)
	}
	return n
}
