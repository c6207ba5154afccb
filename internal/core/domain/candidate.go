package domain

// Evidence is the citation attached to a retrieved candidate.
// It survives into the generated itinerary for attribution.
type Evidence struct {
	// Source labels where the fact came from, qualified by category
	// (e.g. "curated-guide/attraction").
	Source string

	// Snippet is a short excerpt of the record description.
	Snippet string

	// URL is an optional reference link.
	URL string

	// Relevance is the similarity score the candidate retrieved with.
	Relevance float64

	// RecordID is the cited record's identifier within its category.
	RecordID string
}

// ScoredCandidate pairs a KnowledgeRecord with its similarity score
// for one query. Candidates are created fresh per query and never
// persisted.
type ScoredCandidate struct {
	// Record is the retrieved knowledge record.
	Record KnowledgeRecord

	// Score is the similarity in [0,1]; higher is more similar.
	Score float64

	// Evidence is the citation derived from the record and score.
	Evidence Evidence
}
