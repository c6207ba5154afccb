package driven

// PromptStore hands out LLM prompt templates by name. The file-backed
// implementation lets users edit prompts under the data directory; other
// implementations could embed them or fetch them remotely.
type PromptStore interface {
	// Load returns the template registered under name. A missing user
	// file is not an error when a built-in default exists; an unknown
	// name is.
	Load(name string) (string, error)

	// Reload drops cached templates so edits on disk take effect on the
	// next Load.
	Reload()
}

// Names of the prompts the planning loop consumes. The store and the
// generator agree on these.
const (
	// PromptItinerarySystem frames the generation call: role, output
	// contract and hard rules. This prompt has no format placeholders.
	PromptItinerarySystem = "itinerary_system"

	// PromptItineraryGeneration is the per-request generation template.
	// The template expects, in order: destination (%s), duration in
	// days (%d), budget tier (%s), daily budget (%.2f), constraint
	// lines (%s), evidence context (%s) and guidance lines (%s).
	PromptItineraryGeneration = "itinerary_generation"
)

// PromptStoreAware marks a service whose prompts can be swapped after
// construction. Services keep working on built-in defaults until a store
// is injected.
type PromptStoreAware interface {
	// SetPromptStore injects the store used for subsequent prompt loads.
	SetPromptStore(store PromptStore)
}
