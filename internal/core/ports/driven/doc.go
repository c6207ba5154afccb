// Package driven declares what the core needs from infrastructure:
// the secondary (outbound) ports of the hexagon. Services depend on
// these interfaces and the adapters under internal/adapters/driven
// supply the implementations.
//
// Planning needs EmbeddingService, one VectorIndex per knowledge
// category, LLMService, RecordLoader and ConfigStore wired up.
// PromptStore and AIConfigValidator may be left nil: generation then
// runs on its embedded prompt defaults and the settings flow skips
// connectivity checks.
//
// The package imports domain and nothing else, so no adapter detail
// can leak into the core.
package driven
