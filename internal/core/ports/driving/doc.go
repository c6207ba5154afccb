// Package driving declares the primary ports: the interfaces through
// which the CLI, the TUI wizard and the MCP server drive the core.
// The services package provides the implementations.
package driving
