// Package mcp provides an MCP (Model Context Protocol) server adapter for Wayfarer.
// It lets AI assistants like Claude plan itineraries and query the local travel knowledge base.
package mcp

import "errors"

// ErrMissingSearchService fails construction: retrieval is the one
// capability the server cannot run without.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrPlanningUnavailable is returned by the plan_trip tool when no LLM
// provider is configured.
var ErrPlanningUnavailable = errors.New("mcp: planning is not configured, set up an LLM provider first")
