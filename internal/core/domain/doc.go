// Package domain holds the entities the planner reasons about:
// knowledge records, scored retrieval candidates, plan requests and
// constraints, itineraries and the planner state threaded through the
// planning loop.
//
// It is the innermost layer of the hexagon and imports only the
// standard library. Ports and services speak in these types; adapters
// translate at the boundary. Nothing in here may ever depend on an
// outer package.
package domain
