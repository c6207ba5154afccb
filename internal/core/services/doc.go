// Package services implements the driving ports on top of the driven
// ones. The planning loop lives here: intent analysis, concurrent
// multi-source retrieval, aggregation, generation, validation and
// bounded replanning, plus the ingest and settings flows around it.
package services
