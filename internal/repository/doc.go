// Package repository defines storage for gather history.
//
// A gather run is persisted as a domain.Snapshot: the resolved subsets, the
// prefixed fact map and the warnings of that run, keyed by a generated run ID.
// Stored facts come back as generic decoded JSON, not as the typed records the
// parsers produced.
//
// The sqlite subpackage is the only implementation. Tests use in-memory
// databases.
package repository
