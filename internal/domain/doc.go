// Package domain defines the fact model produced when gathering state from an
// NX-OS device.
//
// # Facts
//
// InterfaceFact, LLDPNeighbor and Route are the canonical records the parsers
// emit. They are grouped into a Fragment per subset and merged into a FactMap,
// whose keys are prefixed (ansible_net_ by default) before reaching callers.
//
// MACSet accumulates every MAC address seen during a run and is published as
// the info fact.
//
// # Snapshots
//
// Snapshot is a persisted gather result. SnapshotSummary is its listing form.
//
// # Credentials
//
// Credential carries device login material and is never persisted.
package domain
