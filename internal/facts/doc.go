// Package facts normalizes JSON output of NX-OS CLI commands into the nxfacts fact model.
//
// Device output is not schema-stable: the same logical field can be a list on one firmware
// and a single object on another, keys go missing, and numbers arrive as strings. Every
// parser here guards its input with Validate and the row normalizer before reading it, and
// a malformed row costs a diagnostic, never the run.
//
// # Subsets
//
// Facts are grouped into subsets (default, config, interfaces, routing). Each subset names
// the commands it needs and turns their decoded responses into a Fragment. Gatherer resolves
// the requested subset tokens, fetches command output through a Runner, populates each
// subset in isolation and merges the fragments into one prefixed FactMap.
//
// # Runner
//
// Runner is the only dependency on the device. The dispatch package provides an SSH
// implementation and a fixture-directory implementation used by tests and offline runs.
package facts
