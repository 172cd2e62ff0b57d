// Package app wires a resolved configuration to the estimation pipeline:
// it fits each configured analysis through the engine, renders the
// resulting index table, and optionally records the run in the history
// store. The CLI layer owns flag parsing and engine construction; this
// package owns execution order and output routing.
package app
