// Package memoryengine is an in-process implementation of the event store contract.
//
// It applies the same Filter semantics as the postgresengine (event types OR-ed, predicates
// matched against top-level string fields of the JSON payload, FilterItem(s) OR-ed) and the same
// optimistic append check, so command handlers behave identically on both engines.
// It is meant for tests, local demos and single-process tools; nothing is persisted.
package memoryengine
