// Package core holds the pure circulation domain: events, the ledger projection, fine computation,
// the eligibility evaluator and the reservation gate.
//
// Nothing in here performs I/O. Command features query events, project them with ProjectLedger,
// and decide on the resulting state together with the Policy in effect at decision time.
package core
