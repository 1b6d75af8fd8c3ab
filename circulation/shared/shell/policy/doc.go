// Package policy is the Policy Store: a key/value source of the tunable circulation settings
// (loan period, renewals, fines, grace period, borrowing limit, reservation expiry).
//
// Settings are read at decision time, never cached, so a changed value applies to the next
// transition only. Missing or malformed values fall back to core.DefaultPolicy.
package policy
