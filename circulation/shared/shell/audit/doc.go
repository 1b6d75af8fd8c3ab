// Package audit records one human readable entry per successful mutating operation.
//
// Sinks are fire and forget from the caller's point of view: Emit logs a failing sink and carries on,
// because the operation it describes is already committed.
package audit
