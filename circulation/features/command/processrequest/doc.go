// Package processrequest implements the staff decision on a pending borrow request: approving it hands
// out a copy (subject to availability and the reservation queue), rejecting it closes the request.
package processrequest
