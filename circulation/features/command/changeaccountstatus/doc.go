// Package changeaccountstatus activates, deactivates or suspends a student account.
// Only ACTIVE accounts may borrow or reserve.
package changeaccountstatus
