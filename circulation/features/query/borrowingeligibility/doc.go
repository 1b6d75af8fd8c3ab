// Package borrowingeligibility implements the Borrowing Eligibility query use case.
//
// It answers whether a student could request a book right now, and if not, why. The verdict comes
// from the same Eligibility Evaluator the Create Borrow Request command uses, so a student sees the
// exact reason the request would be refused before making it.
//
// This is a read-only operation. It reads with eventual consistency and generates no events.
package borrowingeligibility
