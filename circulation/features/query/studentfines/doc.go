// Package studentfines implements the Student Fines query use case.
//
// It lists the Fine Ledger records of one student and the total amount still UNPAID,
// which is what blocks the student from borrowing.
package studentfines
