// Package studenttransactions implements the Student Transactions query use case.
//
// It lists all borrowing transactions of one student with the display status derived at query time,
// so an ACTIVE loan past its due date shows as OVERDUE, plus the counts per display status.
package studenttransactions
