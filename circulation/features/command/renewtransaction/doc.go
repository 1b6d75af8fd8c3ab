// Package renewtransaction extends the due date of an active loan, subject to the renewal cap and to
// the reservations other students hold on the book.
package renewtransaction
