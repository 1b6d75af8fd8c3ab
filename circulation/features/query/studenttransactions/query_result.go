package studenttransactions

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
)

// TransactionInfo is one transaction as shown to the student.
type TransactionInfo struct {
	TransactionID   core.TransactionIDString
	BookID          core.BookIDString
	Status          core.TransactionStatus // OVERDUE is derived
	RequestedDays   int
	DueDate         time.Time
	RenewalCount    int
	DaysOverdue     int
	BorrowedAt      time.Time
	ApprovedAt      time.Time
	ReturnedAt      time.Time
	RejectionReason string
	Condition       core.ReturnCondition
}

// Counts holds the number of transactions per display status.
type Counts struct {
	Pending  int
	Active   int
	Overdue  int
	Returned int
	Rejected int
}

// StudentTransactions represents the query result, transactions are ordered by creation time.
type StudentTransactions struct {
	StudentID      core.StudentIDString
	Transactions   []TransactionInfo
	Counts         Counts
	Count          int
	SequenceNumber uint
}

// GetSequenceNumber returns the highest sequence number of the events the result is based on.
func (r StudentTransactions) GetSequenceNumber() uint {
	return r.SequenceNumber
}
