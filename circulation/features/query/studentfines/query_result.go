package studentfines

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
)

// FineInfo is one fine of the student.
type FineInfo struct {
	FineID        core.FineIDString
	TransactionID core.TransactionIDString
	BookID        core.BookIDString
	Amount        decimal.Decimal
	DaysOverdue   int
	Reason        string
	Status        core.FineStatus
	IssuedAt      time.Time
	SettledAt     time.Time // PaidAt or WaivedAt, zero while UNPAID
	WaiverReason  string
}

// StudentFines represents the query result, fines are ordered by issue time.
type StudentFines struct {
	StudentID      core.StudentIDString
	Fines          []FineInfo
	UnpaidCount    int
	UnpaidTotal    decimal.Decimal
	SequenceNumber uint
}

// GetSequenceNumber returns the highest sequence number of the events the result is based on.
func (r StudentFines) GetSequenceNumber() uint {
	return r.SequenceNumber
}
