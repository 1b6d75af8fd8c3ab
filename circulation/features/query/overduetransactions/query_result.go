package overduetransactions

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
)

// OverdueLoan is one overdue loan with its projected fine.
type OverdueLoan struct {
	TransactionID core.TransactionIDString
	BookID        core.BookIDString
	Title         string
	StudentID     core.StudentIDString
	StudentName   string
	DueDate       time.Time
	DaysOverdue   int
	ProjectedFine decimal.Decimal
}

// OverdueTransactions represents the query result, the most overdue loan comes first.
type OverdueTransactions struct {
	Loans               []OverdueLoan
	Count               int
	TotalProjectedFines decimal.Decimal
	SequenceNumber      uint
}

// GetSequenceNumber returns the highest sequence number of the events the result is based on.
func (r OverdueTransactions) GetSequenceNumber() uint {
	return r.SequenceNumber
}
