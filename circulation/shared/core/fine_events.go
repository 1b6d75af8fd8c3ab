package core

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	FineIssuedEventType = "FineIssued"
	FinePaidEventType   = "FinePaid"
	FineWaivedEventType = "FineWaived"
)

// FineIssued represents an UNPAID fine for an overdue return.
type FineIssued struct {
	FineID        FineIDString
	TransactionID TransactionIDString
	BookID        BookIDString
	StudentID     StudentIDString
	Amount        decimal.Decimal
	DaysOverdue   int
	Reason        string
	OccurredAt    OccurredAtTS
}

// BuildFineIssued creates a new FineIssued event.
func BuildFineIssued(
	fineID FineIDString,
	transactionID TransactionIDString,
	bookID BookIDString,
	studentID StudentIDString,
	amount decimal.Decimal,
	daysOverdue int,
	reason string,
	occurredAt time.Time,
) FineIssued {

	return FineIssued{
		FineID:        fineID,
		TransactionID: transactionID,
		BookID:        bookID,
		StudentID:     studentID,
		Amount:        amount,
		DaysOverdue:   daysOverdue,
		Reason:        reason,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

func (e FineIssued) EventType() EventTypeString {
	return FineIssuedEventType
}

func (e FineIssued) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// FinePaid represents the full payment of a fine.
type FinePaid struct {
	FineID        FineIDString
	TransactionID TransactionIDString
	StudentID     StudentIDString
	Amount        decimal.Decimal
	ReceivedBy    string
	OccurredAt    OccurredAtTS
}

// BuildFinePaid creates a new FinePaid event.
func BuildFinePaid(
	fineID FineIDString,
	transactionID TransactionIDString,
	studentID StudentIDString,
	amount decimal.Decimal,
	receivedBy string,
	occurredAt time.Time,
) FinePaid {

	return FinePaid{
		FineID:        fineID,
		TransactionID: transactionID,
		StudentID:     studentID,
		Amount:        amount,
		ReceivedBy:    receivedBy,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

func (e FinePaid) EventType() EventTypeString {
	return FinePaidEventType
}

func (e FinePaid) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// FineWaived represents staff waiving a fine.
type FineWaived struct {
	FineID        FineIDString
	TransactionID TransactionIDString
	StudentID     StudentIDString
	Reason        string
	WaivedBy      string
	OccurredAt    OccurredAtTS
}

// BuildFineWaived creates a new FineWaived event.
func BuildFineWaived(
	fineID FineIDString,
	transactionID TransactionIDString,
	studentID StudentIDString,
	reason string,
	waivedBy string,
	occurredAt time.Time,
) FineWaived {

	return FineWaived{
		FineID:        fineID,
		TransactionID: transactionID,
		StudentID:     studentID,
		Reason:        reason,
		WaivedBy:      waivedBy,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

func (e FineWaived) EventType() EventTypeString {
	return FineWaivedEventType
}

func (e FineWaived) HasOccurredAt() time.Time {
	return e.OccurredAt
}
