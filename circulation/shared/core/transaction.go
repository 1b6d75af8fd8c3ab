package core

import (
	"time"
)

// TransactionStatus of a borrowing transaction. OVERDUE is never stored, see Transaction.DisplayStatus.
type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "PENDING"
	TransactionStatusActive   TransactionStatus = "ACTIVE"
	TransactionStatusReturned TransactionStatus = "RETURNED"
	TransactionStatusRejected TransactionStatus = "REJECTED"
	TransactionStatusOverdue  TransactionStatus = "OVERDUE"
)

// ReturnCondition of a returned copy.
type ReturnCondition string

const (
	ReturnGood    ReturnCondition = "GOOD"
	ReturnDamaged ReturnCondition = "DAMAGED"
	ReturnLost    ReturnCondition = "LOST"
)

func (c ReturnCondition) IsValid() bool {
	switch c {
	case ReturnGood, ReturnDamaged, ReturnLost:
		return true
	default:
		return false
	}
}

// Transaction is one student's borrow lifecycle for one book.
// Timestamps are zero until the corresponding transition happened.
type Transaction struct {
	TransactionID   TransactionIDString
	BookID          BookIDString
	StudentID       StudentIDString
	Status          TransactionStatus
	RequestedDays   int
	DueDate         time.Time
	RenewalCount    int
	BorrowedAt      time.Time // when the request was created
	ApprovedAt      time.Time
	RejectedAt      time.Time
	ReturnedAt      time.Time
	RejectionReason string
	Notes           string
	Condition       ReturnCondition
	RequestedBy     string
	ApprovedBy      string
	RejectedBy      string
	ReturnedBy      string
}

// IsOverdue reports whether an ACTIVE loan is past its due date at now.
func (t Transaction) IsOverdue(now time.Time) bool {
	return t.Status == TransactionStatusActive && t.DueDate.Before(now)
}

// DisplayStatus is Status with OVERDUE derived at read time.
func (t Transaction) DisplayStatus(now time.Time) TransactionStatus {
	if t.IsOverdue(now) {
		return TransactionStatusOverdue
	}

	return t.Status
}

// IsOpen reports whether the transaction counts against the borrowing limit.
func (t Transaction) IsOpen() bool {
	return t.Status == TransactionStatusPending || t.Status == TransactionStatusActive
}

func (t *Transaction) addNotes(notes string) {
	if notes != "" {
		t.Notes = notes
	}
}
