package core

import (
	"time"
)

const (
	BorrowRequestCreatedEventType  = "BorrowRequestCreated"
	BorrowRequestApprovedEventType = "BorrowRequestApproved"
	BorrowRequestRejectedEventType = "BorrowRequestRejected"
	LoanRenewedEventType           = "LoanRenewed"
	BookCopyReturnedEventType      = "BookCopyReturned"
)

// All transaction events carry TransactionID, BookID and StudentID, so they can be selected
// by any of the three.

// BorrowRequestCreated represents a new PENDING transaction. DueDate is provisional.
type BorrowRequestCreated struct {
	TransactionID TransactionIDString
	BookID        BookIDString
	StudentID     StudentIDString
	RequestedDays int
	DueDate       time.Time
	Notes         string
	RequestedBy   string
	OccurredAt    OccurredAtTS
}

// BuildBorrowRequestCreated creates a new BorrowRequestCreated event.
func BuildBorrowRequestCreated(
	transactionID TransactionIDString,
	bookID BookIDString,
	studentID StudentIDString,
	requestedDays int,
	dueDate time.Time,
	notes string,
	requestedBy string,
	occurredAt time.Time,
) BorrowRequestCreated {

	return BorrowRequestCreated{
		TransactionID: transactionID,
		BookID:        bookID,
		StudentID:     studentID,
		RequestedDays: requestedDays,
		DueDate:       ToOccurredAt(dueDate),
		Notes:         notes,
		RequestedBy:   requestedBy,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

func (e BorrowRequestCreated) EventType() EventTypeString {
	return BorrowRequestCreatedEventType
}

func (e BorrowRequestCreated) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// BorrowRequestApproved represents staff approval. It consumes one unit of availability.
type BorrowRequestApproved struct {
	TransactionID TransactionIDString
	BookID        BookIDString
	StudentID     StudentIDString
	DueDate       time.Time
	Notes         string
	ApprovedBy    string
	OccurredAt    OccurredAtTS
}

// BuildBorrowRequestApproved creates a new BorrowRequestApproved event.
func BuildBorrowRequestApproved(
	transactionID TransactionIDString,
	bookID BookIDString,
	studentID StudentIDString,
	dueDate time.Time,
	notes string,
	approvedBy string,
	occurredAt time.Time,
) BorrowRequestApproved {

	return BorrowRequestApproved{
		TransactionID: transactionID,
		BookID:        bookID,
		StudentID:     studentID,
		DueDate:       ToOccurredAt(dueDate),
		Notes:         notes,
		ApprovedBy:    approvedBy,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

func (e BorrowRequestApproved) EventType() EventTypeString {
	return BorrowRequestApprovedEventType
}

func (e BorrowRequestApproved) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// BorrowRequestRejected represents staff rejection. It has no inventory effect.
type BorrowRequestRejected struct {
	TransactionID TransactionIDString
	BookID        BookIDString
	StudentID     StudentIDString
	Reason        string
	Notes         string
	RejectedBy    string
	OccurredAt    OccurredAtTS
}

// BuildBorrowRequestRejected creates a new BorrowRequestRejected event.
func BuildBorrowRequestRejected(
	transactionID TransactionIDString,
	bookID BookIDString,
	studentID StudentIDString,
	reason string,
	notes string,
	rejectedBy string,
	occurredAt time.Time,
) BorrowRequestRejected {

	return BorrowRequestRejected{
		TransactionID: transactionID,
		BookID:        bookID,
		StudentID:     studentID,
		Reason:        reason,
		Notes:         notes,
		RejectedBy:    rejectedBy,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

func (e BorrowRequestRejected) EventType() EventTypeString {
	return BorrowRequestRejectedEventType
}

func (e BorrowRequestRejected) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// LoanRenewed represents an extension of an ACTIVE loan. RenewalCount is the count after renewal.
type LoanRenewed struct {
	TransactionID   TransactionIDString
	BookID          BookIDString
	StudentID       StudentIDString
	PreviousDueDate time.Time
	NewDueDate      time.Time
	RenewalCount    int
	Notes           string
	RenewedBy       string
	OccurredAt      OccurredAtTS
}

// BuildLoanRenewed creates a new LoanRenewed event.
func BuildLoanRenewed(
	transactionID TransactionIDString,
	bookID BookIDString,
	studentID StudentIDString,
	previousDueDate time.Time,
	newDueDate time.Time,
	renewalCount int,
	notes string,
	renewedBy string,
	occurredAt time.Time,
) LoanRenewed {

	return LoanRenewed{
		TransactionID:   transactionID,
		BookID:          bookID,
		StudentID:       studentID,
		PreviousDueDate: ToOccurredAt(previousDueDate),
		NewDueDate:      ToOccurredAt(newDueDate),
		RenewalCount:    renewalCount,
		Notes:           notes,
		RenewedBy:       renewedBy,
		OccurredAt:      ToOccurredAt(occurredAt),
	}
}

func (e LoanRenewed) EventType() EventTypeString {
	return LoanRenewedEventType
}

func (e LoanRenewed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// BookCopyReturned represents the physical return of a borrowed copy in the given condition.
type BookCopyReturned struct {
	TransactionID TransactionIDString
	BookID        BookIDString
	StudentID     StudentIDString
	Condition     ReturnCondition
	Notes         string
	ReceivedBy    string
	OccurredAt    OccurredAtTS
}

// BuildBookCopyReturned creates a new BookCopyReturned event.
func BuildBookCopyReturned(
	transactionID TransactionIDString,
	bookID BookIDString,
	studentID StudentIDString,
	condition ReturnCondition,
	notes string,
	receivedBy string,
	occurredAt time.Time,
) BookCopyReturned {

	return BookCopyReturned{
		TransactionID: transactionID,
		BookID:        bookID,
		StudentID:     studentID,
		Condition:     condition,
		Notes:         notes,
		ReceivedBy:    receivedBy,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

func (e BookCopyReturned) EventType() EventTypeString {
	return BookCopyReturnedEventType
}

func (e BookCopyReturned) HasOccurredAt() time.Time {
	return e.OccurredAt
}
