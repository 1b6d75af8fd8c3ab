package core

import (
	"time"
)

const (
	BookCopyAddedToCirculationEventType = "BookCopyAddedToCirculation"
	BookCopyStatusOverriddenEventType   = "BookCopyStatusOverridden"
	BookHistoryNotedEventType           = "BookHistoryNoted"
)

// BookCopyAddedToCirculation represents a title entering the inventory with Quantity physical copies.
type BookCopyAddedToCirculation struct {
	BookID     BookIDString
	Barcode    string
	ISBN       string
	Title      string
	Authors    string
	Quantity   int
	AddedBy    string
	OccurredAt OccurredAtTS
}

// BuildBookCopyAddedToCirculation creates a new BookCopyAddedToCirculation event.
func BuildBookCopyAddedToCirculation(
	bookID BookIDString,
	barcode string,
	isbn string,
	title string,
	authors string,
	quantity int,
	addedBy string,
	occurredAt time.Time,
) BookCopyAddedToCirculation {

	return BookCopyAddedToCirculation{
		BookID:     bookID,
		Barcode:    barcode,
		ISBN:       isbn,
		Title:      title,
		Authors:    authors,
		Quantity:   quantity,
		AddedBy:    addedBy,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e BookCopyAddedToCirculation) EventType() EventTypeString {
	return BookCopyAddedToCirculationEventType
}

func (e BookCopyAddedToCirculation) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// BookCopyStatusOverridden represents staff setting the coarse status label of a book.
// It never touches the availability counters.
type BookCopyStatusOverridden struct {
	BookID       BookIDString
	Status       BookStatus
	Reason       string
	OverriddenBy string
	OccurredAt   OccurredAtTS
}

// BuildBookCopyStatusOverridden creates a new BookCopyStatusOverridden event.
func BuildBookCopyStatusOverridden(
	bookID BookIDString,
	status BookStatus,
	reason string,
	overriddenBy string,
	occurredAt time.Time,
) BookCopyStatusOverridden {

	return BookCopyStatusOverridden{
		BookID:       bookID,
		Status:       status,
		Reason:       reason,
		OverriddenBy: overriddenBy,
		OccurredAt:   ToOccurredAt(occurredAt),
	}
}

func (e BookCopyStatusOverridden) EventType() EventTypeString {
	return BookCopyStatusOverriddenEventType
}

func (e BookCopyStatusOverridden) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// BookHistoryNoted records a remark in a book's history, e.g. a copy returned damaged or lost.
type BookHistoryNoted struct {
	BookID        BookIDString
	TransactionID TransactionIDString
	StudentID     StudentIDString
	Condition     ReturnCondition
	Note          string
	OccurredAt    OccurredAtTS
}

// BuildBookHistoryNoted creates a new BookHistoryNoted event.
func BuildBookHistoryNoted(
	bookID BookIDString,
	transactionID TransactionIDString,
	studentID StudentIDString,
	condition ReturnCondition,
	note string,
	occurredAt time.Time,
) BookHistoryNoted {

	return BookHistoryNoted{
		BookID:        bookID,
		TransactionID: transactionID,
		StudentID:     studentID,
		Condition:     condition,
		Note:          note,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

func (e BookHistoryNoted) EventType() EventTypeString {
	return BookHistoryNotedEventType
}

func (e BookHistoryNoted) HasOccurredAt() time.Time {
	return e.OccurredAt
}
