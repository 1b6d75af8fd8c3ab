package core

import (
	"time"
)

const (
	BookReservedEventType         = "BookReserved"
	ReservationCancelledEventType = "ReservationCancelled"
	ReservationFulfilledEventType = "ReservationFulfilled"
)

// BookReserved represents a student queueing a hold on a book.
type BookReserved struct {
	ReservationID ReservationIDString
	BookID        BookIDString
	StudentID     StudentIDString
	ExpiresAt     time.Time
	ReservedBy    string
	OccurredAt    OccurredAtTS
}

// BuildBookReserved creates a new BookReserved event.
func BuildBookReserved(
	reservationID ReservationIDString,
	bookID BookIDString,
	studentID StudentIDString,
	expiresAt time.Time,
	reservedBy string,
	occurredAt time.Time,
) BookReserved {

	return BookReserved{
		ReservationID: reservationID,
		BookID:        bookID,
		StudentID:     studentID,
		ExpiresAt:     ToOccurredAt(expiresAt),
		ReservedBy:    reservedBy,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

func (e BookReserved) EventType() EventTypeString {
	return BookReservedEventType
}

func (e BookReserved) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// ReservationCancelled represents a hold withdrawn by its owner or by staff.
type ReservationCancelled struct {
	ReservationID ReservationIDString
	BookID        BookIDString
	StudentID     StudentIDString
	Reason        string
	CancelledBy   string
	OccurredAt    OccurredAtTS
}

// BuildReservationCancelled creates a new ReservationCancelled event.
func BuildReservationCancelled(
	reservationID ReservationIDString,
	bookID BookIDString,
	studentID StudentIDString,
	reason string,
	cancelledBy string,
	occurredAt time.Time,
) ReservationCancelled {

	return ReservationCancelled{
		ReservationID: reservationID,
		BookID:        bookID,
		StudentID:     studentID,
		Reason:        reason,
		CancelledBy:   cancelledBy,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

func (e ReservationCancelled) EventType() EventTypeString {
	return ReservationCancelledEventType
}

func (e ReservationCancelled) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// ReservationFulfilled represents a hold being consumed by the approval of its owner's borrow request.
type ReservationFulfilled struct {
	ReservationID ReservationIDString
	BookID        BookIDString
	StudentID     StudentIDString
	TransactionID TransactionIDString
	OccurredAt    OccurredAtTS
}

// BuildReservationFulfilled creates a new ReservationFulfilled event.
func BuildReservationFulfilled(
	reservationID ReservationIDString,
	bookID BookIDString,
	studentID StudentIDString,
	transactionID TransactionIDString,
	occurredAt time.Time,
) ReservationFulfilled {

	return ReservationFulfilled{
		ReservationID: reservationID,
		BookID:        bookID,
		StudentID:     studentID,
		TransactionID: transactionID,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

func (e ReservationFulfilled) EventType() EventTypeString {
	return ReservationFulfilledEventType
}

func (e ReservationFulfilled) HasOccurredAt() time.Time {
	return e.OccurredAt
}
