package core

import (
	"cmp"
	"slices"
	"time"
)

// ReservationStatus of a hold. EXPIRED is derived lazily, see Reservation.EffectiveStatus.
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusFulfilled ReservationStatus = "FULFILLED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
	ReservationStatusExpired   ReservationStatus = "EXPIRED"
)

// Reservation is a queued hold of a student on a book.
type Reservation struct {
	ReservationID ReservationIDString
	BookID        BookIDString
	StudentID     StudentIDString
	Status        ReservationStatus
	ReservedAt    time.Time
	ExpiresAt     time.Time // zero means it never expires
	ClosedAt      time.Time
	TransactionID TransactionIDString // set when fulfilled
}

// EffectiveStatus is Status with EXPIRED derived at read time.
func (r Reservation) EffectiveStatus(now time.Time) ReservationStatus {
	if r.Status == ReservationStatusPending && !r.ExpiresAt.IsZero() && !now.Before(r.ExpiresAt) {
		return ReservationStatusExpired
	}

	return r.Status
}

// IsPendingAt reports whether the reservation still holds a place in the queue at now.
func (r Reservation) IsPendingAt(now time.Time) bool {
	return r.EffectiveStatus(now) == ReservationStatusPending
}

/*** Reservation Gate ***/

// PendingReservations returns the FIFO queue of a book: pending, unexpired holds ordered by ReservedAt.
func (l *Ledger) PendingReservations(bookID BookIDString, now time.Time) []Reservation {
	queue := make([]Reservation, 0)

	for _, r := range l.reservations {
		if r.BookID == bookID && r.IsPendingAt(now) {
			queue = append(queue, *r)
		}
	}

	slices.SortFunc(queue, func(a, b Reservation) int {
		if c := a.ReservedAt.Compare(b.ReservedAt); c != 0 {
			return c
		}

		return cmp.Compare(a.ReservationID, b.ReservationID)
	})

	return queue
}

// BlocksRenewal reports whether a student other than borrowerID holds a pending reservation on the book.
func (l *Ledger) BlocksRenewal(bookID BookIDString, borrowerID StudentIDString, now time.Time) bool {
	for _, r := range l.PendingReservations(bookID, now) {
		if r.StudentID != borrowerID {
			return true
		}
	}

	return false
}

// QueueAheadOf counts the pending reservations of other students placed before the given time.
// Those students have priority over a borrow request of studentID created at before.
func (l *Ledger) QueueAheadOf(bookID BookIDString, studentID StudentIDString, before time.Time, now time.Time) int {
	count := 0

	for _, r := range l.PendingReservations(bookID, now) {
		if r.StudentID != studentID && r.ReservedAt.Before(before) {
			count++
		}
	}

	return count
}

// PendingReservationOf returns the pending reservation of studentID on the book, if there is one.
func (l *Ledger) PendingReservationOf(bookID BookIDString, studentID StudentIDString, now time.Time) (Reservation, bool) {
	for _, r := range l.PendingReservations(bookID, now) {
		if r.StudentID == studentID {
			return r, true
		}
	}

	return Reservation{}, false
}
