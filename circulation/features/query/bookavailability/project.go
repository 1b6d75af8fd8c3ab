package bookavailability

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/eventstore"
)

// ProjectBookAvailability implements the query projection logic for a book's availability.
//
// Query Logic:
//
//	GIVEN: a book in circulation
//	WHEN: its availability at the query time is requested
//	THEN: the inventory record and the reservation queue are returned
//	INCLUDES: pending reservations not yet expired, oldest first
//	EXCLUDES: fulfilled, cancelled and expired reservations
//
// found is false when the book was never added to circulation.
func ProjectBookAvailability(history core.DomainEvents, query Query) (result BookAvailability, found bool) {
	ledger := core.ProjectLedger(history)

	book, ok := ledger.Book(query.BookID)
	if !ok {
		return BookAvailability{BookID: query.BookID}, false
	}

	result = BookAvailability{
		BookID:            book.BookID,
		Barcode:           book.Barcode,
		ISBN:              book.ISBN,
		Title:             book.Title,
		Authors:           book.Authors,
		Status:            book.Status,
		TotalQuantity:     book.TotalQuantity,
		AvailableQuantity: book.AvailableQuantity,
		CanBeBorrowed:     book.CanBeBorrowed(),
		History:           book.History,

		QuantityMismatches: book.QuantityMismatches,
	}

	queue := ledger.PendingReservations(query.BookID, query.At)
	result.Queue = make([]QueuedReservation, 0, len(queue))

	for i, r := range queue {
		result.Queue = append(result.Queue, QueuedReservation{
			Position:      i + 1,
			ReservationID: r.ReservationID,
			StudentID:     r.StudentID,
			ReservedAt:    r.ReservedAt,
			ExpiresAt:     r.ExpiresAt,
		})
	}

	return result, true
}

// BuildEventFilter selects the inventory and reservation events of the book.
func BuildEventFilter(bookID core.BookIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookCopyAddedToCirculationEventType,
			core.BookCopyStatusOverriddenEventType,
			core.BookHistoryNotedEventType,
			core.BorrowRequestApprovedEventType,
			core.BookCopyReturnedEventType,
			core.BookReservedEventType,
			core.ReservationCancelledEventType,
			core.ReservationFulfilledEventType,
		).
		AndAnyPredicateOf(eventstore.P("BookID", bookID)).
		Finalize()
}
