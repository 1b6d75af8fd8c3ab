package placereservation

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/eventstore"
)

// Decide implements the business logic of placing a reservation.
// This is a pure function: history must contain the book, the student's account and transactions,
// the book's reservations and earlier uses of the reservation ID (see BuildEventFilter).
//
// Business Rules:
//
//	GIVEN: a book and an ACTIVE student
//	WHEN: PlaceReservation is received
//	THEN: BookReserved, expiring policy.ReservationExpiryDays after now
//	ERROR: FORBIDDEN if a student reserves on behalf of someone else
//	ERROR: VALIDATION_ERROR if the reservation ID belongs to a different reservation
//	ERROR: BOOK_NOT_FOUND if the book was never added
//	ERROR: NOT_FOUND if the student is not registered
//	ERROR: ACCOUNT_INACTIVE if the account is not ACTIVE
//	ERROR: ALREADY_BORROWED if the student has a pending request or an active loan of the book
//	ERROR: ALREADY_RESERVED if the student already queues for the book
//	IDEMPOTENCY: the same reservation ID for the same student and book is a no-op
func Decide(history core.DomainEvents, command Command, policy core.Policy) core.DecisionResult {
	if !command.Actor.ActsFor(command.StudentID) {
		return core.ErrorDecision(core.ErrNotOwner("reservations"))
	}

	ledger := core.ProjectLedger(history)
	now := command.OccurredAt

	if existing, ok := ledger.Reservation(command.ReservationID); ok {
		if existing.StudentID == command.StudentID && existing.BookID == command.BookID {
			return core.IdempotentDecision()
		}

		return core.ErrorDecision(core.ErrValidationf("The reservation ID %s is already in use", command.ReservationID))
	}

	if _, ok := ledger.Book(command.BookID); !ok {
		return core.ErrorDecision(core.ErrBookNotFoundFor(command.BookID))
	}

	student, ok := ledger.Student(command.StudentID)
	if !ok {
		return core.ErrorDecision(core.ErrStudentNotFoundFor(command.StudentID))
	}

	if student.AccountStatus != core.AccountActive {
		return core.ErrorDecision(core.ErrAccountInactiveWith(student.AccountStatus))
	}

	for _, transaction := range ledger.TransactionsOfStudent(command.StudentID) {
		if transaction.BookID == command.BookID && transaction.IsOpen() {
			return core.ErrorDecision(core.ErrAlreadyBorrowedWith(transaction.Status))
		}
	}

	if _, found := ledger.PendingReservationOf(command.BookID, command.StudentID, now); found {
		return core.ErrorDecision(core.ErrAlreadyReservedByStudent())
	}

	return core.SuccessDecision(
		core.BuildBookReserved(
			command.ReservationID,
			command.BookID,
			command.StudentID,
			core.AddDays(now, policy.ReservationExpiryDays),
			command.Actor.UserID,
			now,
		),
	)
}

// BuildEventFilter selects everything Decide needs. A reservation of another student for the same book
// makes the append conflict, which keeps the queue order consistent.
func BuildEventFilter(
	reservationID core.ReservationIDString,
	bookID core.BookIDString,
	studentID core.StudentIDString,
) eventstore.Filter {

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookCopyAddedToCirculationEventType,
			core.BookReservedEventType,
			core.ReservationCancelledEventType,
			core.ReservationFulfilledEventType,
		).
		AndAnyPredicateOf(eventstore.P("BookID", bookID)).
		OrMatching().
		AnyEventTypeOfAll(append(
			[]string{core.StudentRegisteredEventType, core.StudentAccountStatusChangedEventType},
			shell.TransactionEventTypes...,
		)).
		AndAnyPredicateOf(eventstore.P("StudentID", studentID)).
		OrMatching().
		AnyEventTypeOf(core.BookReservedEventType).
		AndAnyPredicateOf(eventstore.P("ReservationID", reservationID)).
		Finalize()
}
