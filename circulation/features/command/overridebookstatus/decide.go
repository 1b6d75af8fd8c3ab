package overridebookstatus

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/eventstore"
)

// Decide implements the business logic of overriding a book's status label.
// This is a pure function: history must contain the book's inventory events (see BuildEventFilter).
//
// Business Rules:
//
//	GIVEN: a book in circulation
//	WHEN: OverrideBookStatus is received
//	THEN: BookCopyStatusOverridden
//	ERROR: FORBIDDEN if the actor is not staff
//	ERROR: NOT_FOUND if the book was never added
//	IDEMPOTENCY: setting the status the book already has is a no-op
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if !command.Actor.IsStaff() {
		return core.ErrorDecision(core.ErrStaffOnly("override the status of a book"))
	}

	book, ok := core.ProjectLedger(history).Book(command.BookID)
	if !ok {
		return core.ErrorDecision(core.ErrBookNotFoundFor(command.BookID))
	}

	if book.Status == command.Status {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(
		core.BuildBookCopyStatusOverridden(
			command.BookID,
			command.Status,
			command.Reason,
			command.Actor.UserID,
			command.OccurredAt,
		),
	)
}

// BuildEventFilter selects the inventory events of the book.
func BuildEventFilter(bookID core.BookIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookCopyAddedToCirculationEventType,
			core.BookCopyStatusOverriddenEventType,
			core.BorrowRequestApprovedEventType,
			core.BookCopyReturnedEventType,
		).
		AndAnyPredicateOf(eventstore.P("BookID", bookID)).
		Finalize()
}
