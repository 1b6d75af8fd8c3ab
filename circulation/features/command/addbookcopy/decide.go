package addbookcopy

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/eventstore"
)

// Decide implements the business logic of adding a book to circulation.
// This is a pure function: history must contain the events that added a book with the same ID or
// barcode (see BuildEventFilter).
//
// Business Rules:
//
//	GIVEN: a book ID and a barcode that are not in use
//	WHEN: AddBookCopy is received
//	THEN: BookCopyAddedToCirculation with all copies available
//	ERROR: FORBIDDEN if the actor is not staff
//	ERROR: VALIDATION_ERROR if the book ID or the barcode belongs to a different book
//	IDEMPOTENCY: adding the same book ID with the same barcode again is a no-op
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if !command.Actor.IsStaff() {
		return core.ErrorDecision(core.ErrStaffOnly("add books"))
	}

	for _, event := range history {
		added, ok := event.(core.BookCopyAddedToCirculation)
		if !ok {
			continue
		}

		if added.BookID == command.BookID && added.Barcode == command.Barcode {
			return core.IdempotentDecision()
		}

		if added.BookID == command.BookID {
			return core.ErrorDecision(core.ErrValidationf("The book ID %s is already in use", command.BookID))
		}

		return core.ErrorDecision(core.ErrValidationf("The barcode %s is already assigned to book %s", command.Barcode, added.BookID))
	}

	return core.SuccessDecision(
		core.BuildBookCopyAddedToCirculation(
			command.BookID,
			command.Barcode,
			command.ISBN,
			command.Title,
			command.Authors,
			command.Quantity,
			command.Actor.UserID,
			command.OccurredAt,
		),
	)
}

// BuildEventFilter selects earlier additions with the same book ID or barcode.
func BuildEventFilter(bookID core.BookIDString, barcode string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BookCopyAddedToCirculationEventType).
		AndAnyPredicateOf(eventstore.P("BookID", bookID), eventstore.P("Barcode", barcode)).
		Finalize()
}
