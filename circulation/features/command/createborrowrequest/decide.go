package createborrowrequest

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/eventstore"
)

// Decide implements the business logic of creating a borrow request.
// This is a pure function: history must contain the book's inventory events, all events of the student
// and any earlier use of the transaction ID (see BuildEventFilter). command.BookID must be resolved.
//
// Business Rules:
//
//	GIVEN: a book and a registered student
//	WHEN: CreateBorrowRequest is received
//	THEN: BorrowRequestCreated with DueDate = now + requestedDays (provisional)
//	ERROR: FORBIDDEN if a student asks on behalf of someone else
//	ERROR: BOOK_NOT_FOUND if the book was never added
//	ERROR: NOT_FOUND if the student is not registered
//	ERROR: the first failing eligibility check (see core.Evaluate)
//	ERROR: VALIDATION_ERROR if the transaction ID belongs to a different request
//	IDEMPOTENCY: the same transaction ID for the same student, book and loan period is a no-op, notes are not compared
func Decide(history core.DomainEvents, command Command, policy core.Policy) core.DecisionResult {
	if !command.Actor.ActsFor(command.StudentID) {
		return core.ErrorDecision(core.ErrNotOwner("borrow requests"))
	}

	ledger := core.ProjectLedger(history)

	requestedDays := EffectiveRequestedDays(command.RequestedDays, policy)

	if existing, ok := ledger.Transaction(command.TransactionID); ok {
		if existing.StudentID == command.StudentID &&
			existing.BookID == command.BookID &&
			existing.RequestedDays == requestedDays {

			return core.IdempotentDecision()
		}

		return core.ErrorDecision(core.ErrValidationf("The transaction ID %s is already in use", command.TransactionID))
	}

	if _, ok := ledger.Book(command.BookID); !ok {
		return core.ErrorDecision(core.ErrBookNotFoundFor(command.BookID))
	}

	if _, ok := ledger.Student(command.StudentID); !ok {
		return core.ErrorDecision(core.ErrStudentNotFoundFor(command.StudentID))
	}

	eligibility := core.Evaluate(ledger, command.StudentID, command.BookID, command.OccurredAt, policy)
	if !eligibility.Eligible {
		return core.ErrorDecision(eligibility.Err)
	}

	return core.SuccessDecision(
		core.BuildBorrowRequestCreated(
			command.TransactionID,
			command.BookID,
			command.StudentID,
			requestedDays,
			core.AddDays(command.OccurredAt, requestedDays),
			command.Notes,
			command.Actor.UserID,
			command.OccurredAt,
		),
	)
}

// EffectiveRequestedDays applies the policy's default loan period when no period was requested.
func EffectiveRequestedDays(requestedDays int, policy core.Policy) int {
	if requestedDays == 0 {
		return policy.LoanPeriodDays
	}

	return requestedDays
}

// BuildEventFilter selects everything Decide needs: the book's inventory events, the student's account,
// transaction and fine events, and earlier uses of the transaction ID.
func BuildEventFilter(
	transactionID core.TransactionIDString,
	bookID core.BookIDString,
	studentID core.StudentIDString,
) eventstore.Filter {

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookCopyAddedToCirculationEventType,
			core.BookCopyStatusOverriddenEventType,
			core.BorrowRequestApprovedEventType,
			core.BookCopyReturnedEventType,
		).
		AndAnyPredicateOf(eventstore.P("BookID", bookID)).
		OrMatching().
		AnyEventTypeOf(
			core.StudentRegisteredEventType,
			core.StudentAccountStatusChangedEventType,
			core.BorrowRequestCreatedEventType,
			core.BorrowRequestApprovedEventType,
			core.BorrowRequestRejectedEventType,
			core.LoanRenewedEventType,
			core.BookCopyReturnedEventType,
			core.FineIssuedEventType,
			core.FinePaidEventType,
			core.FineWaivedEventType,
		).
		AndAnyPredicateOf(eventstore.P("StudentID", studentID)).
		OrMatching().
		AnyEventTypeOf(core.BorrowRequestCreatedEventType).
		AndAnyPredicateOf(eventstore.P("TransactionID", transactionID)).
		Finalize()
}

// BuildBarcodeFilter selects the event that put the book with the given barcode into circulation.
func BuildBarcodeFilter(barcode string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BookCopyAddedToCirculationEventType).
		AndAnyPredicateOf(eventstore.P("Barcode", barcode)).
		Finalize()
}
