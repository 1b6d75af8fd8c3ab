package borrowingeligibility

import (
	"errors"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/eventstore"
)

// ProjectEligibility implements the query projection logic for borrowing eligibility.
//
// Query Logic:
//
//	GIVEN: a student and a book
//	WHEN: the student asks whether a borrow request would be accepted at the query time
//	THEN: the Eligibility Evaluator's verdict is returned
//	INCLUDES: the first failed rule as Reason plus its actionable Message
//	EXCLUDES: the reservation queue, which only matters when staff approve
func ProjectEligibility(history core.DomainEvents, query Query, policy core.Policy) Eligibility {
	verdict := core.Evaluate(core.ProjectLedger(history), query.StudentID, query.BookID, query.At, policy)

	result := Eligibility{
		StudentID: query.StudentID,
		BookID:    query.BookID,
		Eligible:  verdict.Eligible,
		Reason:    verdict.Reason,
	}

	var businessErr *core.BusinessError
	if errors.As(verdict.Err, &businessErr) {
		result.Message = businessErr.Message
	}

	return result
}

// BuildEventFilter selects the book's inventory events and everything that shapes the student's standing.
func BuildEventFilter(studentID core.StudentIDString, bookID core.BookIDString) eventstore.Filter {
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
		Finalize()
}
