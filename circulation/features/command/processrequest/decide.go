package processrequest

import (
	"strings"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/eventstore"
)

// Decide implements the business logic of approving or rejecting a borrow request.
// This is a pure function: history must contain the transaction's events and the book's inventory
// and reservation events (see BuildEventFilter).
//
// Business Rules:
//
//	GIVEN: a PENDING borrow request
//	WHEN: ProcessRequest with Approve is received
//	THEN: BorrowRequestApproved with DueDate = now + requestedDays,
//	      plus ReservationFulfilled if the student held a pending reservation on the book
//	WHEN: ProcessRequest with Reject is received
//	THEN: BorrowRequestRejected
//	ERROR: FORBIDDEN if the actor is not staff
//	ERROR: NOT_FOUND if the transaction does not exist
//	ERROR: INVALID_STATUS if the transaction is not PENDING
//	ERROR: VALIDATION_ERROR if a rejection has no reason
//	ERROR: BOOK_NOT_AVAILABLE if no copy can be handed out
//	ERROR: BOOK_RESERVED if students who reserved earlier would be left without a copy
func Decide(history core.DomainEvents, command Command, _ core.Policy) core.DecisionResult {
	if !command.Actor.IsStaff() {
		return core.ErrorDecision(core.ErrStaffOnly("process borrow requests"))
	}

	ledger := core.ProjectLedger(history)

	transaction, ok := ledger.Transaction(command.TransactionID)
	if !ok {
		return core.ErrorDecision(core.ErrTransactionNotFoundFor(command.TransactionID))
	}

	if transaction.Status != core.TransactionStatusPending {
		return core.ErrorDecision(core.ErrInvalidStatusFor(
			command.Decision.decisionKind(),
			"transaction",
			string(transaction.DisplayStatus(command.OccurredAt)),
		))
	}

	switch decision := command.Decision.(type) {
	case Reject:
		return reject(transaction, decision, command)
	case Approve:
		return approve(ledger, transaction, decision, command)
	default:
		return core.ErrorDecision(core.ErrValidationf("Unknown decision on a borrow request"))
	}
}

func reject(transaction core.Transaction, decision Reject, command Command) core.DecisionResult {
	if strings.TrimSpace(decision.Reason) == "" {
		return core.ErrorDecision(core.ErrValidationf("A reason is required to reject a borrow request"))
	}

	return core.SuccessDecision(
		core.BuildBorrowRequestRejected(
			transaction.TransactionID,
			transaction.BookID,
			transaction.StudentID,
			decision.Reason,
			decision.Notes,
			command.Actor.UserID,
			command.OccurredAt,
		),
	)
}

func approve(ledger *core.Ledger, transaction core.Transaction, decision Approve, command Command) core.DecisionResult {
	now := command.OccurredAt

	book, ok := ledger.Book(transaction.BookID)
	if !ok || !book.CanBeBorrowed() {
		return core.ErrorDecision(core.ErrBookNotAvailableNow())
	}

	queueAhead := ledger.QueueAheadOf(transaction.BookID, transaction.StudentID, transaction.BorrowedAt, now)
	if book.AvailableQuantity <= queueAhead {
		return core.ErrorDecision(core.ErrBookReservedByOthers(queueAhead))
	}

	approved := core.BuildBorrowRequestApproved(
		transaction.TransactionID,
		transaction.BookID,
		transaction.StudentID,
		core.AddDays(now, transaction.RequestedDays),
		decision.Notes,
		command.Actor.UserID,
		now,
	)

	if reservation, found := ledger.PendingReservationOf(transaction.BookID, transaction.StudentID, now); found {
		return core.SuccessDecision(
			approved,
			core.BuildReservationFulfilled(
				reservation.ReservationID,
				transaction.BookID,
				transaction.StudentID,
				transaction.TransactionID,
				now,
			),
		)
	}

	return core.SuccessDecision(approved)
}

// BuildEventFilter selects the transaction's lifecycle events plus the inventory and reservation
// events of its book. Two approvals for the same book therefore conflict on append.
func BuildEventFilter(transactionID core.TransactionIDString, bookID core.BookIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOfAll(shell.TransactionEventTypes).
		AndAnyPredicateOf(eventstore.P("TransactionID", transactionID)).
		OrMatching().
		AnyEventTypeOf(
			core.BookCopyAddedToCirculationEventType,
			core.BookCopyStatusOverriddenEventType,
			core.BorrowRequestApprovedEventType,
			core.BookCopyReturnedEventType,
			core.BookReservedEventType,
			core.ReservationCancelledEventType,
			core.ReservationFulfilledEventType,
		).
		AndAnyPredicateOf(eventstore.P("BookID", bookID)).
		Finalize()
}
