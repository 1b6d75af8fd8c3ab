package returntransaction

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/eventstore"
)

// Decide implements the business logic of returning a borrowed copy.
// This is a pure function: history must contain the transaction's events, its fine and the book's
// inventory events (see BuildEventFilter).
//
// Business Rules:
//
//	GIVEN: an ACTIVE loan (overdue loans included)
//	WHEN: ReturnTransaction is received
//	THEN: BookCopyReturned
//	      plus FineIssued if the copy comes back after the due date and the fine is not zero
//	      plus BookHistoryNoted if the copy is DAMAGED or LOST
//	ERROR: FORBIDDEN if the actor is not staff
//	ERROR: NOT_FOUND if the transaction does not exist
//	ERROR: INVALID_STATUS if the transaction is not ACTIVE
func Decide(history core.DomainEvents, command Command, policy core.Policy) core.DecisionResult {
	if !command.Actor.IsStaff() {
		return core.ErrorDecision(core.ErrStaffOnly("receive returned books"))
	}

	ledger := core.ProjectLedger(history)
	now := command.OccurredAt

	transaction, ok := ledger.Transaction(command.TransactionID)
	if !ok {
		return core.ErrorDecision(core.ErrTransactionNotFoundFor(command.TransactionID))
	}

	if transaction.Status != core.TransactionStatusActive {
		return core.ErrorDecision(core.ErrInvalidStatusFor("return", "transaction", string(transaction.Status)))
	}

	events := core.DomainEvents{
		core.BuildBookCopyReturned(
			transaction.TransactionID,
			transaction.BookID,
			transaction.StudentID,
			command.Condition,
			command.Notes,
			command.Actor.UserID,
			now,
		),
	}

	daysOverdue := core.DaysOverdue(transaction.DueDate, now)
	amount := core.ComputeFine(daysOverdue, policy)

	if _, alreadyFined := ledger.FineForTransaction(transaction.TransactionID); amount.IsPositive() && !alreadyFined {
		events = append(events, core.BuildFineIssued(
			core.FineIDFor(transaction.TransactionID),
			transaction.TransactionID,
			transaction.BookID,
			transaction.StudentID,
			amount,
			daysOverdue,
			core.FineReason(daysOverdue),
			now,
		))
	}

	if command.Condition != core.ReturnGood {
		events = append(events, core.BuildBookHistoryNoted(
			transaction.BookID,
			transaction.TransactionID,
			transaction.StudentID,
			command.Condition,
			historyNote(command),
			now,
		))
	}

	return core.SuccessDecision(events[0], events[1:]...)
}

func historyNote(command Command) string {
	if command.Notes != "" {
		return command.Notes
	}

	return "Returned " + string(command.Condition)
}

// BuildEventFilter selects the transaction's lifecycle events and fine plus the inventory events of its book.
func BuildEventFilter(transactionID core.TransactionIDString, bookID core.BookIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOfAll(shell.TransactionEventTypes).
		AndAnyPredicateOf(eventstore.P("TransactionID", transactionID)).
		OrMatching().
		AnyEventTypeOf(core.FineIssuedEventType).
		AndAnyPredicateOf(eventstore.P("TransactionID", transactionID)).
		OrMatching().
		AnyEventTypeOf(
			core.BookCopyAddedToCirculationEventType,
			core.BookCopyStatusOverriddenEventType,
			core.BorrowRequestApprovedEventType,
			core.BookCopyReturnedEventType,
		).
		AndAnyPredicateOf(eventstore.P("BookID", bookID)).
		Finalize()
}
