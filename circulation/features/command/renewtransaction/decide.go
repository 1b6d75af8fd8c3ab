package renewtransaction

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/eventstore"
)

// Decide implements the business logic of renewing a loan.
// This is a pure function: history must contain the transaction's events and the reservation events
// of its book (see BuildEventFilter).
//
// Business Rules:
//
//	GIVEN: an ACTIVE loan (overdue loans included)
//	WHEN: RenewTransaction is received
//	THEN: LoanRenewed with NewDueDate = current DueDate + additionalDays and RenewalCount + 1
//	ERROR: NOT_FOUND if the transaction does not exist
//	ERROR: FORBIDDEN if a student renews someone else's loan
//	ERROR: INVALID_STATUS if the transaction is not ACTIVE
//	ERROR: MAX_RENEWALS_REACHED if the loan was renewed policy.MaxRenewals times
//	ERROR: BOOK_RESERVED if another student holds a pending reservation on the book
func Decide(history core.DomainEvents, command Command, policy core.Policy) core.DecisionResult {
	ledger := core.ProjectLedger(history)
	now := command.OccurredAt

	transaction, ok := ledger.Transaction(command.TransactionID)
	if !ok {
		return core.ErrorDecision(core.ErrTransactionNotFoundFor(command.TransactionID))
	}

	if !command.Actor.ActsFor(transaction.StudentID) {
		return core.ErrorDecision(core.ErrNotOwner("loans"))
	}

	if transaction.Status != core.TransactionStatusActive {
		return core.ErrorDecision(core.ErrInvalidStatusFor("renew", "transaction", string(transaction.Status)))
	}

	if transaction.RenewalCount >= policy.MaxRenewals {
		return core.ErrorDecision(core.ErrMaxRenewalsReachedWith(policy.MaxRenewals))
	}

	if ledger.BlocksRenewal(transaction.BookID, transaction.StudentID, now) {
		return core.ErrorDecision(core.ErrBookReservedByOthers(
			ledger.QueueAheadOf(transaction.BookID, transaction.StudentID, now, now),
		))
	}

	additionalDays := command.AdditionalDays
	if additionalDays == 0 {
		additionalDays = policy.LoanPeriodDays
	}

	return core.SuccessDecision(
		core.BuildLoanRenewed(
			transaction.TransactionID,
			transaction.BookID,
			transaction.StudentID,
			transaction.DueDate,
			core.AddDays(transaction.DueDate, additionalDays),
			transaction.RenewalCount+1,
			command.Notes,
			command.Actor.UserID,
			now,
		),
	)
}

// BuildEventFilter selects the transaction's lifecycle events and the reservation events of its book,
// so a reservation placed while the renewal is decided makes the append conflict.
func BuildEventFilter(transactionID core.TransactionIDString, bookID core.BookIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOfAll(shell.TransactionEventTypes).
		AndAnyPredicateOf(eventstore.P("TransactionID", transactionID)).
		OrMatching().
		AnyEventTypeOf(
			core.BookReservedEventType,
			core.ReservationCancelledEventType,
			core.ReservationFulfilledEventType,
		).
		AndAnyPredicateOf(eventstore.P("BookID", bookID)).
		Finalize()
}
