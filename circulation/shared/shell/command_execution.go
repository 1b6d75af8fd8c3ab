package shell

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/eventstore"
)

// EventStore defines the event store operations needed by the command and query handlers.
// Both postgresengine.EventStore and memoryengine.EventStore implement it.
type EventStore interface {
	Query(ctx context.Context, filter eventstore.Filter) (
		eventstore.StorableEvents,
		eventstore.MaxSequenceNumberUint,
		error,
	)
	Append(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		storableEvents ...eventstore.StorableEvent,
	) error
}

// PolicyLoader provides the policy in effect for one decision. It is called once per attempt,
// so a changed setting applies to the next transition. *policy.Store implements it.
type PolicyLoader interface {
	Load(ctx context.Context) (core.Policy, error)
}

// StaticPolicy is a PolicyLoader that always returns the same policy, e.g. in tests.
type StaticPolicy core.Policy

func (p StaticPolicy) Load(context.Context) (core.Policy, error) {
	return core.Policy(p), nil
}

// QueryHistory reads the events selected by filter and maps them to domain events.
func QueryHistory(
	ctx context.Context,
	eventStore EventStore,
	filter eventstore.Filter,
) (core.DomainEvents, eventstore.MaxSequenceNumberUint, error) {

	storableEvents, maxSequenceNumber, err := eventStore.Query(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	history, err := DomainEventsFrom(storableEvents)
	if err != nil {
		return nil, 0, err
	}

	return history, maxSequenceNumber, nil
}

// AppendDecision appends all events of a successful decision in one batch. The append fails with
// eventstore.ErrConcurrencyConflict if filter matches events beyond expectedMaxSequenceNumber.
func AppendDecision(
	ctx context.Context,
	eventStore EventStore,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	decision core.DecisionResult,
) error {

	storableEvents, err := StorableEventsFrom(decision.Events, NewCommandMetadata())
	if err != nil {
		return err
	}

	return eventStore.Append(ctx, filter, expectedMaxSequenceNumber, storableEvents...)
}

// TransactionEventTypes are the lifecycle events of a borrowing transaction.
// All of them carry TransactionID, BookID and StudentID.
var TransactionEventTypes = []string{
	core.BorrowRequestCreatedEventType,
	core.BorrowRequestApprovedEventType,
	core.BorrowRequestRejectedEventType,
	core.LoanRenewedEventType,
	core.BookCopyReturnedEventType,
}

// BuildTransactionFilter selects the lifecycle events of one transaction.
func BuildTransactionFilter(transactionID core.TransactionIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOfAll(TransactionEventTypes).
		AndAnyPredicateOf(eventstore.P("TransactionID", transactionID)).
		Finalize()
}

// TransactionRef identifies the book and the student of a transaction.
type TransactionRef struct {
	TransactionID core.TransactionIDString
	BookID        core.BookIDString
	StudentID     core.StudentIDString
}

// LocateTransaction finds the book and the student of a transaction, so that a handler can select
// the book's events as well. found is false if the transaction was never created.
func LocateTransaction(
	ctx context.Context,
	eventStore EventStore,
	transactionID core.TransactionIDString,
) (ref TransactionRef, found bool, err error) {

	history, _, err := QueryHistory(ctx, eventStore, BuildTransactionFilter(transactionID))
	if err != nil {
		return TransactionRef{}, false, err
	}

	for _, event := range history {
		if created, ok := event.(core.BorrowRequestCreated); ok {
			return TransactionRef{
				TransactionID: created.TransactionID,
				BookID:        created.BookID,
				StudentID:     created.StudentID,
			}, true, nil
		}
	}

	return TransactionRef{TransactionID: transactionID}, false, nil
}
