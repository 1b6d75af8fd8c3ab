// Package eventstore defines the storage-agnostic building blocks of an event store
// with dynamic consistency boundaries.
//
// There are no fixed streams. A decision queries exactly the events it depends on with a Filter
// (event types combined with JSON payload predicates) and appends its new events guarded by the
// max sequence number it observed for that same Filter. If any matching event was appended in
// between, Append fails with ErrConcurrencyConflict and the caller re-queries and decides again.
//
// Typical usage:
//
//	filter := eventstore.BuildEventFilter().
//		Matching().
//		AnyEventTypeOf(core.BorrowRequestApprovedEventType, core.BookCopyReturnedEventType).
//		AndAnyPredicateOf(eventstore.P("BookID", bookID)).
//		Finalize()
//
//	events, maxSeq, err := store.Query(ctx, filter)
//	// ... decide ...
//	err = store.Append(ctx, filter, maxSeq, newEvents...)
//
// Implementations live in the postgresengine and memoryengine sub packages.
package eventstore
