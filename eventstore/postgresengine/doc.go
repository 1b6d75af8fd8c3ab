// Package postgresengine provides a PostgreSQL implementation of the event store.
//
// All events are stored in one table (see EventsTableDDL). A "dynamic event stream" is whatever
// an eventstore.Filter selects; payload predicates are rendered as JSONB containment.
//
// Append is a single INSERT ... SELECT statement guarded by a CTE that computes the current max
// sequence number of the filter. If another writer appended a matching event in between,
// no row is inserted and eventstore.ErrConcurrencyConflict is returned.
// The statement runs in a transaction holding pg_advisory_xact_lock on a hash of the table name,
// so concurrent appends are checked one after the other and cannot both pass the same expectation.
//
// Usage:
//
//	pool, _ := pgxpool.New(ctx, dsn)
//	store, _ := postgresengine.NewEventStoreFromPGXPool(
//		pool,
//		postgresengine.WithTableName("events"),
//		postgresengine.WithLogger(slog.Default()),
//	)
//
//	events, maxSeq, _ := store.Query(ctx, filter)
//	err := store.Append(ctx, filter, maxSeq, newEvents...)
package postgresengine
