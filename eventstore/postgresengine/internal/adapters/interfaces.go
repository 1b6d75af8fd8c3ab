package adapters

import "context"

// DBAdapter is the narrow database surface the event store needs.
// Query may be served by a replica, Exec always goes to the primary.
type DBAdapter interface {
	Query(ctx context.Context, query string, replicaAllowed bool) (DBRows, error)
	Exec(ctx context.Context, query string) (DBResult, error)

	// ExecLocked runs lockQuery and then query in one transaction on the primary.
	// lockQuery is expected to take a transaction scoped lock, so that query only runs after every
	// earlier holder of the same lock has committed.
	ExecLocked(ctx context.Context, lockQuery string, query string) (DBResult, error)
}

// DBRows is the row iterator returned by Query.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult is the result of Exec.
type DBResult interface {
	RowsAffected() (int64, error)
}
