package shell

import (
	"context"
)

// Command represents the contract for all command types.
// The CommandType method enables polymorphic handling and observability instrumentation.
type Command interface {
	CommandType() string
}

// ExposesHandlerResult is implemented by every command result. It gives the observable wrapper access
// to the business outcome (idempotency) and the retry metadata without knowing the concrete result type.
type ExposesHandlerResult interface {
	GetHandlerResult() HandlerResult
}

// CoreCommandHandler defines the contract for components that process commands with pure business logic.
// Handlers orchestrate the complete command workflow: Query -> Unmarshal -> Decide -> Append.
// The generic parameters C and R ensure type safety between commands and their corresponding results.
// Implementations focus on business logic, observability is added by wrapping them (see package observable).
type CoreCommandHandler[C Command, R ExposesHandlerResult] interface {
	Handle(ctx context.Context, command C) (R, error)
}

// Query represents the contract for all query types.
type Query interface {
	QueryType() string
}

// QueryResult represents the contract for all query result types (projections).
// GetSequenceNumber returns the highest event sequence number included in the projection.
type QueryResult interface {
	GetSequenceNumber() uint
}

// CoreQueryHandler defines the contract for components that process queries with pure projection logic.
type CoreQueryHandler[Q Query, R QueryResult] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
