package cancelreservation

import (
	"context"
	"fmt"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell/audit"
	"github.com/AntonStoeckl/library-circulation-go/eventstore"
)

// Result is the outcome of a handled Command: the cancelled reservation.
type Result struct {
	shell.HandlerResult
	Reservation core.Reservation
}

// CommandHandler orchestrates the complete command processing workflow with pure business logic and retry.
// It handles the core event sourcing workflow: Query -> Unmarshal -> Decide -> Append.
// External wrappers handle all observability concerns.
type CommandHandler struct {
	eventStore   shell.EventStore
	auditSink    audit.Sink
	auditLogger  shell.ContextualLogger
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// WithAuditSink makes the handler record an audit entry for every cancellation.
func WithAuditSink(sink audit.Sink, logger shell.ContextualLogger) Option {
	return func(h *CommandHandler) {
		h.auditSink = sink
		h.auditLogger = logger
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(eventStore shell.EventStore, opts ...Option) CommandHandler {
	handler := CommandHandler{
		eventStore: eventStore,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle validates the command and executes it, retrying on concurrency conflicts.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, error) {
	if err := shell.ValidateCommand(command); err != nil {
		return Result{HandlerResult: shell.NewRejectedResult(err)}, err
	}

	var reservation core.Reservation

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		reservation, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return Result{HandlerResult: shell.NewErrorResult(retryMetrics)}, err
	}

	audit.Emit(ctx, h.auditSink, h.auditLogger, audit.Entry{
		OccurredAt:  command.OccurredAt,
		ActorID:     command.Actor.UserID,
		Action:      audit.ActionReservationCancelled,
		BookID:      reservation.BookID,
		StudentID:   reservation.StudentID,
		Description: fmt.Sprintf("Cancelled reservation %s of student %s for book %s", reservation.ReservationID, reservation.StudentID, reservation.BookID),
	})

	return Result{HandlerResult: shell.NewSuccessResult(retryMetrics), Reservation: reservation}, nil
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.Reservation, error) {
	ctx = eventstore.WithStrongConsistency(ctx)

	filter := BuildEventFilter(command.ReservationID)

	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, filter)
	if err != nil {
		return core.Reservation{}, err
	}

	result := Decide(history, command)

	if err = result.HasError(); err != nil {
		return core.Reservation{}, err
	}

	if err = shell.AppendDecision(ctx, h.eventStore, filter, maxSequenceNumber, result); err != nil {
		return core.Reservation{}, err
	}

	ledger := core.ProjectLedger(history)
	ledger.Apply(result.Events...)
	reservation, _ := ledger.Reservation(command.ReservationID)

	return reservation, nil
}
