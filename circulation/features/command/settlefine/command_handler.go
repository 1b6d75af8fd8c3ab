package settlefine

import (
	"context"
	"fmt"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell/audit"
	"github.com/AntonStoeckl/library-circulation-go/eventstore"
)

// Result is the outcome of a handled Command: the settled fine.
type Result struct {
	shell.HandlerResult
	Fine core.Fine
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

// WithAuditSink makes the handler record an audit entry for every payment and waiver.
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

	var fine core.Fine

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		fine, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return Result{HandlerResult: shell.NewErrorResult(retryMetrics)}, err
	}

	audit.Emit(ctx, h.auditSink, h.auditLogger, auditEntryFor(command, fine))

	return Result{HandlerResult: shell.NewSuccessResult(retryMetrics), Fine: fine}, nil
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.Fine, error) {
	ctx = eventstore.WithStrongConsistency(ctx)

	filter := BuildEventFilter(command.FineID)

	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, filter)
	if err != nil {
		return core.Fine{}, err
	}

	result := Decide(history, command)

	if err = result.HasError(); err != nil {
		return core.Fine{}, err
	}

	if err = shell.AppendDecision(ctx, h.eventStore, filter, maxSequenceNumber, result); err != nil {
		return core.Fine{}, err
	}

	ledger := core.ProjectLedger(history)
	ledger.Apply(result.Events...)
	fine, _ := ledger.Fine(command.FineID)

	return fine, nil
}

func auditEntryFor(command Command, fine core.Fine) audit.Entry {
	entry := audit.Entry{
		OccurredAt:    command.OccurredAt,
		ActorID:       command.Actor.UserID,
		TransactionID: fine.TransactionID,
		BookID:        fine.BookID,
		StudentID:     fine.StudentID,
	}

	switch settlement := command.Settlement.(type) {
	case Waive:
		entry.Action = audit.ActionFineWaived
		entry.Description = fmt.Sprintf("Waived fine %s of %s for student %s: %s", fine.FineID, fine.Amount.StringFixed(2), fine.StudentID, settlement.Reason)
	default:
		entry.Action = audit.ActionFinePaid
		entry.Description = fmt.Sprintf("Student %s paid fine %s of %s", fine.StudentID, fine.FineID, fine.Amount.StringFixed(2))
	}

	return entry
}
