package returntransaction

import (
	"context"
	"fmt"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell/audit"
	"github.com/AntonStoeckl/library-circulation-go/eventstore"
)

// Result is the outcome of a handled Command: the returned transaction and the fine, if one was issued.
type Result struct {
	shell.HandlerResult
	Transaction core.Transaction
	Fine        *core.Fine
}

// CommandHandler orchestrates the complete command processing workflow with pure business logic and retry.
// It handles the core event sourcing workflow: Query -> Unmarshal -> Decide -> Append.
// External wrappers handle all observability concerns.
type CommandHandler struct {
	eventStore   shell.EventStore
	policies     shell.PolicyLoader
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

// WithAuditSink makes the handler record an audit entry for every return.
func WithAuditSink(sink audit.Sink, logger shell.ContextualLogger) Option {
	return func(h *CommandHandler) {
		h.auditSink = sink
		h.auditLogger = logger
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(eventStore shell.EventStore, policies shell.PolicyLoader, opts ...Option) CommandHandler {
	handler := CommandHandler{
		eventStore: eventStore,
		policies:   policies,
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

	var (
		transaction core.Transaction
		fine        *core.Fine
	)

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		transaction, fine, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return Result{HandlerResult: shell.NewErrorResult(retryMetrics)}, err
	}

	audit.Emit(ctx, h.auditSink, h.auditLogger, auditEntryFor(command, transaction, fine))

	return Result{HandlerResult: shell.NewSuccessResult(retryMetrics), Transaction: transaction, Fine: fine}, nil
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.Transaction, *core.Fine, error) {
	ctx = eventstore.WithStrongConsistency(ctx)

	ref, found, err := shell.LocateTransaction(ctx, h.eventStore, command.TransactionID)
	if err != nil {
		return core.Transaction{}, nil, err
	}

	policy, err := h.policies.Load(ctx)
	if err != nil {
		return core.Transaction{}, nil, err
	}

	filter := shell.BuildTransactionFilter(command.TransactionID)
	if found {
		filter = BuildEventFilter(command.TransactionID, ref.BookID)
	}

	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, filter)
	if err != nil {
		return core.Transaction{}, nil, err
	}

	result := Decide(history, command, policy)

	if err = result.HasError(); err != nil {
		return core.Transaction{}, nil, err
	}

	if err = shell.AppendDecision(ctx, h.eventStore, filter, maxSequenceNumber, result); err != nil {
		return core.Transaction{}, nil, err
	}

	ledger := core.ProjectLedger(history)
	ledger.Apply(result.Events...)
	transaction, _ := ledger.Transaction(command.TransactionID)

	for _, event := range result.Events {
		if issued, ok := event.(core.FineIssued); ok {
			fine, _ := ledger.Fine(issued.FineID)
			return transaction, &fine, nil
		}
	}

	return transaction, nil, nil
}

func auditEntryFor(command Command, transaction core.Transaction, fine *core.Fine) audit.Entry {
	description := fmt.Sprintf(
		"Received book %s from student %s in %s condition",
		transaction.BookID, transaction.StudentID, transaction.Condition,
	)

	if fine != nil {
		description += fmt.Sprintf("; issued a fine of %s for %d day(s) overdue", fine.Amount.StringFixed(2), fine.DaysOverdue)
	}

	return audit.Entry{
		OccurredAt:    command.OccurredAt,
		ActorID:       command.Actor.UserID,
		Action:        audit.ActionBookCopyReturned,
		TransactionID: transaction.TransactionID,
		BookID:        transaction.BookID,
		StudentID:     transaction.StudentID,
		Description:   description,
	}
}
