package renewtransaction

import (
	"context"
	"fmt"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell/audit"
	"github.com/AntonStoeckl/library-circulation-go/eventstore"
)

// Result is the outcome of a handled Command: the renewed transaction.
type Result struct {
	shell.HandlerResult
	Transaction core.Transaction
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

// WithAuditSink makes the handler record an audit entry for every renewal.
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

	var transaction core.Transaction

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		transaction, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return Result{HandlerResult: shell.NewErrorResult(retryMetrics)}, err
	}

	audit.Emit(ctx, h.auditSink, h.auditLogger, auditEntryFor(command, transaction))

	return Result{HandlerResult: shell.NewSuccessResult(retryMetrics), Transaction: transaction}, nil
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.Transaction, error) {
	ctx = eventstore.WithStrongConsistency(ctx)

	ref, found, err := shell.LocateTransaction(ctx, h.eventStore, command.TransactionID)
	if err != nil {
		return core.Transaction{}, err
	}

	policy, err := h.policies.Load(ctx)
	if err != nil {
		return core.Transaction{}, err
	}

	filter := shell.BuildTransactionFilter(command.TransactionID)
	if found {
		filter = BuildEventFilter(command.TransactionID, ref.BookID)
	}

	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, filter)
	if err != nil {
		return core.Transaction{}, err
	}

	result := Decide(history, command, policy)

	if err = result.HasError(); err != nil {
		return core.Transaction{}, err
	}

	if err = shell.AppendDecision(ctx, h.eventStore, filter, maxSequenceNumber, result); err != nil {
		return core.Transaction{}, err
	}

	ledger := core.ProjectLedger(history)
	ledger.Apply(result.Events...)
	transaction, _ := ledger.Transaction(command.TransactionID)

	return transaction, nil
}

func auditEntryFor(command Command, transaction core.Transaction) audit.Entry {
	return audit.Entry{
		OccurredAt:    command.OccurredAt,
		ActorID:       command.Actor.UserID,
		Action:        audit.ActionLoanRenewed,
		TransactionID: transaction.TransactionID,
		BookID:        transaction.BookID,
		StudentID:     transaction.StudentID,
		Description: fmt.Sprintf(
			"Renewed the loan of book %s by student %s until %s (renewal %d)",
			transaction.BookID, transaction.StudentID, transaction.DueDate.Format("2006-01-02"), transaction.RenewalCount,
		),
	}
}
