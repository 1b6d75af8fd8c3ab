package createborrowrequest

import (
	"context"
	"fmt"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell/audit"
	"github.com/AntonStoeckl/library-circulation-go/eventstore"
)

// Result is the outcome of a handled Command: the transaction as it is after the command.
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

// WithAuditSink makes the handler record an audit entry for every created request.
// Sink failures are logged with logger, which may be nil.
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
		isIdempotent bool
		transaction  core.Transaction
	)

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		isIdempotent, transaction, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return Result{HandlerResult: shell.NewErrorResult(retryMetrics)}, err
	}

	if isIdempotent {
		return Result{HandlerResult: shell.NewIdempotentResult(retryMetrics), Transaction: transaction}, nil
	}

	audit.Emit(ctx, h.auditSink, h.auditLogger, audit.Entry{
		OccurredAt:    command.OccurredAt,
		ActorID:       command.Actor.UserID,
		Action:        audit.ActionBorrowRequestCreated,
		TransactionID: transaction.TransactionID,
		BookID:        transaction.BookID,
		StudentID:     transaction.StudentID,
		Description: fmt.Sprintf(
			"Student %s requested book %s for %d days (transaction %s)",
			transaction.StudentID, transaction.BookID, transaction.RequestedDays, transaction.TransactionID,
		),
	})

	return Result{HandlerResult: shell.NewSuccessResult(retryMetrics), Transaction: transaction}, nil
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (bool, core.Transaction, error) {
	ctx = eventstore.WithStrongConsistency(ctx)

	if command.BookID == "" {
		bookID, err := h.resolveBarcode(ctx, command.Barcode)
		if err != nil {
			return false, core.Transaction{}, err
		}

		command.BookID = bookID
	}

	policy, err := h.policies.Load(ctx)
	if err != nil {
		return false, core.Transaction{}, err
	}

	filter := BuildEventFilter(command.TransactionID, command.BookID, command.StudentID)

	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, filter)
	if err != nil {
		return false, core.Transaction{}, err
	}

	result := Decide(history, command, policy)

	if err = result.HasError(); err != nil {
		return false, core.Transaction{}, err
	}

	ledger := core.ProjectLedger(history)

	if result.IsIdempotent() {
		transaction, _ := ledger.Transaction(command.TransactionID)
		return true, transaction, nil
	}

	if err = shell.AppendDecision(ctx, h.eventStore, filter, maxSequenceNumber, result); err != nil {
		return false, core.Transaction{}, err
	}

	ledger.Apply(result.Events...)
	transaction, _ := ledger.Transaction(command.TransactionID)

	return false, transaction, nil
}

func (h CommandHandler) resolveBarcode(ctx context.Context, barcode string) (core.BookIDString, error) {
	history, _, err := shell.QueryHistory(ctx, h.eventStore, BuildBarcodeFilter(barcode))
	if err != nil {
		return "", err
	}

	for _, event := range history {
		if added, ok := event.(core.BookCopyAddedToCirculation); ok {
			return added.BookID, nil
		}
	}

	return "", core.ErrBookNotFoundFor(barcode)
}
