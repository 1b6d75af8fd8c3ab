package audit

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/library-circulation-go/eventstore"
)

// Action names the operation an Entry describes.
type Action string

const (
	ActionBorrowRequestCreated  Action = "BORROW_REQUEST_CREATED"
	ActionBorrowRequestApproved Action = "BORROW_REQUEST_APPROVED"
	ActionBorrowRequestRejected Action = "BORROW_REQUEST_REJECTED"
	ActionLoanRenewed           Action = "LOAN_RENEWED"
	ActionBookCopyReturned      Action = "BOOK_COPY_RETURNED"
	ActionBookCopyAdded         Action = "BOOK_COPY_ADDED"
	ActionBookStatusOverridden  Action = "BOOK_STATUS_OVERRIDDEN"
	ActionStudentRegistered     Action = "STUDENT_REGISTERED"
	ActionAccountStatusChanged  Action = "ACCOUNT_STATUS_CHANGED"
	ActionBookReserved          Action = "BOOK_RESERVED"
	ActionReservationCancelled  Action = "RESERVATION_CANCELLED"
	ActionFinePaid              Action = "FINE_PAID"
	ActionFineWaived            Action = "FINE_WAIVED"
)

const logMsgAuditSinkFailed = "audit sink failed"

// Entry is one audit record. Identifiers that do not apply stay empty.
type Entry struct {
	OccurredAt    time.Time
	ActorID       string
	Action        Action
	TransactionID string
	BookID        string
	StudentID     string
	Description   string
}

// Sink stores audit entries.
type Sink interface {
	Record(ctx context.Context, entry Entry) error
}

// Emit records entry in sink. A failure is logged (when a logger is given) and otherwise ignored.
func Emit(ctx context.Context, sink Sink, logger eventstore.ContextualLogger, entry Entry) {
	if sink == nil {
		return
	}

	if err := sink.Record(ctx, entry); err != nil && logger != nil {
		logger.ErrorContext(ctx, logMsgAuditSinkFailed,
			"action", string(entry.Action),
			"actor_id", entry.ActorID,
			"error", err.Error(),
		)
	}
}

// NopSink discards all entries.
type NopSink struct{}

func (NopSink) Record(context.Context, Entry) error { return nil }

// MultiSink fans an entry out to several sinks. All sinks are tried, failures are joined.
type MultiSink []Sink

func (m MultiSink) Record(ctx context.Context, entry Entry) error {
	var errs []error

	for _, sink := range m {
		if err := sink.Record(ctx, entry); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// SlogSink writes each entry as one structured info log line.
type SlogSink struct {
	logger eventstore.ContextualLogger
}

// NewSlogSink creates a SlogSink. *slog.Logger satisfies eventstore.ContextualLogger.
func NewSlogSink(logger eventstore.ContextualLogger) *SlogSink {
	return &SlogSink{logger: logger}
}

func (s *SlogSink) Record(ctx context.Context, entry Entry) error {
	args := []any{
		"action", string(entry.Action),
		"actor_id", entry.ActorID,
		"occurred_at", entry.OccurredAt.UTC().Format(time.RFC3339Nano),
	}

	if entry.TransactionID != "" {
		args = append(args, "transaction_id", entry.TransactionID)
	}

	if entry.BookID != "" {
		args = append(args, "book_id", entry.BookID)
	}

	if entry.StudentID != "" {
		args = append(args, "student_id", entry.StudentID)
	}

	s.logger.InfoContext(ctx, "audit: "+entry.Description, args...)

	return nil
}
