package audit

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // postgres dialect
	"github.com/jmoiron/sqlx"
)

const defaultAuditTableName = "audit_log"

// ErrRecordingAuditEntryFailed is returned when an entry cannot be inserted.
var ErrRecordingAuditEntryFailed = errors.New("recording audit entry failed")

// PostgresSink inserts entries into an audit table, see AuditTableDDL.
type PostgresSink struct {
	db        *sqlx.DB
	tableName string
	dialect   goqu.DialectWrapper
}

// PostgresOption configures a PostgresSink.
type PostgresOption func(*PostgresSink)

// WithAuditTableName overrides the default table name "audit_log".
func WithAuditTableName(tableName string) PostgresOption {
	return func(s *PostgresSink) {
		if tableName != "" {
			s.tableName = tableName
		}
	}
}

// NewPostgresSink creates a PostgresSink on top of an sqlx connection.
func NewPostgresSink(db *sqlx.DB, opts ...PostgresOption) *PostgresSink {
	s := &PostgresSink{
		db:        db,
		tableName: defaultAuditTableName,
		dialect:   goqu.Dialect("postgres"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// AuditTableDDL returns the statement creating the audit table.
func AuditTableDDL(tableName string) string {
	return `CREATE TABLE IF NOT EXISTS "` + tableName + `" (
	"id" bigserial PRIMARY KEY,
	"occurred_at" timestamptz NOT NULL,
	"actor_id" text NOT NULL,
	"action" text NOT NULL,
	"transaction_id" text NOT NULL DEFAULT '',
	"book_id" text NOT NULL DEFAULT '',
	"student_id" text NOT NULL DEFAULT '',
	"description" text NOT NULL
)`
}

func (s *PostgresSink) Record(ctx context.Context, entry Entry) error {
	query, args, err := s.dialect.Insert(s.tableName).
		Prepared(true).
		Rows(goqu.Record{
			"occurred_at":    entry.OccurredAt,
			"actor_id":       entry.ActorID,
			"action":         string(entry.Action),
			"transaction_id": entry.TransactionID,
			"book_id":        entry.BookID,
			"student_id":     entry.StudentID,
			"description":    entry.Description,
		}).
		ToSQL()

	if err != nil {
		return errors.Join(ErrRecordingAuditEntryFailed, err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Join(ErrRecordingAuditEntryFailed, err)
	}

	return nil
}
