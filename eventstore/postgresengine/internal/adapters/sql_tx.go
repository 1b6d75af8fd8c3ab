package adapters

import (
	"context"
	"database/sql"
	"errors"
)

func execLockedInTx(ctx context.Context, db *sql.DB, lockQuery string, query string) (DBResult, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	if _, err = tx.ExecContext(ctx, lockQuery); err != nil {
		return nil, errors.Join(err, tx.Rollback())
	}

	result, err := tx.ExecContext(ctx, query)
	if err != nil {
		return nil, errors.Join(err, tx.Rollback())
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return result, nil
}
