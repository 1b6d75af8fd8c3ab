package postgresengine

import (
	"context"
	"errors"
	"fmt"
)

// ErrCreatingEventsTableFailed is returned by CreateEventsTable.
var ErrCreatingEventsTableFailed = errors.New("creating events table failed")

// EventsTableDDL returns the statements that create the events table and its indexes.
// All statements are idempotent.
func EventsTableDDL(tableName string) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (
	sequence_number bigserial PRIMARY KEY,
	event_type text NOT NULL,
	occurred_at timestamp with time zone NOT NULL,
	payload jsonb NOT NULL,
	metadata jsonb NOT NULL DEFAULT '{}'::jsonb
)`, tableName),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_event_type_idx ON %[1]s (event_type)`, tableName),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_payload_gin_idx ON %[1]s USING gin (payload jsonb_path_ops)`, tableName),
	}
}

// CreateEventsTable creates the configured events table if it does not exist yet.
func (es *EventStore) CreateEventsTable(ctx context.Context) error {
	for _, statement := range EventsTableDDL(es.eventTableName) {
		if _, err := es.db.Exec(ctx, statement); err != nil {
			es.logError(ctx, logMsgCreateTableFailed, err, logAttrQuery, statement)
			return errors.Join(ErrCreatingEventsTableFailed, err)
		}
	}

	es.logOperation(ctx, logMsgTableReady, logAttrTable, es.eventTableName)

	return nil
}
