package postgresengine

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/library-circulation-go/eventstore"
	"github.com/AntonStoeckl/library-circulation-go/eventstore/postgresengine/internal/adapters"
)

const (
	defaultEventTableName = "events"

	colEventType      = "event_type"
	colOccurredAt     = "occurred_at"
	colPayload        = "payload"
	colMetadata       = "metadata"
	colSequenceNumber = "sequence_number"
	cteContext        = "context"
	cteVals           = "vals"
	dialectPostgres   = "postgres"
	aliasMaxSeq       = "max_seq"
	castText          = "?::text"
	castTimestamp     = "?::timestamp with time zone"
	castJsonb         = "?::jsonb"
	payloadContains   = colPayload + " @> ?::jsonb"

	funcAdvisoryXactLock = "pg_advisory_xact_lock"
	funcHashText         = "hashtext"
)

type sqlQueryString = string

// EventStore is the Postgres implementation of the event store contract.
// All events live in one table; consistency boundaries are defined per call by an eventstore.Filter.
type EventStore struct {
	db               adapters.DBAdapter
	eventTableName   string
	logger           eventstore.Logger
	contextualLogger eventstore.ContextualLogger
	metricsCollector eventstore.MetricsCollector
	tracingCollector eventstore.TracingCollector
}

type queryResultRow struct {
	eventType      string
	occurredAt     time.Time
	payload        []byte
	metadata       []byte
	sequenceNumber eventstore.MaxSequenceNumberUint
}

// NewEventStoreFromPGXPool creates an EventStore on a pgx pool.
func NewEventStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapter(db), options...)
}

// NewEventStoreFromPGXPoolAndReplica creates an EventStore that serves eventually consistent
// queries from the replica pool and everything else from the primary pool.
func NewEventStoreFromPGXPoolAndReplica(primary *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (*EventStore, error) {
	if primary == nil || replica == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapterWithReplica(primary, replica), options...)
}

// NewEventStoreFromSQLDB creates an EventStore on a *sql.DB.
func NewEventStoreFromSQLDB(db *sql.DB, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLAdapter(db), options...)
}

// NewEventStoreFromSQLX creates an EventStore on a *sqlx.DB.
func NewEventStoreFromSQLX(db *sqlx.DB, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLXAdapter(db), options...)
}

func newEventStore(db adapters.DBAdapter, options ...Option) (*EventStore, error) {
	es := &EventStore{
		db:             db,
		eventTableName: defaultEventTableName,
	}

	for _, option := range options {
		if err := option(es); err != nil {
			return nil, err
		}
	}

	return es, nil
}

// Query returns the events matching filter ordered by sequence number, together with the max
// sequence number of this "dynamic event stream" at the time of the query.
func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	ctx, span := es.startSpan(ctx, spanNameQuery, map[string]string{spanAttrOperation: operationQuery})
	start := time.Now()

	sqlQuery, err := es.buildSelectQuery(filter)
	if err != nil {
		es.observeFailure(ctx, span, operationQuery, errorTypeBuildQuery, time.Since(start), logMsgBuildSelectQueryFailed, err)
		return nil, 0, err
	}

	replicaAllowed := eventstore.GetConsistencyLevel(ctx) == eventstore.EventualConsistency

	rows, err := es.db.Query(ctx, sqlQuery, replicaAllowed)
	duration := time.Since(start)
	es.logSQL(ctx, sqlQuery, operationQuery, duration)

	if err != nil {
		es.observeFailure(ctx, span, operationQuery, errorTypeDatabaseQuery, duration, logMsgDBQueryFailed, err, logAttrQuery, sqlQuery)
		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, err)
	}
	defer es.closeRows(ctx, rows)

	events, maxSequenceNumber, errorType, err := es.scanRows(rows)
	if err != nil {
		es.observeFailure(ctx, span, operationQuery, errorType, time.Since(start), logMsgScanRowFailed, err)
		return nil, 0, err
	}

	duration = time.Since(start)
	es.logOperation(ctx, logMsgQueryCompleted, logAttrEventCount, len(events), logAttrDurationMS, toMilliseconds(duration))
	es.recordDuration(ctx, metricQueryDuration, duration, operationQuery, statusSuccess)
	es.recordValue(ctx, metricEventsQueried, float64(len(events)), operationQuery, statusSuccess)
	es.finishSpan(span, statusSuccess, map[string]string{
		spanAttrEventCount:  fmt.Sprintf("%d", len(events)),
		spanAttrMaxSequence: fmt.Sprintf("%d", maxSequenceNumber),
	})

	return events, maxSequenceNumber, nil
}

func (es *EventStore) scanRows(rows adapters.DBRows) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	string,
	error,
) {

	events := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)
	row := queryResultRow{}

	for rows.Next() {
		if err := rows.Scan(&row.eventType, &row.occurredAt, &row.payload, &row.metadata, &row.sequenceNumber); err != nil {
			return nil, 0, errorTypeRowScan, errors.Join(eventstore.ErrScanningDBRowFailed, err)
		}

		event, err := eventstore.BuildStorableEvent(row.eventType, row.occurredAt, row.payload, row.metadata)
		if err != nil {
			return nil, 0, errorTypeBuildStorableEvent, errors.Join(eventstore.ErrBuildingStorableEventFailed, err)
		}

		events = append(events, event)
		maxSequenceNumber = row.sequenceNumber
	}

	if err := rows.Err(); err != nil {
		return nil, 0, errorTypeRowScan, errors.Join(eventstore.ErrScanningDBRowFailed, err)
	}

	return events, maxSequenceNumber, "", nil
}

func (es *EventStore) closeRows(ctx context.Context, rows adapters.DBRows) {
	if err := rows.Close(); err != nil {
		es.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, err.Error())
	}
}

// Append appends events atomically, provided that the max sequence number of the events matching
// filter still equals expectedMaxSequenceNumber. Otherwise, nothing is written and
// eventstore.ErrConcurrencyConflict is returned.
//
// filter must be the one used for the Query the decision was based on.
func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	events ...eventstore.StorableEvent,
) error {

	if len(events) == 0 {
		return eventstore.ErrEmptyEventsToAppend
	}

	ctx, span := es.startSpan(ctx, spanNameAppend, map[string]string{
		spanAttrOperation:   operationAppend,
		spanAttrEventCount:  fmt.Sprintf("%d", len(events)),
		spanAttrEventType:   events[0].EventType,
		spanAttrExpectedSeq: fmt.Sprintf("%d", expectedMaxSequenceNumber),
	})
	start := time.Now()

	sqlQuery, err := es.buildInsertQuery(events, filter, expectedMaxSequenceNumber)
	if err != nil {
		es.observeFailure(ctx, span, operationAppend, errorTypeBuildQuery, time.Since(start), logMsgBuildInsertQueryFailed, err)
		return err
	}

	lockQuery, err := es.buildAppendLockQuery()
	if err != nil {
		es.observeFailure(ctx, span, operationAppend, errorTypeBuildQuery, time.Since(start), logMsgBuildInsertQueryFailed, err)
		return err
	}

	result, err := es.db.ExecLocked(ctx, lockQuery, sqlQuery)
	duration := time.Since(start)
	es.logSQL(ctx, sqlQuery, operationAppend, duration)

	if err != nil {
		es.observeFailure(ctx, span, operationAppend, errorTypeDatabaseExec, duration, logMsgDBExecFailed, err, logAttrQuery, sqlQuery)
		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		es.observeFailure(ctx, span, operationAppend, errorTypeRowsAffected, duration, logMsgRowsAffectedFailed, err)
		return errors.Join(eventstore.ErrGettingRowsAffectedFailed, err)
	}

	if rowsAffected < int64(len(events)) {
		es.logOperation(
			ctx,
			logMsgConcurrencyConflict,
			logAttrExpectedEvents, len(events),
			logAttrRowsAffected, rowsAffected,
			logAttrExpectedSequence, expectedMaxSequenceNumber,
		)
		es.recordDuration(ctx, metricAppendDuration, duration, operationAppend, statusError)
		es.incrementCounter(ctx, metricConcurrencyConflicts, map[string]string{spanAttrOperation: operationAppend})
		es.finishSpan(span, statusConflict, map[string]string{spanAttrErrorType: errorTypeConcurrencyConflict})

		return eventstore.ErrConcurrencyConflict
	}

	es.logOperation(ctx, logMsgEventsAppended, logAttrEventCount, len(events), logAttrDurationMS, toMilliseconds(duration))
	es.recordDuration(ctx, metricAppendDuration, duration, operationAppend, statusSuccess)
	es.recordValue(ctx, metricEventsAppended, float64(len(events)), operationAppend, statusSuccess)
	es.finishSpan(span, statusSuccess, map[string]string{spanAttrRowsAffected: fmt.Sprintf("%d", rowsAffected)})

	return nil
}

func (es *EventStore) buildSelectQuery(filter eventstore.Filter) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(es.eventTableName).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	selectStmt, err := es.addWhereClause(filter, selectStmt)
	if err != nil {
		return "", err
	}

	sqlQuery, _, err := selectStmt.ToSQL()
	if err != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, err)
	}

	return sqlQuery, nil
}

// buildAppendLockQuery builds the statement that serializes all appends to the events table.
// Under READ COMMITTED the conditional INSERT takes its snapshot after the lock is granted,
// so it sees every event committed by the previous lock holder.
func (es *EventStore) buildAppendLockQuery() (sqlQueryString, error) {
	sqlQuery, _, err := goqu.Dialect(dialectPostgres).
		Select(goqu.Func(funcAdvisoryXactLock, goqu.Func(funcHashText, es.eventTableName))).
		ToSQL()
	if err != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, err)
	}

	return sqlQuery, nil
}

// buildInsertQuery builds one INSERT ... SELECT statement. The CTE "context" computes the current
// max sequence number of the filter; the SELECT only yields rows when it equals the expectation.
// With several events, their values come from a UNION ALL in the CTE "vals", so that either all
// or none of them are inserted.
func (es *EventStore) buildInsertQuery(
	events eventstore.StorableEvents,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt, err := es.addWhereClause(
		filter,
		builder.From(es.eventTableName).Select(goqu.MAX(colSequenceNumber).As(aliasMaxSeq)),
	)
	if err != nil {
		return "", err
	}

	expectationMet := goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber))

	var insertStmt *goqu.InsertDataset

	if len(events) == 1 {
		event := events[0]
		insertStmt = builder.
			Insert(es.eventTableName).
			Cols(colEventType, colOccurredAt, colPayload, colMetadata).
			With(cteContext, cteStmt).
			FromQuery(
				builder.From(cteContext).
					Select(
						goqu.L(castText, event.EventType),
						goqu.L(castTimestamp, event.OccurredAt),
						goqu.L(castJsonb, string(event.PayloadJSON)),
						goqu.L(castJsonb, string(event.MetadataJSON)),
					).
					Where(expectationMet),
			)
	} else {
		var valuesStmt *goqu.SelectDataset

		for _, event := range events {
			row := builder.Select(
				goqu.L(castText, event.EventType).As(colEventType),
				goqu.L(castTimestamp, event.OccurredAt).As(colOccurredAt),
				goqu.L(castJsonb, string(event.PayloadJSON)).As(colPayload),
				goqu.L(castJsonb, string(event.MetadataJSON)).As(colMetadata),
			)

			if valuesStmt == nil {
				valuesStmt = row
				continue
			}

			valuesStmt = valuesStmt.UnionAll(row)
		}

		insertStmt = builder.
			Insert(es.eventTableName).
			Cols(colEventType, colOccurredAt, colPayload, colMetadata).
			With(cteContext, cteStmt).
			With(cteVals, valuesStmt).
			FromQuery(
				builder.From(cteContext, cteVals).
					Select(
						goqu.I(cteVals+"."+colEventType),
						goqu.I(cteVals+"."+colOccurredAt),
						goqu.I(cteVals+"."+colPayload),
						goqu.I(cteVals+"."+colMetadata),
					).
					Where(expectationMet),
			)
	}

	sqlQuery, _, err := insertStmt.ToSQL()
	if err != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, err)
	}

	return sqlQuery, nil
}

func (es *EventStore) addWhereClause(filter eventstore.Filter, selectStmt *goqu.SelectDataset) (*goqu.SelectDataset, error) {
	if filter.IsEmpty() {
		return selectStmt, nil
	}

	itemExpressions := make([]exp.Expression, 0, len(filter.Items()))

	for _, item := range filter.Items() {
		eventTypeExpressions := make([]exp.Expression, 0, len(item.EventTypes()))
		for _, eventType := range item.EventTypes() {
			eventTypeExpressions = append(eventTypeExpressions, goqu.Ex{colEventType: eventType})
		}

		predicateExpressions := make([]exp.Expression, 0, len(item.Predicates()))
		for _, predicate := range item.Predicates() {
			predicateJSON, err := json.Marshal(map[string]string{predicate.Key(): predicate.Val()})
			if err != nil {
				return nil, errors.Join(eventstore.ErrBuildingQueryFailed, err)
			}

			predicateExpressions = append(predicateExpressions, goqu.L(payloadContains, string(predicateJSON)))
		}

		conditions := make([]exp.Expression, 0, 2)

		if len(eventTypeExpressions) > 0 {
			conditions = append(conditions, goqu.Or(eventTypeExpressions...))
		}

		if len(predicateExpressions) > 0 {
			if item.AllPredicatesMustMatch() {
				conditions = append(conditions, goqu.And(predicateExpressions...))
			} else {
				conditions = append(conditions, goqu.Or(predicateExpressions...))
			}
		}

		if len(conditions) > 0 {
			itemExpressions = append(itemExpressions, goqu.And(conditions...))
		}
	}

	return selectStmt.Where(goqu.Or(itemExpressions...)), nil
}
