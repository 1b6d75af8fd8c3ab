package eventstore

import (
	"errors"
)

var (
	// ErrConcurrencyConflict is returned by Append when another event matching the same Filter
	// was appended after the Query that produced the expected max sequence number.
	ErrConcurrencyConflict = errors.New("concurrency conflict: the event stream was modified concurrently")

	ErrEmptyEventsTableName  = errors.New("events table name must not be empty")
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")
	ErrEmptyEventsToAppend   = errors.New("at least one event must be supplied to append")

	ErrQueryingEventsFailed        = errors.New("querying events failed")
	ErrScanningDBRowFailed         = errors.New("scanning db row failed")
	ErrBuildingStorableEventFailed = errors.New("building storable event failed")
	ErrBuildingQueryFailed         = errors.New("building query failed")
	ErrAppendingEventFailed        = errors.New("appending event(s) failed")
	ErrGettingRowsAffectedFailed   = errors.New("getting rows affected failed")
)

// MaxSequenceNumberUint is the highest sequence number of a "dynamic event stream",
// which is the set of events matched by one Filter.
type MaxSequenceNumberUint = uint
