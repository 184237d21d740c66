package eventstore

import (
	"context"
	"errors"
)

var (
	ErrEmptyEventsTableName        = errors.New("events table name must not be empty")
	ErrNilDatabaseConnection       = errors.New("database connection must not be nil")
	ErrConcurrencyConflict         = errors.New("concurrency error, no rows were affected")
	ErrQueryingEventsFailed        = errors.New("querying events failed")
	ErrScanningDBRowFailed         = errors.New("scanning db row failed")
	ErrBuildingStorableEventFailed = errors.New("building storable event failed")
	ErrBuildingQueryFailed         = errors.New("building query failed")
	ErrAppendingEventFailed        = errors.New("appending the event failed")
	ErrGettingRowsAffectedFailed   = errors.New("getting rows affected failed")
	ErrTransactionFailed           = errors.New("database transaction failed")
	ErrSideEffectFailed            = errors.New("side effect failed, append was rolled back")
	ErrNoEventsToAppend            = errors.New("no events to append")
	ErrCreatingSchemaFailed        = errors.New("creating the events schema failed")
)

// MaxSequenceNumberUint is a type alias for uint, representing the maximum sequence number for a "dynamic event stream".
type MaxSequenceNumberUint = uint

// SideEffect is executed by AppendWithSideEffect after the events were written, but before they are committed.
// Returning an error rolls back the write.
type SideEffect func(ctx context.Context) error
