package postgresengine

import (
	"context"
	"errors"
	"fmt"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/eventstore"
)

// ErrInvalidEventsTableName is returned for table names which are not plain SQL identifiers.
var ErrInvalidEventsTableName = errors.New("events table name must be a plain identifier")

const logMsgSchemaCreated = "schema created"

const schemaTemplate = `
CREATE TABLE IF NOT EXISTS %[1]s (
	sequence_number  BIGSERIAL PRIMARY KEY,
	occurred_at      TIMESTAMPTZ NOT NULL,
	event_type       TEXT NOT NULL,
	payload          JSONB NOT NULL,
	metadata         JSONB NOT NULL,
	append_timestamp TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
);
CREATE INDEX IF NOT EXISTS %[1]s_event_type_idx ON %[1]s (event_type);
CREATE INDEX IF NOT EXISTS %[1]s_payload_idx ON %[1]s USING gin (payload jsonb_path_ops);
`

// SchemaSQL returns the DDL which creates the events table and its indexes.
func (es EventStore) SchemaSQL() string {
	return fmt.Sprintf(schemaTemplate, es.eventTableName)
}

// CreateSchema creates the events table and its indexes if they don't exist yet.
func (es EventStore) CreateSchema(ctx context.Context) error {
	ddl := es.SchemaSQL()

	// lib/pq and pgx both accept multiple statements in a simple (non-prepared) Exec.
	if _, err := es.db.Exec(ctx, ddl); err != nil {
		if es.logger != nil {
			es.logger.Error(logMsgDBExecFailed, logAttrError, err.Error(), logAttrQuery, ddl)
		}

		return errors.Join(eventstore.ErrCreatingSchemaFailed, err)
	}

	es.logOperation(logMsgSchemaCreated, logAttrTable, es.eventTableName)

	return nil
}
