// Package adapters provide database adapter implementations for the PostgreSQL event store.
//
// The adapters support pgx.Pool, sql.DB and sqlx.DB behind the common DBAdapter interface,
// including the transactions the engine needs to append events together with a side effect.
package adapters
