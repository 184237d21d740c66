// Package config provides the process configuration of the auction service
// and the PostgreSQL connection pool setup for pgx, database/sql and sqlx.
package config
