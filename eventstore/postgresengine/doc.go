// Package postgresengine provides a PostgreSQL implementation of the auction event store.
//
// Every auction is a "dynamic event stream" selected by an eventstore.Filter. Appends are guarded by a CTE
// which compares the stream's MAX(sequence_number) with the sequence number the caller decided on,
// so a concurrent writer turns into eventstore.ErrConcurrencyConflict instead of a lost update.
//
// AppendWithSideEffect additionally serializes writers of the same stream with a transaction-scoped
// advisory lock and runs a side effect (a value transfer) before the commit. If the side effect fails,
// the appended events are rolled back.
//
// Usage examples:
//
//	db, _ := pgxpool.New(ctx, dsn)
//	store, _ := postgresengine.NewEventStoreFromPGXPool(
//		db,
//		postgresengine.WithTableName("auction_events"),
//		postgresengine.WithLogger(slog.Default()),
//	)
//	_ = store.CreateSchema(ctx)
//
//	events, maxSeq, _ := store.Query(ctx, filter)
//	err := store.AppendWithSideEffect(ctx, filter, maxSeq, transfer, newEvent)
package postgresengine
