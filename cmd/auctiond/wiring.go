package main

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/api/httpapi"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/core"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/features/command/endauction"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/features/command/placebid"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/features/command/startauction"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/features/command/withdrawrefund"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/features/query/auctionstatus"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/shell"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/shell/config"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/shell/observable"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/bank/membank"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/bank/redisbank"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/eventstore/memengine"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/eventstore/oteladapters"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/eventstore/postgresengine"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/notify/natspublisher"
)

const instrumentationName = "github.com/AntonStoeckl/dynamic-streams-auction-go"

// eventStore is what all command handlers together need from an engine.
type eventStore interface {
	endauction.EventStore
}

// fundedBank is a bank which can also credit accounts from outside the system.
type fundedBank struct {
	shell.TransfersValue
	mint func(ctx context.Context, account core.AccountID, amount core.Amount) error
}

// Fund credits amount to account.
func (b fundedBank) Fund(ctx context.Context, account core.AccountID, amount core.Amount) error {
	return b.mint(ctx, account, amount)
}

func noClose() {}

func openEventStore(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (eventStore, func(), error) {
	if cfg.DSN == "" {
		logger.Info("using in-memory event store")
		return memengine.NewEventStore(memengine.WithLogger(logger)), noClose, nil
	}

	return openPostgresEventStore(ctx, cfg, logger)
}

func openPostgresEventStore(
	ctx context.Context,
	cfg config.DatabaseConfig,
	logger *slog.Logger,
) (postgresengine.EventStore, func(), error) {

	options := []postgresengine.Option{
		postgresengine.WithTableName(cfg.Table),
		postgresengine.WithLogger(logger),
	}

	logger.Info("using postgres event store",
		"adapter", cfg.Adapter,
		"table", cfg.Table,
		"replica", cfg.ReplicaDSN != "",
	)

	switch cfg.Adapter {
	case config.AdapterSQLDB:
		return openSQLDBEventStore(ctx, cfg, options)
	case config.AdapterSQLXDB:
		return openSQLXEventStore(ctx, cfg, options)
	default:
		return openPGXEventStore(ctx, cfg, options)
	}
}

func openPGXEventStore(
	ctx context.Context,
	cfg config.DatabaseConfig,
	options []postgresengine.Option,
) (postgresengine.EventStore, func(), error) {

	pool, err := config.NewPGXPool(ctx, cfg.DSN)
	if err != nil {
		return postgresengine.EventStore{}, noClose, err
	}

	if cfg.ReplicaDSN == "" {
		es, err := postgresengine.NewEventStoreFromPGXPool(pool, options...)
		return es, pool.Close, err
	}

	replica, err := config.NewPGXPool(ctx, cfg.ReplicaDSN)
	if err != nil {
		return postgresengine.EventStore{}, pool.Close, err
	}

	es, err := postgresengine.NewEventStoreFromPGXPoolAndReplica(pool, replica, options...)

	return es, func() { replica.Close(); pool.Close() }, err
}

func openSQLDBEventStore(
	ctx context.Context,
	cfg config.DatabaseConfig,
	options []postgresengine.Option,
) (postgresengine.EventStore, func(), error) {

	db, err := config.OpenSQLDB(ctx, cfg.DSN)
	if err != nil {
		return postgresengine.EventStore{}, noClose, err
	}
	closeDB := func() { _ = db.Close() }

	if cfg.ReplicaDSN == "" {
		es, err := postgresengine.NewEventStoreFromSQLDB(db, options...)
		return es, closeDB, err
	}

	replica, err := config.OpenSQLDB(ctx, cfg.ReplicaDSN)
	if err != nil {
		return postgresengine.EventStore{}, closeDB, err
	}

	es, err := postgresengine.NewEventStoreFromSQLDBAndReplica(db, replica, options...)

	return es, func() { _ = replica.Close(); closeDB() }, err
}

func openSQLXEventStore(
	ctx context.Context,
	cfg config.DatabaseConfig,
	options []postgresengine.Option,
) (postgresengine.EventStore, func(), error) {

	db, err := config.OpenSQLX(ctx, cfg.DSN)
	if err != nil {
		return postgresengine.EventStore{}, noClose, err
	}
	closeDB := func() { _ = db.Close() }

	if cfg.ReplicaDSN == "" {
		es, err := postgresengine.NewEventStoreFromSQLX(db, options...)
		return es, closeDB, err
	}

	replica, err := config.OpenSQLX(ctx, cfg.ReplicaDSN)
	if err != nil {
		return postgresengine.EventStore{}, closeDB, err
	}

	es, err := postgresengine.NewEventStoreFromSQLXAndReplica(db, replica, options...)

	return es, func() { _ = replica.Close(); closeDB() }, err
}

func openBank(cfg config.RedisConfig, logger *slog.Logger) (fundedBank, func(), error) {
	if cfg.Addr == "" {
		logger.Info("using in-memory bank")
		bank := membank.New(membank.WithLogger(logger))

		return fundedBank{
			TransfersValue: bank,
			mint: func(_ context.Context, account core.AccountID, amount core.Amount) error {
				bank.Mint(account, amount)
				return nil
			},
		}, noClose, nil
	}

	client, err := redisbank.NewClient(cfg.Addr, cfg.Password, cfg.DB)
	if err != nil {
		return fundedBank{}, noClose, err
	}

	logger.Info("using redis bank", "addr", cfg.Addr)
	bank := redisbank.New(client)

	return fundedBank{TransfersValue: bank, mint: bank.Mint}, func() { _ = client.Close() }, nil
}

func openSettlementPublisher(cfg config.NATSConfig, logger *slog.Logger) (endauction.SettlementPublisher, func(), error) {
	if cfg.URL == "" {
		return nil, noClose, nil
	}

	conn, err := natspublisher.Connect(cfg.URL)
	if err != nil {
		return nil, noClose, err
	}

	logger.Info("publishing settlement records", "url", cfg.URL)

	return natspublisher.New(conn), func() { _ = conn.Drain() }, nil
}

func openObservability(ctx context.Context, cfg config.OTelConfig) (func(context.Context) error, error) {
	if cfg.Endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	providers, err := config.NewObservabilityProviders(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return providers.Shutdown, nil
}

// buildHandlers wires the feature handlers and wraps each with metrics, tracing and logging.
func buildHandlers(
	es eventStore,
	bank shell.TransfersValue,
	publisher endauction.SettlementPublisher,
	logger *slog.Logger,
) httpapi.Handlers {

	metrics := oteladapters.NewMetricsCollector(otel.Meter(instrumentationName))
	tracer := otel.Tracer(instrumentationName)

	endOptions := []endauction.Option{endauction.WithLogger(logger)}
	if publisher != nil {
		endOptions = append(endOptions, endauction.WithSettlementPublisher(publisher))
	}

	return httpapi.Handlers{
		StartAuction: observable.NewCommandWrapper[startauction.Command](
			startauction.NewCommandHandler(es),
			observable.WithCommandMetrics[startauction.Command](metrics),
			observable.WithCommandTracing[startauction.Command](tracer),
			observable.WithCommandLogging[startauction.Command](logger),
		),
		PlaceBid: observable.NewCommandWrapper[placebid.Command](
			placebid.NewCommandHandler(es, bank),
			observable.WithCommandMetrics[placebid.Command](metrics),
			observable.WithCommandTracing[placebid.Command](tracer),
			observable.WithCommandLogging[placebid.Command](logger),
		),
		WithdrawRefund: observable.NewCommandWrapper[withdrawrefund.Command](
			withdrawrefund.NewCommandHandler(es, bank),
			observable.WithCommandMetrics[withdrawrefund.Command](metrics),
			observable.WithCommandTracing[withdrawrefund.Command](tracer),
			observable.WithCommandLogging[withdrawrefund.Command](logger),
		),
		EndAuction: observable.NewCommandWrapper[endauction.Command](
			endauction.NewCommandHandler(es, bank, endOptions...),
			observable.WithCommandMetrics[endauction.Command](metrics),
			observable.WithCommandTracing[endauction.Command](tracer),
			observable.WithCommandLogging[endauction.Command](logger),
		),
		AuctionStatus: observable.NewQueryWrapper[auctionstatus.Query, auctionstatus.AuctionStatus](
			auctionstatus.NewQueryHandler(es),
			observable.WithQueryMetrics[auctionstatus.Query, auctionstatus.AuctionStatus](metrics),
			observable.WithQueryTracing[auctionstatus.Query, auctionstatus.AuctionStatus](tracer),
			observable.WithQueryLogging[auctionstatus.Query, auctionstatus.AuctionStatus](logger),
		),
	}
}

// closeAll runs closers in reverse order.
func closeAll(closers []func()) {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
}
