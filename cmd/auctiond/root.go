package main

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/shell/config"
)

// ErrUnknownLogLevel is returned for a log.level other than debug, info, warn or error.
var ErrUnknownLogLevel = errors.New("unknown log level")

func newRootCommand() *cobra.Command {
	v := viper.New()
	config.SetDefaults(v)

	cmd := &cobra.Command{
		Use:           "auctiond",
		Short:         "Single-item English auctions with pull refunds",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.String("listen-addr", v.GetString(config.KeyListenAddr), "HTTP listen address")
	flags.String("database-dsn", "", "PostgreSQL DSN, the in-memory event store is used if empty")
	flags.String("database-replica-dsn", "", "PostgreSQL replica DSN for eventually consistent reads")
	flags.String("database-adapter", v.GetString(config.KeyDatabaseAdapter), "pgx.pool, sql.db or sqlx.db")
	flags.String("database-table", v.GetString(config.KeyDatabaseTable), "events table name")
	flags.String("redis-addr", "", "Redis address, the in-memory bank is used if empty")
	flags.String("nats-url", "", "NATS URL for settlement records, disabled if empty")
	flags.String("otel-endpoint", "", "OTLP gRPC endpoint for traces and metrics, disabled if empty")
	flags.String("log-level", v.GetString(config.KeyLogLevel), "debug, info, warn or error")

	bindings := map[string]string{
		config.KeyListenAddr:         "listen-addr",
		config.KeyDatabaseDSN:        "database-dsn",
		config.KeyDatabaseReplicaDSN: "database-replica-dsn",
		config.KeyDatabaseAdapter:    "database-adapter",
		config.KeyDatabaseTable:      "database-table",
		config.KeyRedisAddr:          "redis-addr",
		config.KeyNATSURL:            "nats-url",
		config.KeyOTelEndpoint:       "otel-endpoint",
		config.KeyLogLevel:           "log-level",
	}
	for key, flag := range bindings {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	cmd.AddCommand(
		newServeCommand(v),
		newMigrateCommand(v),
		newFundCommand(v),
	)

	return cmd
}

// loadConfig reads the configuration and builds the JSON logger writing to w.
func loadConfig(v *viper.Viper, w io.Writer) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return config.Config{}, nil, err
	}

	logger, err := newLogger(cfg.Log.Level, w)
	if err != nil {
		return config.Config{}, nil, err
	}

	return cfg, logger, nil
}

func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	var slogLevel slog.Level
	if err := slogLevel.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, errors.Join(ErrUnknownLogLevel, err)
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slogLevel})), nil
}
