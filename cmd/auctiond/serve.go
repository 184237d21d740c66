package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/api/httpapi"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

// ErrInvalidFunding is returned for a --fund value which is not account=amount with a positive amount.
var ErrInvalidFunding = errors.New("invalid funding")

func newServeCommand(v *viper.Viper) *cobra.Command {
	var funding map[string]string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the auction HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), v, cmd, funding)
		},
	}

	cmd.Flags().StringToStringVar(&funding, "fund", nil, "credit accounts at startup, e.g. --fund alice=100,bob=50")

	return cmd
}

func serve(ctx context.Context, v *viper.Viper, cmd *cobra.Command, funding map[string]string) error {
	cfg, logger, err := loadConfig(v, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	grants, err := parseFunding(funding)
	if err != nil {
		return err
	}

	shutdownObservability, err := openObservability(ctx, cfg.OTel)
	if err != nil {
		return fmt.Errorf("failed to set up observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if shutdownErr := shutdownObservability(shutdownCtx); shutdownErr != nil {
			logger.Warn("observability shutdown failed", "error", shutdownErr.Error())
		}
	}()

	var closers []func()
	defer func() { closeAll(closers) }()

	es, closeStore, err := openEventStore(ctx, cfg.Database, logger)
	closers = append(closers, closeStore)
	if err != nil {
		return fmt.Errorf("failed to create event store: %w", err)
	}

	bank, closeBank, err := openBank(cfg.Redis, logger)
	closers = append(closers, closeBank)
	if err != nil {
		return fmt.Errorf("failed to create bank: %w", err)
	}

	for account, amount := range grants {
		if fundErr := bank.Fund(ctx, account, amount); fundErr != nil {
			return fmt.Errorf("failed to fund %s: %w", account, fundErr)
		}
		logger.Info("account funded", "account", account, "amount", amount.String())
	}

	publisher, closePublisher, err := openSettlementPublisher(cfg.NATS, logger)
	closers = append(closers, closePublisher)
	if err != nil {
		return fmt.Errorf("failed to connect to nats: %w", err)
	}

	api := httpapi.NewServer(
		buildHandlers(es, bank, publisher, logger),
		httpapi.WithRules(cfg.Rules.ToRules()),
		httpapi.WithLogger(logger),
	)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.Routes(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.ListenAddr)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err = <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil

	case <-ctx.Done():
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	}
}

func parseFunding(funding map[string]string) (map[string]decimal.Decimal, error) {
	grants := make(map[string]decimal.Decimal, len(funding))

	for account, raw := range funding {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, errors.Join(ErrInvalidFunding, err)
		}

		if account == "" || !amount.IsPositive() {
			return nil, fmt.Errorf("%w: %s=%s", ErrInvalidFunding, account, raw)
		}

		grants[account] = amount
	}

	return grants, nil
}
