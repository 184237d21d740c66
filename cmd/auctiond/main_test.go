package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/api/httpapi"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/shell"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/shell/config"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/eventstore"
)

func Test_NewLogger(t *testing.T) {
	testCases := []struct {
		level     string
		wantLevel slog.Level
	}{
		{level: "debug", wantLevel: slog.LevelDebug},
		{level: "INFO", wantLevel: slog.LevelInfo},
		{level: "warn", wantLevel: slog.LevelWarn},
		{level: "error", wantLevel: slog.LevelError},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			// act
			logger, err := newLogger(tc.level, io.Discard)

			// assert
			require.NoError(t, err)
			assert.True(t, logger.Enabled(context.Background(), tc.wantLevel))
			assert.False(t, logger.Enabled(context.Background(), tc.wantLevel-1))
		})
	}
}

func Test_NewLogger_RejectsUnknownLevel(t *testing.T) {
	// act
	_, err := newLogger("chatty", io.Discard)

	// assert
	assert.ErrorIs(t, err, ErrUnknownLogLevel)
}

func Test_ParseFunding(t *testing.T) {
	// act
	grants, err := parseFunding(map[string]string{"alice": "100", "bob": "2.5"})

	// assert
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(grants["alice"]))
	assert.True(t, decimal.RequireFromString("2.5").Equal(grants["bob"]))
}

func Test_ParseFunding_RejectsInvalidValues(t *testing.T) {
	testCases := map[string]map[string]string{
		"not a number":    {"alice": "lots"},
		"zero":            {"alice": "0"},
		"negative":        {"alice": "-1"},
		"missing account": {"": "1"},
	}

	for name, funding := range testCases {
		t.Run(name, func(t *testing.T) {
			// act
			_, err := parseFunding(funding)

			// assert
			assert.ErrorIs(t, err, ErrInvalidFunding)
		})
	}
}

func Test_RootCommand_HasSubcommands(t *testing.T) {
	// act
	cmd := newRootCommand()

	// assert
	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"serve", "migrate", "fund"})
}

func Test_Migrate_RequiresDatabase(t *testing.T) {
	// arrange
	t.Setenv("AUCTIOND_DATABASE_DSN", "")
	cmd := newRootCommand()
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"migrate"})

	// act
	err := cmd.ExecuteContext(context.Background())

	// assert
	assert.ErrorIs(t, err, ErrNoDatabase)
}

func Test_Fund_RequiresRedis(t *testing.T) {
	// arrange
	t.Setenv("AUCTIOND_REDIS_ADDR", "")
	cmd := newRootCommand()
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"fund", "alice", "10"})

	// act
	err := cmd.ExecuteContext(context.Background())

	// assert
	assert.ErrorIs(t, err, ErrNoRedis)
}

func Test_InMemoryWiring_ServesAnAuction(t *testing.T) {
	// arrange
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	es, closeStore, err := openEventStore(ctx, config.DatabaseConfig{}, logger)
	require.NoError(t, err)
	defer closeStore()

	bank, closeBank, err := openBank(config.RedisConfig{}, logger)
	require.NoError(t, err)
	defer closeBank()
	require.NoError(t, bank.Fund(ctx, "alice", decimal.NewFromInt(10)))

	publisher, closePublisher, err := openSettlementPublisher(config.NATSConfig{}, logger)
	require.NoError(t, err)
	defer closePublisher()
	assert.Nil(t, publisher)

	server := httptest.NewServer(httpapi.NewServer(buildHandlers(es, bank, publisher, logger)).Routes())
	defer server.Close()

	// act
	created := post(t, server.URL+"/api/v1/auctions", "",
		`{"auctionId":"5f0c1f5e-8a39-4d4e-9a34-0d6a4c3d2b11","beneficiary":"carol","biddingDurationSeconds":600}`)
	bid := post(t, server.URL+"/api/v1/auctions/5f0c1f5e-8a39-4d4e-9a34-0d6a4c3d2b11/bids", "alice",
		`{"amount":"4"}`)

	// assert
	assert.Equal(t, http.StatusCreated, created)
	assert.Equal(t, http.StatusCreated, bid)
}

func Test_OpenPostgresEventStore_WithReplica(t *testing.T) {
	dsn := os.Getenv("AUCTION_TEST_DSN")
	if dsn == "" {
		t.Skip("AUCTION_TEST_DSN is not set")
	}

	for _, adapter := range []string{config.AdapterPGXPool, config.AdapterSQLDB, config.AdapterSQLXDB} {
		t.Run(adapter, func(t *testing.T) {
			// arrange
			cfg := config.DatabaseConfig{DSN: dsn, ReplicaDSN: dsn, Adapter: adapter, Table: "auction_events_test"}
			logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

			// act
			es, closeStore, err := openPostgresEventStore(t.Context(), cfg, logger)
			defer closeStore()

			// assert
			require.NoError(t, err)
			require.NoError(t, es.CreateSchema(t.Context()))
			_, _, queryErr := es.Query(eventstore.WithEventualConsistency(t.Context()), shell.BuildAuctionEventFilter("unknown"))
			assert.NoError(t, queryErr)
		})
	}
}

func post(t *testing.T, url, account, body string) int {
	t.Helper()

	request, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	require.NoError(t, err)
	request.Header.Set("Content-Type", "application/json")
	if account != "" {
		request.Header.Set(httpapi.AccountHeader, account)
	}

	response, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	defer func() { _ = response.Body.Close() }()

	var drained bytes.Buffer
	_, _ = drained.ReadFrom(response.Body)

	return response.StatusCode
}
