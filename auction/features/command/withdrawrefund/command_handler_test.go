package withdrawrefund_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/core"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/features/command/placebid"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/features/command/startauction"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/features/command/withdrawrefund"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/shell"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/bank/membank"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/eventstore/memengine"
)

var errBankDown = errors.New("bank is down")

// refusingWithdrawalsBank delegates to membank but fails every withdrawal.
type refusingWithdrawalsBank struct {
	*membank.Bank
}

func (b refusingWithdrawalsBank) Transfer(ctx context.Context, transfer shell.Transfer) error {
	if strings.Contains(transfer.ID, "/"+shell.TransferKindWithdrawal+"/") {
		return errBankDown
	}

	return b.Bank.Transfer(ctx, transfer)
}

func Test_CommandHandler_Handle_Success_PaysOutOfEscrow(t *testing.T) {
	// arrange
	ctx, es, b, auctionID := setupOutbidAlice(t)
	handler := withdrawrefund.NewCommandHandler(es, b)

	// act
	result, err := handler.Handle(ctx, withdrawrefund.BuildCommand(auctionID, "alice", auctionStart.Add(5*time.Minute)))

	// assert
	require.NoError(t, err)
	assert.False(t, result.Idempotent)
	assert.True(t, decimal.RequireFromString("10").Equal(b.BalanceOf("alice")))
	assert.True(t, decimal.RequireFromString("2").Equal(b.BalanceOf(core.EscrowAccountOf(auctionID.String()))))
	assert.True(t, pendingReturnOf(ctx, t, es, auctionID, "alice").IsZero())
}

func Test_CommandHandler_Handle_SecondWithdrawalIsNoOp(t *testing.T) {
	// arrange
	ctx, es, b, auctionID := setupOutbidAlice(t)
	handler := withdrawrefund.NewCommandHandler(es, b)
	command := withdrawrefund.BuildCommand(auctionID, "alice", auctionStart.Add(5*time.Minute))
	_, err := handler.Handle(ctx, command)
	require.NoError(t, err)

	// act
	result, err := handler.Handle(ctx, command)

	// assert
	require.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.True(t, decimal.RequireFromString("10").Equal(b.BalanceOf("alice")))
}

func Test_CommandHandler_Handle_FailedTransfer_RestoresLedger(t *testing.T) {
	// arrange
	ctx, es, b, auctionID := setupOutbidAlice(t)
	handler := withdrawrefund.NewCommandHandler(es, refusingWithdrawalsBank{Bank: b})

	// act
	_, err := handler.Handle(ctx, withdrawrefund.BuildCommand(auctionID, "alice", auctionStart.Add(5*time.Minute)))

	// assert
	assert.ErrorIs(t, err, core.ErrTransferFailed)
	assert.ErrorIs(t, err, errBankDown)
	assert.True(t, decimal.RequireFromString("1").Equal(pendingReturnOf(ctx, t, es, auctionID, "alice")))
	assert.True(t, decimal.RequireFromString("9").Equal(b.BalanceOf("alice")))
	assert.True(t, decimal.RequireFromString("3").Equal(b.BalanceOf(core.EscrowAccountOf(auctionID.String()))))
}

func setupOutbidAlice(t *testing.T) (context.Context, *memengine.EventStore, *membank.Bank, uuid.UUID) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	es := memengine.NewEventStore()
	b := membank.New()
	b.Mint("alice", decimal.RequireFromString("10"))
	b.Mint("bob", decimal.RequireFromString("10"))
	auctionID := uuid.New()

	_, err := startauction.NewCommandHandler(es).Handle(ctx, startauction.BuildCommand(auctionID, "beneficiary", time.Hour, auctionStart))
	require.NoError(t, err)

	bidHandler := placebid.NewCommandHandler(es, b)
	_, err = bidHandler.Handle(ctx, placebid.BuildCommand(auctionID, "alice", decimal.RequireFromString("1"), auctionStart.Add(time.Minute)))
	require.NoError(t, err)
	_, err = bidHandler.Handle(ctx, placebid.BuildCommand(auctionID, "bob", decimal.RequireFromString("2"), auctionStart.Add(2*time.Minute)))
	require.NoError(t, err)

	return ctx, es, b, auctionID
}

func pendingReturnOf(ctx context.Context, t *testing.T, es *memengine.EventStore, auctionID uuid.UUID, account string) core.Amount {
	t.Helper()

	events, _, err := es.Query(eventstore.WithStrongConsistency(ctx), withdrawrefund.BuildEventFilter(auctionID))
	require.NoError(t, err)

	history, err := shell.DomainEventsFrom(events)
	require.NoError(t, err)

	return core.ProjectAuctionState(history).PendingReturnOf(account)
}
