package auctionstatus_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/core"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/features/command/endauction"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/features/command/placebid"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/features/command/startauction"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/features/command/withdrawrefund"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/features/query/auctionstatus"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/bank/membank"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/eventstore/memengine"
)

type testHandlers struct {
	startAuction   startauction.CommandHandler
	placeBid       placebid.CommandHandler
	withdrawRefund withdrawrefund.CommandHandler
	endAuction     endauction.CommandHandler
	query          auctionstatus.QueryHandler
}

func Test_QueryHandler_Handle_UnknownAuction(t *testing.T) {
	// setup
	ctx, handlers, _ := setupTestEnvironment(t)

	// act
	_, err := handlers.query.Handle(ctx, auctionstatus.BuildQuery(uuid.New()))

	// assert
	assert.ErrorIs(t, err, core.ErrAuctionNotFound)
}

func Test_QueryHandler_Handle_FreshAuction(t *testing.T) {
	// setup
	ctx, handlers, _ := setupTestEnvironment(t)
	fakeClock := time.Unix(0, 0).UTC()
	auctionID := uuid.New()

	// arrange
	_, err := handlers.startAuction.Handle(ctx, startauction.BuildCommand(auctionID, "beneficiary", 600*time.Second, fakeClock))
	require.NoError(t, err)

	// act
	status, err := handlers.query.Handle(ctx, auctionstatus.BuildQuery(auctionID))

	// assert
	require.NoError(t, err)
	assert.Equal(t, auctionID.String(), status.AuctionID)
	assert.Equal(t, fakeClock.Add(600*time.Second), status.AuctionEndTime)
	assert.Empty(t, status.HighestBidder)
	assert.True(t, status.HighestBid.IsZero())
	assert.False(t, status.Ended)
	assert.Empty(t, status.PendingReturns)
	assert.Equal(t, int64(60), status.CooldownPeriodSeconds)
	assert.Equal(t, int64(60), status.ExtensionWindowSeconds)
	assert.Equal(t, int64(60), status.ExtensionIncrementSeconds)
	assert.Equal(t, uint(1), status.SequenceNumber)
}

//nolint:funlen
func Test_Scenario_BidOutbidEndAndSettle(t *testing.T) {
	// setup
	ctx, handlers, b := setupTestEnvironment(t)
	fakeClock := time.Unix(0, 0).UTC()
	auctionID := uuid.New()
	b.Mint("bidder1", givenAmount("10"))
	b.Mint("bidder2", givenAmount("10"))

	_, err := handlers.startAuction.Handle(ctx, startauction.BuildCommand(auctionID, "B", 600*time.Second, fakeClock))
	require.NoError(t, err)

	// Bidder1 bids 1 unit
	_, err = handlers.placeBid.Handle(ctx, placebid.BuildCommand(auctionID, "bidder1", givenAmount("1"), fakeClock.Add(10*time.Second)))
	require.NoError(t, err)

	status := queryStatus(ctx, t, handlers, auctionID)
	assert.Equal(t, "bidder1", status.HighestBidder)
	assert.True(t, givenAmount("1").Equal(status.HighestBid))

	// Bidder2 bids 2 units
	_, err = handlers.placeBid.Handle(ctx, placebid.BuildCommand(auctionID, "bidder2", givenAmount("2"), fakeClock.Add(20*time.Second)))
	require.NoError(t, err)

	status = queryStatus(ctx, t, handlers, auctionID)
	assert.Equal(t, "bidder2", status.HighestBidder)
	assert.True(t, givenAmount("2").Equal(status.HighestBid))
	assert.True(t, givenAmount("1").Equal(status.PendingReturnOf("bidder1")))

	// Bidder2 bids 0.5 unit before the cooldown elapsed
	_, err = handlers.placeBid.Handle(ctx, placebid.BuildCommand(auctionID, "bidder2", givenAmount("0.5"), fakeClock.Add(30*time.Second)))
	var notHighEnough core.BidNotHighEnoughError
	require.ErrorAs(t, err, &notHighEnough)
	assert.True(t, givenAmount("2").Equal(notHighEnough.HighestBid))

	// past the deadline, Bidder1 bids
	afterDeadline := fakeClock.Add(601 * time.Second)
	_, err = handlers.placeBid.Handle(ctx, placebid.BuildCommand(auctionID, "bidder1", givenAmount("3"), afterDeadline))
	assert.ErrorIs(t, err, core.ErrAuctionAlreadyEnded)

	// settlement
	_, err = handlers.endAuction.Handle(ctx, endauction.BuildCommand(auctionID, afterDeadline))
	require.NoError(t, err)

	status = queryStatus(ctx, t, handlers, auctionID)
	assert.True(t, status.Ended)
	assert.True(t, givenAmount("2").Equal(b.BalanceOf("B")))

	// second settlement
	_, err = handlers.endAuction.Handle(ctx, endauction.BuildCommand(auctionID, afterDeadline.Add(time.Second)))
	assert.ErrorIs(t, err, core.ErrAuctionEndAlready)
	assert.True(t, givenAmount("2").Equal(b.BalanceOf("B")))

	// Bidder1 pulls the refund after settlement
	_, err = handlers.withdrawRefund.Handle(ctx, withdrawrefund.BuildCommand(auctionID, "bidder1", afterDeadline.Add(time.Minute)))
	require.NoError(t, err)

	status = queryStatus(ctx, t, handlers, auctionID)
	assert.True(t, status.PendingReturnOf("bidder1").IsZero())
	assert.True(t, status.EscrowBalance.IsZero())
	assert.True(t, givenAmount("10").Equal(b.BalanceOf("bidder1")))
	assert.True(t, givenAmount("8").Equal(b.BalanceOf("bidder2")))
	assert.True(t, b.BalanceOf(core.EscrowAccountOf(auctionID.String())).IsZero())
}

func setupTestEnvironment(t *testing.T) (context.Context, testHandlers, *membank.Bank) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	es := memengine.NewEventStore()
	b := membank.New()

	return ctx, testHandlers{
		startAuction:   startauction.NewCommandHandler(es),
		placeBid:       placebid.NewCommandHandler(es, b),
		withdrawRefund: withdrawrefund.NewCommandHandler(es, b),
		endAuction:     endauction.NewCommandHandler(es, b),
		query:          auctionstatus.NewQueryHandler(es),
	}, b
}

func queryStatus(ctx context.Context, t *testing.T, handlers testHandlers, auctionID uuid.UUID) auctionstatus.AuctionStatus {
	t.Helper()

	status, err := handlers.query.Handle(ctx, auctionstatus.BuildQuery(auctionID))
	require.NoError(t, err)

	return status
}

func givenAmount(amount string) core.Amount {
	return decimal.RequireFromString(amount)
}
