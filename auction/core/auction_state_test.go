package core_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/core"
)

var startTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func Test_ProjectAuctionState_WithoutEvents(t *testing.T) {
	// act
	state := core.ProjectAuctionState(core.DomainEvents{})

	// assert
	assert.False(t, state.Started)
	assert.False(t, state.HasBid())
	assert.True(t, state.HighestBid.IsZero())
	assert.True(t, state.IsBalanced())
}

func Test_ProjectAuctionState_CreditsOutbidLeader(t *testing.T) {
	// arrange
	auctionID := uuid.New()
	started := core.BuildAuctionStarted(auctionID, "ben", time.Hour, core.DefaultRules(), startTime)
	history := core.DomainEvents{
		started,
		givenBid(started, "alice", "1", startTime.Add(time.Minute)),
		givenBid(started, "bob", "2", startTime.Add(2*time.Minute)),
		givenBid(started, "alice", "3", startTime.Add(3*time.Minute)),
	}

	// act
	state := core.ProjectAuctionState(history)

	// assert
	assert.True(t, state.Started)
	assert.Equal(t, "alice", state.HighestBidder)
	assert.True(t, state.HighestBid.Equal(decimal.RequireFromString("3")))
	assert.True(t, state.PendingReturnOf("alice").Equal(decimal.RequireFromString("1")))
	assert.True(t, state.PendingReturnOf("bob").Equal(decimal.RequireFromString("2")))
	assert.True(t, state.TotalDeposited.Equal(decimal.RequireFromString("6")))
	assert.Equal(t, startTime.Add(3*time.Minute), state.LastBidTime["alice"])
	assert.True(t, state.IsBalanced())
}

func Test_ProjectAuctionState_WithdrawalAndSettlement(t *testing.T) {
	// arrange
	auctionID := uuid.New()
	started := core.BuildAuctionStarted(auctionID, "ben", time.Hour, core.DefaultRules(), startTime)
	history := core.DomainEvents{
		started,
		givenBid(started, "alice", "1", startTime.Add(time.Minute)),
		givenBid(started, "bob", "2", startTime.Add(2*time.Minute)),
		core.BuildRefundWithdrawn(started.AuctionID, "alice", decimal.RequireFromString("1"), startTime.Add(3*time.Minute)),
		core.BuildAuctionEnded(started.AuctionID, "ben", "bob", decimal.RequireFromString("2"), startTime.Add(2*time.Hour)),
	}

	// act
	state := core.ProjectAuctionState(history)

	// assert
	assert.True(t, state.Ended)
	assert.True(t, state.PendingReturnOf("alice").IsZero())
	assert.True(t, state.TotalWithdrawn.Equal(decimal.RequireFromString("1")))
	assert.True(t, state.SettledAmount.Equal(decimal.RequireFromString("2")))
	assert.True(t, state.EscrowBalance().IsZero())
	assert.True(t, state.IsBalanced())
}

func Test_BuildAuctionStarted_StoresRulesAsSeconds(t *testing.T) {
	// arrange
	rules := core.Rules{CooldownPeriod: 30 * time.Second, ExtensionWindow: 5 * time.Minute, ExtensionIncrement: 2 * time.Minute}

	// act
	event := core.BuildAuctionStarted(uuid.New(), "ben", time.Hour, rules, startTime.Add(123*time.Nanosecond))

	// assert
	assert.Equal(t, rules, event.Rules())
	assert.Equal(t, startTime.Add(time.Hour), event.AuctionEndTime)
	assert.Equal(t, int64(300), event.ExtensionWindowSeconds)
}

func Test_Rules_Validate(t *testing.T) {
	assert.NoError(t, core.DefaultRules().Validate())
	assert.NoError(t, core.Rules{}.Validate())
	assert.ErrorIs(t, core.Rules{CooldownPeriod: -time.Second}.Validate(), core.ErrInvalidRules)
	assert.ErrorIs(t, core.Rules{ExtensionWindow: 1500 * time.Millisecond}.Validate(), core.ErrInvalidRules)
}

func givenBid(started core.AuctionStarted, bidder string, amount string, at time.Time) core.BidPlaced {
	return core.BuildBidPlaced(
		started.AuctionID,
		bidder,
		decimal.RequireFromString(amount),
		"",
		core.ZeroAmount(),
		started.AuctionEndTime,
		false,
		at,
	)
}
