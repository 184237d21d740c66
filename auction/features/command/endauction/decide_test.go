package endauction_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/core"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/features/command/endauction"
)

var (
	auctionStart = time.Unix(1_000_000, 0).UTC()
	deadline     = auctionStart.Add(time.Hour)
)

func Test_Decide_SettlesHighestBid(t *testing.T) {
	// arrange
	auctionID, history := givenAuctionWithBids()

	// act
	result := endauction.Decide(history, endauction.BuildCommand(auctionID, deadline))

	// assert
	require.True(t, result.HasEventToAppend())
	record, ok := result.Event.(core.AuctionEnded)
	require.True(t, ok)
	assert.Equal(t, "beneficiary", record.Beneficiary)
	assert.Equal(t, "bob", record.Winner)
	assert.True(t, decimal.RequireFromString("2").Equal(record.Amount))
}

func Test_Decide_SettlesAuctionWithoutBids(t *testing.T) {
	// arrange
	auctionID := uuid.New()
	history := core.DomainEvents{core.BuildAuctionStarted(auctionID, "beneficiary", time.Hour, core.DefaultRules(), auctionStart)}

	// act
	result := endauction.Decide(history, endauction.BuildCommand(auctionID, deadline))

	// assert
	require.True(t, result.HasEventToAppend())
	record, ok := result.Event.(core.AuctionEnded)
	require.True(t, ok)
	assert.Empty(t, record.Winner)
	assert.True(t, record.Amount.IsZero())
}

func Test_Decide_RejectsInOrder(t *testing.T) {
	auctionID, history := givenAuctionWithBids()
	settled := append(append(core.DomainEvents{}, history...),
		core.BuildAuctionEnded(auctionID.String(), "beneficiary", "bob", decimal.RequireFromString("2"), deadline))

	testCases := []struct {
		name    string
		history core.DomainEvents
		at      time.Time
		want    error
	}{
		{name: "not started", history: core.DomainEvents{}, at: deadline, want: core.ErrAuctionNotFound},
		{name: "before the deadline", history: history, at: deadline.Add(-time.Microsecond), want: core.ErrAuctionNotYetEnded},
		{name: "settled before", history: settled, at: deadline.Add(time.Hour), want: core.ErrAuctionEndAlready},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := endauction.Decide(tc.history, endauction.BuildCommand(auctionID, tc.at))

			// assert
			assert.ErrorIs(t, result.HasError(), tc.want)
			assert.False(t, result.HasEventToAppend())
		})
	}
}

func givenAuctionWithBids() (uuid.UUID, core.DomainEvents) {
	auctionID := uuid.New()

	return auctionID, core.DomainEvents{
		core.BuildAuctionStarted(auctionID, "beneficiary", time.Hour, core.DefaultRules(), auctionStart),
		core.BuildBidPlaced(auctionID.String(), "alice", decimal.RequireFromString("1"), "", core.ZeroAmount(), deadline, false, auctionStart.Add(time.Minute)),
		core.BuildBidPlaced(auctionID.String(), "bob", decimal.RequireFromString("2"), "alice", decimal.RequireFromString("1"), deadline, false, auctionStart.Add(2*time.Minute)),
	}
}
