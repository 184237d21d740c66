package startauction_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/core"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/features/command/startauction"
)

func Test_Decide_StartsAuction(t *testing.T) {
	// arrange
	now := time.Unix(1_000, 0).UTC()
	command := startauction.BuildCommand(uuid.New(), "beneficiary", 10*time.Minute, now)

	// act
	result := startauction.Decide(core.DomainEvents{}, command)

	// assert
	require.True(t, result.HasEventToAppend())
	event, ok := result.Event.(core.AuctionStarted)
	require.True(t, ok)
	assert.Equal(t, command.AuctionID.String(), event.AuctionID)
	assert.Equal(t, "beneficiary", event.Beneficiary)
	assert.Equal(t, now.Add(10*time.Minute), event.AuctionEndTime)
	assert.Equal(t, core.DefaultRules(), event.Rules())
}

func Test_Decide_IsIdempotentForStartedAuction(t *testing.T) {
	// arrange
	now := time.Unix(1_000, 0).UTC()
	command := startauction.BuildCommand(uuid.New(), "beneficiary", time.Minute, now)
	history := core.DomainEvents{
		core.BuildAuctionStarted(command.AuctionID, "someone else", time.Hour, core.DefaultRules(), now),
	}

	// act
	result := startauction.Decide(history, command)

	// assert
	assert.True(t, result.IsIdempotent())
	assert.False(t, result.HasEventToAppend())
}

func Test_Decide_RejectsInvalidCommands(t *testing.T) {
	now := time.Unix(1_000, 0).UTC()

	testCases := []struct {
		name    string
		command startauction.Command
		want    error
	}{
		{
			name:    "empty beneficiary",
			command: startauction.BuildCommand(uuid.New(), "", time.Minute, now),
			want:    core.ErrInvalidBeneficiary,
		},
		{
			name:    "zero duration",
			command: startauction.BuildCommand(uuid.New(), "b", 0, now),
			want:    core.ErrInvalidBiddingDuration,
		},
		{
			name:    "negative duration",
			command: startauction.BuildCommand(uuid.New(), "b", -time.Second, now),
			want:    core.ErrInvalidBiddingDuration,
		},
		{
			name: "fractional cooldown",
			command: startauction.BuildCommandWithRules(uuid.New(), "b", time.Minute, core.Rules{
				CooldownPeriod: 1500 * time.Millisecond,
			}, now),
			want: core.ErrInvalidRules,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := startauction.Decide(core.DomainEvents{}, tc.command)

			// assert
			assert.ErrorIs(t, result.HasError(), tc.want)
			assert.False(t, result.HasEventToAppend())
		})
	}
}
