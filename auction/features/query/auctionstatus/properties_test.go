package auctionstatus_test

import (
	"errors"
	"fmt"
	"math/rand"
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
)

// Test_Properties_RandomOperationSequences drives random bids and withdrawals through the handlers
// and checks leadership, conservation, deadline and withdrawal properties after every step.
//
//nolint:funlen,gocognit
func Test_Properties_RandomOperationSequences(t *testing.T) {
	accounts := []string{"a", "b", "c", "d"}

	for seed := int64(1); seed <= 20; seed++ {
		t.Run(fmt.Sprintf("seed_%d", seed), func(t *testing.T) {
			// setup
			ctx, handlers, b := setupTestEnvironment(t)
			rnd := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic test data
			fakeClock := time.Unix(0, 0).UTC()
			auctionID := uuid.New()
			for _, account := range accounts {
				b.Mint(account, givenAmount("100000"))
			}

			_, err := handlers.startAuction.Handle(ctx, startauction.BuildCommand(auctionID, "beneficiary", 10*time.Minute, fakeClock))
			require.NoError(t, err)

			now := fakeClock
			submitted := core.ZeroAmount()
			withdrawn := core.ZeroAmount()
			lastAccepted := map[string]time.Time{}

			for step := 0; step < 60; step++ {
				now = now.Add(time.Duration(rnd.Intn(40)) * time.Second)
				before := queryStatus(ctx, t, handlers, auctionID)
				account := accounts[rnd.Intn(len(accounts))]

				if rnd.Intn(4) == 0 {
					balanceBefore := b.BalanceOf(account)
					owed := before.PendingReturnOf(account)

					// act
					result, withdrawErr := handlers.withdrawRefund.Handle(ctx, withdrawrefund.BuildCommand(auctionID, account, now))

					// assert
					require.NoError(t, withdrawErr)
					assert.Equal(t, owed.IsZero(), result.Idempotent)
					assert.True(t, balanceBefore.Add(owed).Equal(b.BalanceOf(account)))
					withdrawn = withdrawn.Add(owed)

					after := queryStatus(ctx, t, handlers, auctionID)
					assert.True(t, after.PendingReturnOf(account).IsZero())

					continue
				}

				amount := before.HighestBid.Add(decimal.NewFromInt(int64(rnd.Intn(5) - 1)))

				// act
				_, bidErr := handlers.placeBid.Handle(ctx, placebid.BuildCommand(auctionID, account, amount, now))

				// assert
				after := queryStatus(ctx, t, handlers, auctionID)

				switch {
				case !now.Before(before.AuctionEndTime):
					assert.ErrorIs(t, bidErr, core.ErrAuctionAlreadyEnded)
				case !amount.GreaterThan(before.HighestBid):
					assert.ErrorIs(t, bidErr, core.ErrBidNotHighEnough)
				case hasCooldown(lastAccepted, account, now):
					assert.ErrorIs(t, bidErr, core.ErrCooldownTime)
				default:
					require.NoError(t, bidErr)
				}

				if bidErr != nil {
					assert.Equal(t, before, after, "a rejected bid must not change the auction")
					continue
				}

				submitted = submitted.Add(amount)
				lastAccepted[account] = now

				// monotonic leadership
				assert.True(t, after.HighestBid.GreaterThan(before.HighestBid))
				assert.Equal(t, account, after.HighestBidder)

				// deadline extension
				if before.AuctionEndTime.Sub(now) <= time.Minute {
					assert.True(t, after.AuctionEndTime.After(before.AuctionEndTime))
				} else if before.AuctionEndTime.Sub(now) > time.Minute {
					assert.Equal(t, before.AuctionEndTime, after.AuctionEndTime)
				}

				assert.False(t, after.AuctionEndTime.Before(before.AuctionEndTime))

				// refund conservation
				pending := core.ZeroAmount()
				for _, pendingReturn := range after.PendingReturns {
					pending = pending.Add(pendingReturn.Amount)
				}

				assert.True(t, after.HighestBid.Add(pending).Add(withdrawn).Equal(submitted))
			}

			// single settlement
			final := queryStatus(ctx, t, handlers, auctionID)
			_, err = handlers.endAuction.Handle(ctx, endauction.BuildCommand(auctionID, final.AuctionEndTime.Add(-time.Second)))
			assert.ErrorIs(t, err, core.ErrAuctionNotYetEnded)

			_, err = handlers.endAuction.Handle(ctx, endauction.BuildCommand(auctionID, final.AuctionEndTime))
			require.NoError(t, err)

			for i := 0; i < 3; i++ {
				_, err = handlers.endAuction.Handle(ctx, endauction.BuildCommand(auctionID, final.AuctionEndTime.Add(time.Hour)))
				assert.True(t, errors.Is(err, core.ErrAuctionEndAlready))
			}

			assert.True(t, final.HighestBid.Equal(b.BalanceOf("beneficiary")))
		})
	}
}

func hasCooldown(lastAccepted map[string]time.Time, account string, now time.Time) bool {
	last, ok := lastAccepted[account]

	return ok && now.Sub(last) < time.Minute
}
