package endauction

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/core"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/shell"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/eventstore"
)

// Decide implements the business logic of the settlement.
// This is a pure function with no side effects.
//
// Business Rules (the first failing check wins):
//
//	GIVEN: A started auction
//	WHEN: EndAuction command is received
//	THEN: AuctionEnded event with the winner and the highest bid is generated
//	ERROR: ErrAuctionNotFound if the auction was never started
//	ERROR: ErrAuctionNotYetEnded if OccurredAt is before the deadline
//	ERROR: ErrAuctionEndAlready if the auction was settled before
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	s := core.ProjectAuctionState(history)

	if !s.Started {
		return core.ErrorDecision(core.ErrAuctionNotFound)
	}

	if command.OccurredAt.Before(s.Deadline) {
		return core.ErrorDecision(core.ErrAuctionNotYetEnded)
	}

	if s.Ended {
		return core.ErrorDecision(core.ErrAuctionEndAlready)
	}

	return core.SuccessDecision(
		core.BuildAuctionEnded(s.AuctionID, s.Beneficiary, s.HighestBidder, s.HighestBid, command.OccurredAt),
	)
}

// BuildEventFilter creates the filter for querying the event stream of the auction.
func BuildEventFilter(auctionID uuid.UUID) eventstore.Filter {
	return shell.BuildAuctionEventFilter(auctionID.String())
}
