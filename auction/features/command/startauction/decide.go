package startauction

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/core"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/shell"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/eventstore"
)

// Decide implements the business logic to determine whether an auction should be started.
// This is a pure function with no side effects.
//
// Business Rules:
//
//	GIVEN: An AuctionID without history
//	WHEN: StartAuction command is received
//	THEN: AuctionStarted event is generated with AuctionEndTime = OccurredAt + BiddingDuration
//	ERROR: ErrInvalidBeneficiary if the beneficiary is empty
//	ERROR: ErrInvalidBiddingDuration if the bidding duration is not positive
//	ERROR: ErrInvalidRules if a rule is negative or not whole seconds
//	IDEMPOTENCY: If the auction was already started, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if command.Beneficiary == "" {
		return core.ErrorDecision(core.ErrInvalidBeneficiary)
	}

	if command.BiddingDuration <= 0 {
		return core.ErrorDecision(core.ErrInvalidBiddingDuration)
	}

	if err := command.Rules.Validate(); err != nil {
		return core.ErrorDecision(err)
	}

	if core.ProjectAuctionState(history).Started {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(
		core.BuildAuctionStarted(
			command.AuctionID,
			command.Beneficiary,
			command.BiddingDuration,
			command.Rules,
			command.OccurredAt,
		),
	)
}

// BuildEventFilter creates the filter for querying the event stream of the auction.
func BuildEventFilter(auctionID uuid.UUID) eventstore.Filter {
	return shell.BuildAuctionEventFilter(auctionID.String())
}
