package withdrawrefund

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/core"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/shell"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/eventstore"
)

// Decide implements the business logic of a refund withdrawal.
// This is a pure function with no side effects.
//
// Business Rules:
//
//	GIVEN: A started auction
//	WHEN: WithdrawRefund command is received
//	THEN: RefundWithdrawn event with the complete pending return of the account is generated
//	ERROR: ErrInvalidAccount if the account is empty
//	ERROR: ErrAuctionNotFound if the auction was never started
//	IDEMPOTENCY: If nothing is owed to the account, no event generated (no-op)
//
// Withdrawing works before and after settlement.
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if command.Account == "" {
		return core.ErrorDecision(core.ErrInvalidAccount)
	}

	s := core.ProjectAuctionState(history)

	if !s.Started {
		return core.ErrorDecision(core.ErrAuctionNotFound)
	}

	owed := s.PendingReturnOf(command.Account)
	if !owed.IsPositive() {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(
		core.BuildRefundWithdrawn(s.AuctionID, command.Account, owed, command.OccurredAt),
	)
}

// BuildEventFilter creates the filter for querying the event stream of the auction.
func BuildEventFilter(auctionID uuid.UUID) eventstore.Filter {
	return shell.BuildAuctionEventFilter(auctionID.String())
}
