package placebid

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/core"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/shell"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/eventstore"
)

// Decide implements the business logic to determine whether a bid is accepted.
// This is a pure function with no side effects.
//
// Business Rules (the first failing check wins):
//
//	GIVEN: A started auction
//	WHEN: PlaceBid command is received
//	THEN: BidPlaced event is generated
//	ERROR: ErrInvalidAccount if the bidder is empty
//	ERROR: ErrAuctionNotFound if the auction was never started
//	ERROR: ErrAuctionAlreadyEnded if OccurredAt is not before the deadline, or the auction was settled
//	ERROR: BidNotHighEnoughError if Amount does not exceed the highest bid
//	ERROR: ErrCooldownTime if the bidder bid before and the cooldown period has not passed
//
// A bid with at most ExtensionWindow remaining moves the deadline to OccurredAt + ExtensionIncrement,
// or by ExtensionIncrement past the current deadline if that would not be later.
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if command.Bidder == "" {
		return core.ErrorDecision(core.ErrInvalidAccount)
	}

	s := core.ProjectAuctionState(history)

	if !s.Started {
		return core.ErrorDecision(core.ErrAuctionNotFound)
	}

	at := command.OccurredAt

	if s.Ended || !at.Before(s.Deadline) {
		return core.ErrorDecision(core.ErrAuctionAlreadyEnded)
	}

	if !command.Amount.GreaterThan(s.HighestBid) {
		return core.ErrorDecision(core.BidNotHighEnoughError{HighestBid: s.HighestBid})
	}

	if lastBidTime, ok := s.LastBidTime[command.Bidder]; ok && at.Sub(lastBidTime) < s.Rules.CooldownPeriod {
		return core.ErrorDecision(core.ErrCooldownTime)
	}

	deadline := extendedDeadline(s.Deadline, at, s.Rules)
	extended := deadline.After(s.Deadline)

	return core.SuccessDecision(
		core.BuildBidPlaced(
			s.AuctionID,
			command.Bidder,
			command.Amount,
			s.HighestBidder,
			s.HighestBid,
			deadline,
			extended,
			at,
		),
	)
}

// extendedDeadline returns the deadline after a bid at time at.
// Within the extension window the result is strictly later than deadline as long as the increment is positive.
func extendedDeadline(deadline time.Time, at time.Time, rules core.Rules) time.Time {
	if deadline.Sub(at) > rules.ExtensionWindow {
		return deadline
	}

	if candidate := at.Add(rules.ExtensionIncrement); candidate.After(deadline) {
		return candidate
	}

	return deadline.Add(rules.ExtensionIncrement)
}

// BuildEventFilter creates the filter for querying the event stream of the auction.
func BuildEventFilter(auctionID uuid.UUID) eventstore.Filter {
	return shell.BuildAuctionEventFilter(auctionID.String())
}
