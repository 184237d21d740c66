package core

import (
	"time"
)

// AuctionState is the state of one auction, projected from its domain events.
// Apply is its only mutator, so replaying the same events always yields the same state.
type AuctionState struct {
	AuctionID      AuctionIDString
	Started        bool
	Beneficiary    AccountID
	Deadline       time.Time
	Rules          Rules
	HighestBidder  AccountID // empty until the first bid
	HighestBid     Amount
	Ended          bool
	SettledAmount  Amount // paid to the beneficiary on settlement
	LastBidTime    map[AccountID]time.Time
	PendingReturns map[AccountID]Amount
	TotalDeposited Amount
	TotalWithdrawn Amount
}

// NewAuctionState returns the state of an auction which was not started.
func NewAuctionState() AuctionState {
	return AuctionState{
		HighestBid:     ZeroAmount(),
		SettledAmount:  ZeroAmount(),
		LastBidTime:    make(map[AccountID]time.Time),
		PendingReturns: make(map[AccountID]Amount),
		TotalDeposited: ZeroAmount(),
		TotalWithdrawn: ZeroAmount(),
	}
}

// ProjectAuctionState folds the events of one auction into its AuctionState.
func ProjectAuctionState(history DomainEvents) AuctionState {
	state := NewAuctionState()

	for _, event := range history {
		state.Apply(event)
	}

	return state
}

// Apply mutates the state with one event. Unknown events are ignored.
func (s *AuctionState) Apply(event DomainEvent) {
	switch e := event.(type) {
	case AuctionStarted:
		s.AuctionID = e.AuctionID
		s.Started = true
		s.Beneficiary = e.Beneficiary
		s.Deadline = e.AuctionEndTime
		s.Rules = e.Rules()

	case BidPlaced:
		if s.HasBid() {
			s.PendingReturns[s.HighestBidder] = s.PendingReturnOf(s.HighestBidder).Add(s.HighestBid)
		}

		s.HighestBidder = e.Bidder
		s.HighestBid = e.Amount
		s.LastBidTime[e.Bidder] = e.OccurredAt
		s.Deadline = e.AuctionEndTime
		s.TotalDeposited = s.TotalDeposited.Add(e.Amount)

	case RefundWithdrawn:
		delete(s.PendingReturns, e.Account)
		s.TotalWithdrawn = s.TotalWithdrawn.Add(e.Amount)

	case AuctionEnded:
		s.Ended = true
		s.SettledAmount = e.Amount
	}
}

// HasBid returns true once the first bid was accepted.
func (s AuctionState) HasBid() bool {
	return s.HighestBidder != ""
}

// PendingReturnOf returns the amount account can withdraw, zero if nothing is owed.
func (s AuctionState) PendingReturnOf(account AccountID) Amount {
	if owed, ok := s.PendingReturns[account]; ok {
		return owed
	}

	return ZeroAmount()
}

// TotalPendingReturns sums all pending returns.
func (s AuctionState) TotalPendingReturns() Amount {
	total := ZeroAmount()
	for _, owed := range s.PendingReturns {
		total = total.Add(owed)
	}

	return total
}

// EscrowBalance is what the escrow account must hold for this auction:
// deposited minus withdrawn minus the settled amount.
func (s AuctionState) EscrowBalance() Amount {
	return s.TotalDeposited.Sub(s.TotalWithdrawn).Sub(s.SettledAmount)
}

// IsBalanced reports whether escrow equals what is still owed:
// pending returns + unsettled highest bid + settled amount = deposited - withdrawn.
func (s AuctionState) IsBalanced() bool {
	held := s.TotalPendingReturns().Add(s.SettledAmount)
	if !s.Ended {
		held = held.Add(s.HighestBid)
	}

	return held.Equal(s.TotalDeposited.Sub(s.TotalWithdrawn))
}
