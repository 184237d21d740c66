package auctionstatus

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/core"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/shell"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/eventstore"
)

// Project implements the query logic of the auction status.
// This is a pure function with no side effects.
//
// Query Logic:
//
//	GIVEN: The event stream of one auction
//	WHEN: AuctionStatus query is executed
//	THEN: AuctionStatus is returned, pending returns sorted by account
//	ERROR: ErrAuctionNotFound if the auction was never started
func Project(history core.DomainEvents, _ Query, maxSequenceNumber eventstore.MaxSequenceNumberUint) (AuctionStatus, error) {
	s := core.ProjectAuctionState(history)

	if !s.Started {
		return AuctionStatus{}, core.ErrAuctionNotFound
	}

	pendingReturns := make([]PendingReturn, 0, len(s.PendingReturns))
	for account, amount := range s.PendingReturns {
		pendingReturns = append(pendingReturns, PendingReturn{Account: account, Amount: amount})
	}

	slices.SortFunc(pendingReturns, func(a, b PendingReturn) int {
		return strings.Compare(a.Account, b.Account)
	})

	return AuctionStatus{
		AuctionID:                 s.AuctionID,
		Beneficiary:               s.Beneficiary,
		AuctionEndTime:            s.Deadline,
		HighestBidder:             s.HighestBidder,
		HighestBid:                s.HighestBid,
		Ended:                     s.Ended,
		SettledAmount:             s.SettledAmount,
		PendingReturns:            pendingReturns,
		TotalDeposited:            s.TotalDeposited,
		TotalWithdrawn:            s.TotalWithdrawn,
		EscrowBalance:             s.EscrowBalance(),
		CooldownPeriodSeconds:     int64(s.Rules.CooldownPeriod / time.Second),
		ExtensionWindowSeconds:    int64(s.Rules.ExtensionWindow / time.Second),
		ExtensionIncrementSeconds: int64(s.Rules.ExtensionIncrement / time.Second),
		SequenceNumber:            maxSequenceNumber,
	}, nil
}

// BuildEventFilter creates the filter for querying the event stream of the auction.
func BuildEventFilter(auctionID uuid.UUID) eventstore.Filter {
	return shell.BuildAuctionEventFilter(auctionID.String())
}
