package auctionstatus

import (
	"time"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/core"
)

// PendingReturn is the amount an outbid account can withdraw.
type PendingReturn struct {
	Account core.AccountID `json:"account"`
	Amount  core.Amount    `json:"amount"`
}

// AuctionStatus represents the query result: the auction as of SequenceNumber.
type AuctionStatus struct {
	AuctionID                 core.AuctionIDString `json:"auctionId"`
	Beneficiary               core.AccountID       `json:"beneficiary"`
	AuctionEndTime            time.Time            `json:"auctionEndTime"`
	HighestBidder             core.AccountID       `json:"highestBidder,omitempty"`
	HighestBid                core.Amount          `json:"highestBid"`
	Ended                     bool                 `json:"ended"`
	SettledAmount             core.Amount          `json:"settledAmount"`
	PendingReturns            []PendingReturn      `json:"pendingReturns"`
	TotalDeposited            core.Amount          `json:"totalDeposited"`
	TotalWithdrawn            core.Amount          `json:"totalWithdrawn"`
	EscrowBalance             core.Amount          `json:"escrowBalance"`
	CooldownPeriodSeconds     int64                `json:"cooldownPeriodSeconds"`
	ExtensionWindowSeconds    int64                `json:"extensionWindowSeconds"`
	ExtensionIncrementSeconds int64                `json:"extensionIncrementSeconds"`
	SequenceNumber            uint                 `json:"sequenceNumber"`
}

// GetSequenceNumber returns the sequence number of the last event in the event history that was used to build the projection.
func (r AuctionStatus) GetSequenceNumber() uint {
	return r.SequenceNumber
}

// PendingReturnOf returns the pending return of account, zero if nothing is owed.
func (r AuctionStatus) PendingReturnOf(account core.AccountID) core.Amount {
	for _, pending := range r.PendingReturns {
		if pending.Account == account {
			return pending.Amount
		}
	}

	return core.ZeroAmount()
}
