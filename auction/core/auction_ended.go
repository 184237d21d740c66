package core

import (
	"time"
)

// AuctionEndedEventType is the event type identifier.
const AuctionEndedEventType = "AuctionEnded"

// AuctionEnded is the settlement record: the highest bid was paid out to the beneficiary.
// Winner is empty and Amount is zero for an auction without bids.
type AuctionEnded struct {
	AuctionID   AuctionIDString
	Beneficiary AccountID
	Winner      AccountID
	Amount      Amount
	OccurredAt  OccurredAt
}

// BuildAuctionEnded creates a new AuctionEnded event.
func BuildAuctionEnded(
	auctionID AuctionIDString,
	beneficiary AccountID,
	winner AccountID,
	amount Amount,
	occurredAt time.Time,
) AuctionEnded {

	return AuctionEnded{
		AuctionID:   auctionID,
		Beneficiary: beneficiary,
		Winner:      winner,
		Amount:      amount,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e AuctionEnded) IsEventType() string {
	return AuctionEndedEventType
}

// HasOccurredAt returns when this event occurred.
func (e AuctionEnded) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// BelongsToAuction returns the auction ID.
func (e AuctionEnded) BelongsToAuction() AuctionIDString {
	return e.AuctionID
}
