package core

import (
	"time"
)

// BidPlacedEventType is the event type identifier.
const BidPlacedEventType = "BidPlaced"

// BidPlaced represents an accepted bid. The bid amount was deposited into the auction's escrow account.
//
// PreviousBidder and PreviousBid describe the outbid leader whose amount became withdrawable,
// AuctionEndTime is the deadline after a possible extension.
type BidPlaced struct {
	AuctionID        AuctionIDString
	Bidder           AccountID
	Amount           Amount
	PreviousBidder   AccountID
	PreviousBid      Amount
	AuctionEndTime   time.Time
	DeadlineExtended bool
	OccurredAt       OccurredAt
}

// BuildBidPlaced creates a new BidPlaced event.
func BuildBidPlaced(
	auctionID AuctionIDString,
	bidder AccountID,
	amount Amount,
	previousBidder AccountID,
	previousBid Amount,
	auctionEndTime time.Time,
	deadlineExtended bool,
	occurredAt time.Time,
) BidPlaced {

	return BidPlaced{
		AuctionID:        auctionID,
		Bidder:           bidder,
		Amount:           amount,
		PreviousBidder:   previousBidder,
		PreviousBid:      previousBid,
		AuctionEndTime:   ToOccurredAt(auctionEndTime),
		DeadlineExtended: deadlineExtended,
		OccurredAt:       ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BidPlaced) IsEventType() string {
	return BidPlacedEventType
}

// HasOccurredAt returns when this event occurred.
func (e BidPlaced) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// BelongsToAuction returns the auction ID.
func (e BidPlaced) BelongsToAuction() AuctionIDString {
	return e.AuctionID
}
