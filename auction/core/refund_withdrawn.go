package core

import (
	"time"
)

// RefundWithdrawnEventType is the event type identifier.
const RefundWithdrawnEventType = "RefundWithdrawn"

// RefundWithdrawn represents an account pulling its complete pending return out of escrow.
type RefundWithdrawn struct {
	AuctionID  AuctionIDString
	Account    AccountID
	Amount     Amount
	OccurredAt OccurredAt
}

// BuildRefundWithdrawn creates a new RefundWithdrawn event.
func BuildRefundWithdrawn(auctionID AuctionIDString, account AccountID, amount Amount, occurredAt time.Time) RefundWithdrawn {
	return RefundWithdrawn{
		AuctionID:  auctionID,
		Account:    account,
		Amount:     amount,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e RefundWithdrawn) IsEventType() string {
	return RefundWithdrawnEventType
}

// HasOccurredAt returns when this event occurred.
func (e RefundWithdrawn) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// BelongsToAuction returns the auction ID.
func (e RefundWithdrawn) BelongsToAuction() AuctionIDString {
	return e.AuctionID
}
