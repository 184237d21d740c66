package core

import (
	"time"

	"github.com/google/uuid"
)

// AuctionStartedEventType is the event type identifier.
const AuctionStartedEventType = "AuctionStarted"

// AuctionStarted represents the construction of an auction with its beneficiary, deadline and rules.
type AuctionStarted struct {
	AuctionID                 AuctionIDString
	Beneficiary               AccountID
	AuctionEndTime            time.Time
	CooldownPeriodSeconds     int64
	ExtensionWindowSeconds    int64
	ExtensionIncrementSeconds int64
	OccurredAt                OccurredAt
}

// BuildAuctionStarted creates a new AuctionStarted event with auctionEndTime = occurredAt + biddingDuration.
func BuildAuctionStarted(
	auctionID uuid.UUID,
	beneficiary AccountID,
	biddingDuration time.Duration,
	rules Rules,
	occurredAt time.Time,
) AuctionStarted {

	at := ToOccurredAt(occurredAt)

	return AuctionStarted{
		AuctionID:                 auctionID.String(),
		Beneficiary:               beneficiary,
		AuctionEndTime:            ToOccurredAt(at.Add(biddingDuration)),
		CooldownPeriodSeconds:     int64(rules.CooldownPeriod / time.Second),
		ExtensionWindowSeconds:    int64(rules.ExtensionWindow / time.Second),
		ExtensionIncrementSeconds: int64(rules.ExtensionIncrement / time.Second),
		OccurredAt:                at,
	}
}

// Rules returns the rules the auction was started with.
func (e AuctionStarted) Rules() Rules {
	return rulesFromSeconds(e.CooldownPeriodSeconds, e.ExtensionWindowSeconds, e.ExtensionIncrementSeconds)
}

// IsEventType returns the event type identifier.
func (e AuctionStarted) IsEventType() string {
	return AuctionStartedEventType
}

// HasOccurredAt returns when this event occurred.
func (e AuctionStarted) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// BelongsToAuction returns the auction ID.
func (e AuctionStarted) BelongsToAuction() AuctionIDString {
	return e.AuctionID
}
