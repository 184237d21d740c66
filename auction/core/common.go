package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuctionIDString represents an auction identifier (a UUID string).
type AuctionIDString = string

// AccountID is an opaque, non-empty account address.
type AccountID = string

// Amount is an exact quantity of native monetary units.
type Amount = decimal.Decimal

// OccurredAt represents when an event occurred
type OccurredAt = time.Time

// EventTypeString represents the type of event
type EventTypeString = string

const escrowAccountPrefix = "auction:"

// ToOccurredAt converts a time to OccurredAt with UTC normalization and microsecond precision
func ToOccurredAt(t time.Time) OccurredAt {
	return t.UTC().Truncate(time.Microsecond)
}

// EscrowAccountOf returns the account which holds the deposited bids of an auction.
func EscrowAccountOf(auctionID AuctionIDString) AccountID {
	return escrowAccountPrefix + auctionID
}

// ZeroAmount is the amount of an auction without bids.
func ZeroAmount() Amount {
	return decimal.Zero
}
