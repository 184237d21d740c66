package core

import (
	"errors"
)

var (
	// ErrAuctionAlreadyEnded is returned for bids at or after the deadline, or after settlement.
	ErrAuctionAlreadyEnded = errors.New("auction already ended")

	// ErrBidNotHighEnough is matched by every BidNotHighEnoughError.
	ErrBidNotHighEnough = errors.New("bid not high enough")

	// ErrCooldownTime is returned if a bidder bids again within the cooldown period.
	ErrCooldownTime = errors.New("cooldown time has not passed since the last bid")

	// ErrAuctionNotYetEnded is returned when settling before the deadline.
	ErrAuctionNotYetEnded = errors.New("auction not yet ended")

	// ErrAuctionEndAlready is returned when settling a second time.
	ErrAuctionEndAlready = errors.New("auction end has already been called")

	// ErrAuctionNotFound is returned for operations on an auction which was never started.
	ErrAuctionNotFound = errors.New("auction not found")

	// ErrInvalidBeneficiary is returned when starting an auction without a beneficiary.
	ErrInvalidBeneficiary = errors.New("beneficiary must not be empty")

	// ErrInvalidBiddingDuration is returned when starting an auction with a non-positive duration.
	ErrInvalidBiddingDuration = errors.New("bidding duration must be positive")

	// ErrInvalidAccount is returned for an empty bidder or withdrawing account.
	ErrInvalidAccount = errors.New("account must not be empty")

	// ErrTransferFailed is returned when the value transfer of an operation fails. Nothing was committed.
	ErrTransferFailed = errors.New("value transfer failed")
)

// BidNotHighEnoughError reports the highest bid a new bid has to exceed.
type BidNotHighEnoughError struct {
	HighestBid Amount
}

func (e BidNotHighEnoughError) Error() string {
	return ErrBidNotHighEnough.Error() + ": highest bid is " + e.HighestBid.String()
}

// Is makes errors.Is(err, ErrBidNotHighEnough) true.
func (e BidNotHighEnoughError) Is(target error) bool {
	return target == ErrBidNotHighEnough //nolint:errorlint // sentinel identity
}

// FailureKind classifies errors for transports, e.g. to pick an HTTP status.
type FailureKind string

const (
	KindNone                FailureKind = ""
	KindAuctionAlreadyEnded FailureKind = "AuctionAlreadyEnded"
	KindBidNotHighEnough    FailureKind = "BidNotHighEnough"
	KindCooldownTime        FailureKind = "CooldownTime"
	KindAuctionNotYetEnded  FailureKind = "AuctionNotYetEnded"
	KindAuctionEndAlready   FailureKind = "AuctionEndAlready"
	KindNotFound            FailureKind = "NotFound"
	KindValidation          FailureKind = "Validation"
	KindTransferFailed      FailureKind = "TransferFailed"
	KindInternal            FailureKind = "Internal"
)

// KindOf returns the FailureKind of err, KindNone for nil and KindInternal for unknown errors.
func KindOf(err error) FailureKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrAuctionAlreadyEnded):
		return KindAuctionAlreadyEnded
	case errors.Is(err, ErrBidNotHighEnough):
		return KindBidNotHighEnough
	case errors.Is(err, ErrCooldownTime):
		return KindCooldownTime
	case errors.Is(err, ErrAuctionNotYetEnded):
		return KindAuctionNotYetEnded
	case errors.Is(err, ErrAuctionEndAlready):
		return KindAuctionEndAlready
	case errors.Is(err, ErrAuctionNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidBeneficiary),
		errors.Is(err, ErrInvalidBiddingDuration),
		errors.Is(err, ErrInvalidAccount),
		errors.Is(err, ErrInvalidRules):
		return KindValidation
	case errors.Is(err, ErrTransferFailed):
		return KindTransferFailed
	default:
		return KindInternal
	}
}
