package shell

import (
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/core"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/eventstore"
)

// AuctionIDKey is the payload key every auction event carries.
const AuctionIDKey = "AuctionID"

// BuildAuctionEventFilter selects the complete event stream of one auction.
//
// All command handlers of an auction must use the same filter: the optimistic concurrency check
// and the advisory lock of the PostgreSQL engine are both derived from it.
func BuildAuctionEventFilter(auctionID core.AuctionIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.AuctionStartedEventType,
			core.BidPlacedEventType,
			core.RefundWithdrawnEventType,
			core.AuctionEndedEventType,
		).
		AndAnyPredicateOf(eventstore.P(AuctionIDKey, auctionID)).
		Finalize()
}
