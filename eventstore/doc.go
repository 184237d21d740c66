// Package eventstore provides the storage abstractions the auction is built on:
// dynamic event streams selected by a Filter, the StorableEvent DTO, and the
// optimistic concurrency contract shared by all engines.
//
// An auction never owns a fixed "stream". Instead, every command handler queries the
// events matching a Filter (event types AND any of some JSON payload predicates),
// takes the MaxSequenceNumberUint of that result, makes its decision, and appends
// with the same Filter and the expected sequence number. The append fails with
// ErrConcurrencyConflict if any matching event was appended in between.
//
// Common usage pattern:
//
//	filter := BuildEventFilter().
//		Matching().
//		AnyEventTypeOf(
//			core.AuctionStartedEventType,
//			core.BidPlacedEventType).
//		AndAnyPredicateOf(P("AuctionID", auctionID.String())).
//		Finalize()
//
//	events, maxSeq, err := store.Query(ctx, filter)
//	if err != nil {
//		// handle error
//	}
//
//	err = store.AppendWithSideEffect(ctx, filter, maxSeq, moveFunds, newEvent)
//
// Engines live in the subpackages postgresengine and memengine.
package eventstore
