// Package endauction implements the one-time settlement of an auction.
//
// Settlement pays the highest bid out of escrow to the beneficiary and records AuctionEnded,
// the observable settlement record. After the commit, the record can be handed to a
// SettlementPublisher. A failing publisher is logged and does not undo the settlement.
package endauction
