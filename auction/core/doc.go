// Package core contains the domain of a single-item English auction:
// its domain events, the AuctionState projected from them, and the business errors.
//
// Bids are deposited into an escrow account owned by the auction. Outbid bidders are not paid back
// automatically: their amount is credited to a pending-returns ledger and pulled with a withdrawal.
// Bidding near the deadline extends it, and the auction is settled exactly once.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'domain' layer.
package core
