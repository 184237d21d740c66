// Package placebid implements bidding.
//
// An accepted bid deposits its amount from the bidder into the auction's escrow account within
// the same atomic append that records the BidPlaced event. The outbid leader is never paid
// during bidding: their amount becomes a pending return they withdraw themselves.
package placebid
