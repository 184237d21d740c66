// Package withdrawrefund implements the pull refund of outbid amounts.
//
// The RefundWithdrawn event zeroes the account's pending return. It is written before the
// outbound transfer runs, within the same transaction, so a failed transfer restores the ledger.
package withdrawrefund
