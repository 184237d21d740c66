// Package startauction implements the construction of an auction: it fixes the beneficiary,
// the deadline (now + bidding duration) and the rules the auction is played by.
package startauction
