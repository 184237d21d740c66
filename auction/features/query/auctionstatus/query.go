package auctionstatus

import (
	"github.com/google/uuid"
)

const (
	queryType = "AuctionStatus"
)

// Query represents the input for reading the status of one auction.
type Query struct {
	AuctionID uuid.UUID
}

// BuildQuery creates a new Query for the given auction.
func BuildQuery(auctionID uuid.UUID) Query {
	return Query{AuctionID: auctionID}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
