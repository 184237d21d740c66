package auctionstatus

import (
	"context"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/shell"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/eventstore"
)

// QueryHandler orchestrates the complete query processing workflow.
// It handles event store interactions and delegates projection logic to the pure core functions.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

// NewQueryHandler creates a new QueryHandler with the provided EventStore dependency.
func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{
		eventStore: eventStore,
	}
}

// Handle executes Query -> Unmarshal -> Project.
// Reads tolerate slightly stale data, so they use eventual consistency and may hit a replica.
func (h QueryHandler) Handle(ctx context.Context, query Query) (AuctionStatus, error) {
	filter := BuildEventFilter(query.AuctionID)

	ctx = eventstore.WithEventualConsistency(ctx)

	storableEvents, maxSeq, err := h.eventStore.Query(ctx, filter)
	if err != nil {
		return AuctionStatus{}, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return AuctionStatus{}, err
	}

	return Project(history, query, maxSeq)
}
