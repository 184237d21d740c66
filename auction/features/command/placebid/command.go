package placebid

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/core"
)

const (
	commandType = "PlaceBid"
)

// Command represents the intent of a bidder to bid Amount on an auction.
type Command struct {
	AuctionID  uuid.UUID
	Bidder     core.AccountID
	Amount     core.Amount
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(auctionID uuid.UUID, bidder core.AccountID, amount core.Amount, occurredAt time.Time) Command {
	return Command{
		AuctionID:  auctionID,
		Bidder:     bidder,
		Amount:     amount,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
