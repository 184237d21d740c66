package endauction

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/core"
)

const (
	commandType = "EndAuction"
)

// Command represents the intent to settle an auction.
type Command struct {
	AuctionID  uuid.UUID
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(auctionID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		AuctionID:  auctionID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
