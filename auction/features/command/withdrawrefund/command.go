package withdrawrefund

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/core"
)

const (
	commandType = "WithdrawRefund"
)

// Command represents the intent of an account to withdraw its pending return.
type Command struct {
	AuctionID  uuid.UUID
	Account    core.AccountID
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(auctionID uuid.UUID, account core.AccountID, occurredAt time.Time) Command {
	return Command{
		AuctionID:  auctionID,
		Account:    account,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
