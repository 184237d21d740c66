package startauction

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/core"
)

const (
	commandType = "StartAuction"
)

// Command represents the intent to start an auction.
type Command struct {
	AuctionID       uuid.UUID
	Beneficiary     core.AccountID
	BiddingDuration time.Duration
	Rules           core.Rules
	OccurredAt      core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the default rules.
func BuildCommand(
	auctionID uuid.UUID,
	beneficiary core.AccountID,
	biddingDuration time.Duration,
	occurredAt time.Time,
) Command {

	return BuildCommandWithRules(auctionID, beneficiary, biddingDuration, core.DefaultRules(), occurredAt)
}

// BuildCommandWithRules creates a new Command with custom rules.
func BuildCommandWithRules(
	auctionID uuid.UUID,
	beneficiary core.AccountID,
	biddingDuration time.Duration,
	rules core.Rules,
	occurredAt time.Time,
) Command {

	return Command{
		AuctionID:       auctionID,
		Beneficiary:     beneficiary,
		BiddingDuration: biddingDuration,
		Rules:           rules,
		OccurredAt:      core.ToOccurredAt(occurredAt),
	}
}
