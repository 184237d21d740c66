package shell

import (
	"context"
	"errors"
	"fmt"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/core"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/eventstore"
)

// TransferKind names why value is moved.
type TransferKind = string

const (
	TransferKindDeposit    TransferKind = "deposit"
	TransferKindWithdrawal TransferKind = "withdrawal"
	TransferKindSettlement TransferKind = "settlement"
)

// Transfer moves Amount from one account to another.
//
// ID is deterministic for a given auction, stream position, kind, accounts and amount. Banks must
// apply a transfer ID at most once, so replaying a transfer after an unclear commit outcome never
// moves value twice.
type Transfer struct {
	ID     string
	From   core.AccountID
	To     core.AccountID
	Amount core.Amount
}

// TransfersValue moves native monetary units between accounts, atomically succeeding or failing.
type TransfersValue interface {
	Transfer(ctx context.Context, transfer Transfer) error
}

// BuildTransfer creates a Transfer with the ID "<auctionID>/<expectedMaxSequenceNumber>/<kind>/<from>/<to>/<amount>".
func BuildTransfer(
	auctionID core.AuctionIDString,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	kind TransferKind,
	from core.AccountID,
	to core.AccountID,
	amount core.Amount,
) Transfer {

	return Transfer{
		ID:     fmt.Sprintf("%s/%d/%s/%s/%s/%s", auctionID, expectedMaxSequenceNumber, kind, from, to, amount.String()),
		From:   from,
		To:     to,
		Amount: amount,
	}
}

// TransferSideEffect wraps a Transfer into an eventstore.SideEffect.
// Failures are joined with core.ErrTransferFailed.
func TransferSideEffect(bank TransfersValue, transfer Transfer) eventstore.SideEffect {
	return func(ctx context.Context) error {
		if err := bank.Transfer(ctx, transfer); err != nil {
			return errors.Join(core.ErrTransferFailed, err)
		}

		return nil
	}
}
