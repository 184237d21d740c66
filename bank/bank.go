// Package bank holds what the value transfer implementations share: transfer validation
// and their sentinel errors. membank keeps balances in memory, redisbank in Redis.
package bank

import (
	"errors"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/shell"
)

var (
	// ErrInsufficientFunds is returned if the source account cannot cover a transfer.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidTransfer is returned for transfers without ID or accounts, between the same account,
	// or with a non-positive amount.
	ErrInvalidTransfer = errors.New("invalid transfer")

	// ErrTransferIDReused is returned if a transfer ID was applied before with different parameters.
	ErrTransferIDReused = errors.New("transfer id was already used for another transfer")
)

// Validate checks the static properties of a transfer.
func Validate(transfer shell.Transfer) error {
	switch {
	case transfer.ID == "":
		return errors.Join(ErrInvalidTransfer, errors.New("empty transfer id"))
	case transfer.From == "" || transfer.To == "":
		return errors.Join(ErrInvalidTransfer, errors.New("empty account"))
	case transfer.From == transfer.To:
		return errors.Join(ErrInvalidTransfer, errors.New("source and target account are equal"))
	case !transfer.Amount.IsPositive():
		return errors.Join(ErrInvalidTransfer, errors.New("amount must be positive"))
	}

	return nil
}
