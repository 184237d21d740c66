// Package membank is an in-memory bank for tests and single-process deployments.
package membank

import (
	"context"
	"errors"
	"sync"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/core"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/shell"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/bank"
)

// Logger is satisfied by *slog.Logger.
type Logger interface {
	Info(msg string, args ...any)
}

// Bank keeps account balances in memory. Each transfer ID is applied at most once.
type Bank struct {
	mu       sync.Mutex
	balances map[core.AccountID]core.Amount
	applied  map[string]shell.Transfer
	logger   Logger
}

// Option configures a Bank.
type Option func(*Bank)

// WithLogger logs every applied transfer at info level.
func WithLogger(logger Logger) Option {
	return func(b *Bank) {
		b.logger = logger
	}
}

// New creates an empty Bank.
func New(opts ...Option) *Bank {
	b := &Bank{
		balances: make(map[core.AccountID]core.Amount),
		applied:  make(map[string]shell.Transfer),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Mint credits amount to account out of thin air.
func (b *Bank) Mint(account core.AccountID, amount core.Amount) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.balances[account] = b.balanceOf(account).Add(amount)
}

// BalanceOf returns the balance of account, zero for unknown accounts.
func (b *Bank) BalanceOf(account core.AccountID) core.Amount {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.balanceOf(account)
}

// Transfer moves the amount if the source account covers it.
// Replaying an applied transfer is a no-op.
func (b *Bank) Transfer(ctx context.Context, transfer shell.Transfer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := bank.Validate(transfer); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if previous, ok := b.applied[transfer.ID]; ok {
		if !sameTransfer(previous, transfer) {
			return errors.Join(bank.ErrTransferIDReused, errors.New(transfer.ID))
		}

		return nil
	}

	if b.balanceOf(transfer.From).LessThan(transfer.Amount) {
		return bank.ErrInsufficientFunds
	}

	b.balances[transfer.From] = b.balanceOf(transfer.From).Sub(transfer.Amount)
	b.balances[transfer.To] = b.balanceOf(transfer.To).Add(transfer.Amount)
	b.applied[transfer.ID] = transfer

	if b.logger != nil {
		b.logger.Info("transfer applied",
			"transfer_id", transfer.ID,
			"from", transfer.From,
			"to", transfer.To,
			"amount", transfer.Amount.String(),
		)
	}

	return nil
}

func (b *Bank) balanceOf(account core.AccountID) core.Amount {
	if balance, ok := b.balances[account]; ok {
		return balance
	}

	return core.ZeroAmount()
}

func sameTransfer(a, b shell.Transfer) bool {
	return a.From == b.From && a.To == b.To && a.Amount.Equal(b.Amount)
}
