// Package redisbank keeps account balances in Redis.
//
// Balances are decimal strings under "<prefix>balance:<account>". A transfer reads both balances
// under WATCH and writes them in one MULTI/EXEC together with the record "<prefix>transfer:<id>",
// which makes every transfer ID apply at most once.
package redisbank

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/core"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/shell"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/bank"
)

const (
	defaultKeyPrefix  = "auctiond:bank:"
	defaultMaxRetries = 10
	pingTimeout       = 5 * time.Second
)

var (
	// ErrTooManyConflicts is returned if optimistic retries did not get through.
	ErrTooManyConflicts = errors.New("too many concurrent modifications of the same accounts")

	// ErrCorruptBalance is returned if a stored balance is not a decimal.
	ErrCorruptBalance = errors.New("stored balance is not a decimal")
)

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// Bank is a shell.TransfersValue backed by Redis.
type Bank struct {
	client     redis.UniversalClient
	keyPrefix  string
	maxRetries int
}

// Option configures a Bank.
type Option func(*Bank)

// WithKeyPrefix namespaces all keys, e.g. to isolate tests.
func WithKeyPrefix(prefix string) Option {
	return func(b *Bank) {
		b.keyPrefix = prefix
	}
}

// WithMaxRetries sets how often a transfer is retried after a WATCH conflict.
func WithMaxRetries(maxRetries int) Option {
	return func(b *Bank) {
		if maxRetries > 0 {
			b.maxRetries = maxRetries
		}
	}
}

// New creates a Bank using an existing client.
func New(client redis.UniversalClient, opts ...Option) *Bank {
	b := &Bank{
		client:     client,
		keyPrefix:  defaultKeyPrefix,
		maxRetries: defaultMaxRetries,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewClient connects to Redis and pings it.
func NewClient(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return rdb, nil
}

// Mint credits amount to account.
func (b *Bank) Mint(ctx context.Context, account core.AccountID, amount core.Amount) error {
	key := b.balanceKey(account)

	return b.watchWithRetry(ctx, func(tx *redis.Tx) error {
		balance, err := readBalance(ctx, tx, key)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, balance.Add(amount).String(), 0)
			return nil
		})

		return err
	}, key)
}

// BalanceOf returns the balance of account, zero for unknown accounts.
func (b *Bank) BalanceOf(ctx context.Context, account core.AccountID) (core.Amount, error) {
	return readBalance(ctx, b.client, b.balanceKey(account))
}

// Transfer moves the amount if the source account covers it. Replaying an applied transfer is a no-op.
func (b *Bank) Transfer(ctx context.Context, transfer shell.Transfer) error {
	if err := bank.Validate(transfer); err != nil {
		return err
	}

	fromKey := b.balanceKey(transfer.From)
	toKey := b.balanceKey(transfer.To)
	transferKey := b.transferKey(transfer.ID)

	record, err := jsoniter.ConfigFastest.MarshalToString(transfer)
	if err != nil {
		return err
	}

	return b.watchWithRetry(ctx, func(tx *redis.Tx) error {
		applied, getErr := tx.Get(ctx, transferKey).Result()
		switch {
		case getErr == nil:
			return compareApplied(applied, transfer)
		case !errors.Is(getErr, redis.Nil):
			return getErr
		}

		fromBalance, readErr := readBalance(ctx, tx, fromKey)
		if readErr != nil {
			return readErr
		}

		toBalance, readErr := readBalance(ctx, tx, toKey)
		if readErr != nil {
			return readErr
		}

		if fromBalance.LessThan(transfer.Amount) {
			return bank.ErrInsufficientFunds
		}

		_, pipeErr := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, fromKey, fromBalance.Sub(transfer.Amount).String(), 0)
			pipe.Set(ctx, toKey, toBalance.Add(transfer.Amount).String(), 0)
			pipe.Set(ctx, transferKey, record, 0)
			return nil
		})

		return pipeErr
	}, fromKey, toKey, transferKey)
}

func (b *Bank) watchWithRetry(ctx context.Context, fn func(tx *redis.Tx) error, keys ...string) error {
	for range b.maxRetries {
		err := b.client.Watch(ctx, fn, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}

		return err
	}

	return ErrTooManyConflicts
}

func (b *Bank) balanceKey(account core.AccountID) string {
	return b.keyPrefix + "balance:" + account
}

func (b *Bank) transferKey(id string) string {
	return b.keyPrefix + "transfer:" + id
}

func readBalance(ctx context.Context, c getter, key string) (core.Amount, error) {
	raw, err := c.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return core.ZeroAmount(), nil
	}

	if err != nil {
		return core.ZeroAmount(), err
	}

	balance, err := decimal.NewFromString(raw)
	if err != nil {
		return core.ZeroAmount(), errors.Join(ErrCorruptBalance, err)
	}

	return balance, nil
}

func compareApplied(record string, transfer shell.Transfer) error {
	var applied shell.Transfer
	if err := jsoniter.ConfigFastest.UnmarshalFromString(record, &applied); err != nil {
		return err
	}

	if applied.From != transfer.From || applied.To != transfer.To || !applied.Amount.Equal(transfer.Amount) {
		return errors.Join(bank.ErrTransferIDReused, errors.New(transfer.ID))
	}

	return nil
}
