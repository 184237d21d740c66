package withdrawrefund

import (
	"context"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/core"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/shell"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/eventstore"
)

// EventStore defines the interface needed by the CommandHandler for event store operations.
type EventStore interface {
	Query(ctx context.Context, filter eventstore.Filter) (
		eventstore.StorableEvents,
		eventstore.MaxSequenceNumberUint,
		error,
	)
	AppendWithSideEffect(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		sideEffect eventstore.SideEffect,
		event eventstore.StorableEvent,
		additionalEvents ...eventstore.StorableEvent,
	) error
}

// CommandHandler orchestrates Query -> Unmarshal -> Decide -> AppendWithSideEffect with retry.
// The side effect is the transfer of the pending return out of the auction's escrow account.
type CommandHandler struct {
	eventStore   EventStore
	bank         shell.TransfersValue
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(eventStore EventStore, bank shell.TransfersValue, opts ...Option) CommandHandler {
	handler := CommandHandler{
		eventStore: eventStore,
		bank:       bank,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the command with retry on concurrency conflicts.
// Withdrawing with nothing owed returns an idempotent result and no error.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	var isIdempotent bool

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		idempotent, execErr := h.executeCommand(retryCtx, command)
		isIdempotent = idempotent

		return execErr
	}, h.retryOptions...)

	if isIdempotent {
		return shell.NewIdempotentResult(retryMetrics), err
	}

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	return shell.NewSuccessResult(retryMetrics), nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (bool, error) {
	filter := BuildEventFilter(command.AuctionID)

	ctx = eventstore.WithStrongConsistency(ctx)

	storableEvents, maxSequenceNumber, err := h.eventStore.Query(ctx, filter)
	if err != nil {
		return false, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return false, err
	}

	result := Decide(history, command)

	if result.IsIdempotent() {
		return true, nil
	}

	if decisionErr := result.HasError(); decisionErr != nil {
		return false, decisionErr
	}

	withdrawn, ok := result.Event.(core.RefundWithdrawn)
	if !ok {
		return false, shell.ErrMappingToStorableEventFailedForDomainEvent
	}

	storableEvent, marshalErr := shell.StorableEventFrom(withdrawn, shell.NewEventMetadata())
	if marshalErr != nil {
		return false, marshalErr
	}

	refund := shell.BuildTransfer(
		withdrawn.AuctionID,
		maxSequenceNumber,
		shell.TransferKindWithdrawal,
		core.EscrowAccountOf(withdrawn.AuctionID),
		withdrawn.Account,
		withdrawn.Amount,
	)

	return false, h.eventStore.AppendWithSideEffect(
		ctx,
		filter,
		maxSequenceNumber,
		shell.TransferSideEffect(h.bank, refund),
		storableEvent,
	)
}
