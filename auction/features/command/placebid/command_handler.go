package placebid

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
// The side effect is the deposit of the bid into the auction's escrow account.
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
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		return h.executeCommand(retryCtx, command)
	}, h.retryOptions...)

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	return shell.NewSuccessResult(retryMetrics), nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) error {
	filter := BuildEventFilter(command.AuctionID)

	ctx = eventstore.WithStrongConsistency(ctx)

	storableEvents, maxSequenceNumber, err := h.eventStore.Query(ctx, filter)
	if err != nil {
		return err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return err
	}

	result := Decide(history, command)

	if decisionErr := result.HasError(); decisionErr != nil {
		return decisionErr
	}

	storableEvent, marshalErr := shell.StorableEventFrom(result.Event, shell.NewEventMetadata())
	if marshalErr != nil {
		return marshalErr
	}

	auctionID := command.AuctionID.String()
	deposit := shell.BuildTransfer(
		auctionID,
		maxSequenceNumber,
		shell.TransferKindDeposit,
		command.Bidder,
		core.EscrowAccountOf(auctionID),
		command.Amount,
	)

	return h.eventStore.AppendWithSideEffect(
		ctx,
		filter,
		maxSequenceNumber,
		shell.TransferSideEffect(h.bank, deposit),
		storableEvent,
	)
}
