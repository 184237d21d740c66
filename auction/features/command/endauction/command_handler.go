package endauction

import (
	"context"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/core"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/shell"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/eventstore"
)

const (
	logMsgPublishFailed = "publishing settlement record failed"
	logAttrAuctionID    = "auction_id"
	logAttrError        = "error"
)

// EventStore defines the interface needed by the CommandHandler for event store operations.
type EventStore interface {
	Query(ctx context.Context, filter eventstore.Filter) (
		eventstore.StorableEvents,
		eventstore.MaxSequenceNumberUint,
		error,
	)
	Append(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		event eventstore.StorableEvent,
		additionalEvents ...eventstore.StorableEvent,
	) error
	AppendWithSideEffect(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		sideEffect eventstore.SideEffect,
		event eventstore.StorableEvent,
		additionalEvents ...eventstore.StorableEvent,
	) error
}

// SettlementPublisher announces committed settlement records.
type SettlementPublisher interface {
	PublishSettlement(ctx context.Context, record core.AuctionEnded) error
}

// CommandHandler orchestrates Query -> Unmarshal -> Decide -> Append with retry.
// A settlement with a positive amount pays the beneficiary as side effect of the append.
type CommandHandler struct {
	eventStore   EventStore
	bank         shell.TransfersValue
	publisher    SettlementPublisher
	logger       shell.Logger
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

// WithSettlementPublisher publishes every committed settlement record.
func WithSettlementPublisher(publisher SettlementPublisher) Option {
	return func(h *CommandHandler) {
		h.publisher = publisher
	}
}

// WithLogger sets the logger for publish failures.
func WithLogger(logger shell.Logger) Option {
	return func(h *CommandHandler) {
		h.logger = logger
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

// Handle executes the command with retry on concurrency conflicts and publishes the settlement record.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	var record core.AuctionEnded

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		settled, execErr := h.executeCommand(retryCtx, command)
		record = settled

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	h.publish(ctx, record)

	return shell.NewSuccessResult(retryMetrics), nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.AuctionEnded, error) {
	filter := BuildEventFilter(command.AuctionID)

	ctx = eventstore.WithStrongConsistency(ctx)

	storableEvents, maxSequenceNumber, err := h.eventStore.Query(ctx, filter)
	if err != nil {
		return core.AuctionEnded{}, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return core.AuctionEnded{}, err
	}

	result := Decide(history, command)

	if decisionErr := result.HasError(); decisionErr != nil {
		return core.AuctionEnded{}, decisionErr
	}

	record, ok := result.Event.(core.AuctionEnded)
	if !ok {
		return core.AuctionEnded{}, shell.ErrMappingToStorableEventFailedForDomainEvent
	}

	storableEvent, marshalErr := shell.StorableEventFrom(record, shell.NewEventMetadata())
	if marshalErr != nil {
		return core.AuctionEnded{}, marshalErr
	}

	if !record.Amount.IsPositive() {
		return record, h.eventStore.Append(ctx, filter, maxSequenceNumber, storableEvent)
	}

	payout := shell.BuildTransfer(
		record.AuctionID,
		maxSequenceNumber,
		shell.TransferKindSettlement,
		core.EscrowAccountOf(record.AuctionID),
		record.Beneficiary,
		record.Amount,
	)

	return record, h.eventStore.AppendWithSideEffect(
		ctx,
		filter,
		maxSequenceNumber,
		shell.TransferSideEffect(h.bank, payout),
		storableEvent,
	)
}

func (h CommandHandler) publish(ctx context.Context, record core.AuctionEnded) {
	if h.publisher == nil {
		return
	}

	if err := h.publisher.PublishSettlement(ctx, record); err != nil && h.logger != nil {
		h.logger.Warn(logMsgPublishFailed, logAttrAuctionID, record.AuctionID, logAttrError, err.Error())
	}
}
