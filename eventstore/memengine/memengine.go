// Package memengine provides an in-process implementation of the auction event store.
//
// It offers the same contract as the PostgreSQL engine (dynamic event streams, optimistic concurrency
// through an expected MaxSequenceNumberUint, append together with a side effect) and is used
// for local development without a database and in handler tests.
package memengine

import (
	"context"
	"errors"
	"slices"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/eventstore"
)

const (
	logMsgOperation           = "eventstore operation: "
	logMsgQueryCompleted      = "query completed"
	logMsgEventsAppended      = "events appended"
	logMsgConcurrencyConflict = "concurrency conflict detected"
	logMsgSideEffectFailed    = "side effect failed, rolling back"
	logAttrError              = "error"
	logAttrEventCount         = "event_count"
	logAttrExpectedSequence   = "expected_sequence"
	logAttrActualSequence     = "actual_sequence"
)

// Logger is satisfied by *slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore)

// WithLogger sets the logger for the EventStore.
func WithLogger(logger Logger) Option {
	return func(es *EventStore) {
		es.logger = logger
	}
}

type record struct {
	sequenceNumber eventstore.MaxSequenceNumberUint
	event          eventstore.StorableEvent
}

// EventStore keeps all events of all streams in one globally sequenced log.
type EventStore struct {
	mu      sync.Mutex
	records []record
	logger  Logger
}

// NewEventStore creates an empty in-memory EventStore.
func NewEventStore(options ...Option) *EventStore {
	es := &EventStore{}

	for _, option := range options {
		option(es)
	}

	return es
}

// Query returns the events matching the filter in sequence order
// and the highest sequence number among them (0 for an empty stream).
func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	if err := ctx.Err(); err != nil {
		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, err)
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	events, maxSequenceNumber := es.matching(filter)

	es.logOperation(logMsgQueryCompleted, logAttrEventCount, len(events))

	return events, maxSequenceNumber, nil
}

// Append appends the events if the stream selected by filter still ends at expectedMaxSequenceNumber.
func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	return es.AppendWithSideEffect(ctx, filter, expectedMaxSequenceNumber, nil, event, additionalEvents...)
}

// AppendWithSideEffect works like Append, but the events only become visible if sideEffect succeeds.
// The store is locked while sideEffect runs.
func (es *EventStore) AppendWithSideEffect(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	sideEffect eventstore.SideEffect,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	if err := ctx.Err(); err != nil {
		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	_, actualMaxSequenceNumber := es.matching(filter)
	if actualMaxSequenceNumber != expectedMaxSequenceNumber {
		es.logOperation(
			logMsgConcurrencyConflict,
			logAttrExpectedSequence, expectedMaxSequenceNumber,
			logAttrActualSequence, actualMaxSequenceNumber,
		)

		return eventstore.ErrConcurrencyConflict
	}

	if sideEffect != nil {
		if err := sideEffect(ctx); err != nil {
			if es.logger != nil {
				es.logger.Warn(logMsgSideEffectFailed, logAttrError, err.Error())
			}

			return errors.Join(eventstore.ErrSideEffectFailed, err)
		}
	}

	allEvents := append(eventstore.StorableEvents{event}, additionalEvents...)
	for _, e := range allEvents {
		es.records = append(es.records, record{
			sequenceNumber: eventstore.MaxSequenceNumberUint(len(es.records) + 1),
			event:          cloneEvent(e),
		})
	}

	es.logOperation(logMsgEventsAppended, logAttrEventCount, len(allEvents))

	return nil
}

func (es *EventStore) matching(filter eventstore.Filter) (eventstore.StorableEvents, eventstore.MaxSequenceNumberUint) {
	events := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for _, r := range es.records {
		if !matches(filter, r.event) {
			continue
		}

		events = append(events, cloneEvent(r.event))
		maxSequenceNumber = r.sequenceNumber
	}

	return events, maxSequenceNumber
}

// matches mirrors the semantics of the SQL translation: items are combined with OR,
// inside an item (type OR type...) AND (predicate OR predicate...), empty lists don't restrict.
func matches(filter eventstore.Filter, event eventstore.StorableEvent) bool {
	if len(filter.Items()) == 0 {
		return true
	}

	for _, item := range filter.Items() {
		if len(item.EventTypes()) > 0 && !slices.Contains(item.EventTypes(), event.EventType) {
			continue
		}

		if len(item.Predicates()) == 0 {
			return true
		}

		for _, predicate := range item.Predicates() {
			value := jsoniter.ConfigFastest.Get(event.PayloadJSON, predicate.Key())
			if value.ValueType() == jsoniter.StringValue && value.ToString() == predicate.Val() {
				return true
			}
		}
	}

	return false
}

func cloneEvent(event eventstore.StorableEvent) eventstore.StorableEvent {
	event.PayloadJSON = slices.Clone(event.PayloadJSON)
	event.MetadataJSON = slices.Clone(event.MetadataJSON)

	return event
}

func (es *EventStore) logOperation(action string, args ...any) {
	if es.logger != nil {
		es.logger.Info(logMsgOperation+action, args...)
	}
}
