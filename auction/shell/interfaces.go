package shell

import (
	"context"
	"time"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/eventstore"
)

// Command represents the contract for all command types in the auction application.
// The CommandType method enables polymorphic handling and observability instrumentation.
type Command interface {
	CommandType() string
}

// Query represents the contract for all query types.
type Query interface {
	QueryType() string
}

// CommandHandler defines the contract for components that process commands.
// Handlers return HandlerResult containing business outcomes (idempotency) and execution metadata (retry info).
type CommandHandler[C Command] interface {
	Handle(ctx context.Context, command C) (HandlerResult, error)
}

// QueryHandler defines the contract for components that process queries and return projections.
type QueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

// Clock supplies the current time of a call.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now returns the result of calling f.
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock returns the wall clock.
func SystemClock() Clock {
	return ClockFunc(time.Now)
}

// FixedClock always returns t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// Logger interface for basic logging in command and query handlers. It is satisfied by *slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// MetricsCollector collects command handler metrics.
// oteladapters.MetricsCollector implements it with OpenTelemetry instruments.
type MetricsCollector interface {
	RecordDuration(ctx context.Context, metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(ctx context.Context, metric string, labels map[string]string)
}

// QueriesEvents is the read side of the event store used by query handlers.
type QueriesEvents interface {
	Query(ctx context.Context, filter eventstore.Filter) (
		eventstore.StorableEvents,
		eventstore.MaxSequenceNumberUint,
		error,
	)
}
