package observable

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/shell"
)

// CommandWrapper wraps a core command handler and adds metrics, tracing and logging.
// It translates the HandlerResult of the wrapped handler into metrics.
type CommandWrapper[C shell.Command] struct {
	coreHandler      shell.CommandHandler[C]
	commandType      string
	metricsCollector shell.MetricsCollector
	tracer           trace.Tracer
	logger           shell.Logger
}

// CommandOption defines a functional option for configuring CommandWrapper.
type CommandOption[C shell.Command] func(*CommandWrapper[C])

// WithCommandMetrics sets the metrics collector for the CommandWrapper.
func WithCommandMetrics[C shell.Command](collector shell.MetricsCollector) CommandOption[C] {
	return func(w *CommandWrapper[C]) {
		w.metricsCollector = collector
	}
}

// WithCommandTracing sets the OpenTelemetry tracer for the CommandWrapper.
func WithCommandTracing[C shell.Command](tracer trace.Tracer) CommandOption[C] {
	return func(w *CommandWrapper[C]) {
		w.tracer = tracer
	}
}

// WithCommandLogging sets the logger for the CommandWrapper.
func WithCommandLogging[C shell.Command](logger shell.Logger) CommandOption[C] {
	return func(w *CommandWrapper[C]) {
		w.logger = logger
	}
}

// NewCommandWrapper creates a new observable wrapper around the core command handler.
func NewCommandWrapper[C shell.Command](coreHandler shell.CommandHandler[C], opts ...CommandOption[C]) *CommandWrapper[C] {
	var zeroCommand C

	wrapper := &CommandWrapper[C]{
		coreHandler: coreHandler,
		commandType: zeroCommand.CommandType(),
	}

	for _, opt := range opts {
		opt(wrapper)
	}

	return wrapper
}

// Handle delegates to the wrapped handler and instruments the call.
func (w *CommandWrapper[C]) Handle(ctx context.Context, command C) (shell.HandlerResult, error) {
	start := time.Now()
	ctx, span := shell.StartSpan(ctx, w.tracer, shell.SpanNameCommandHandle, shell.LogAttrCommandType, w.commandType)

	if w.logger != nil {
		w.logger.Debug(shell.LogMsgCommandStarted, shell.LogAttrCommandType, w.commandType)
	}

	result, err := w.coreHandler.Handle(ctx, command)

	duration := time.Since(start)
	status := shell.StatusOf(result, err)

	shell.RecordRetryMetrics(ctx, w.metricsCollector, w.commandType, result)
	shell.RecordCommandMetrics(ctx, w.metricsCollector, w.commandType, status, duration)
	shell.FinishSpan(w.tracer, span, status, duration, err)
	shell.LogCommandResult(w.logger, w.commandType, status, duration, result.RetryAttempts, err)

	return result, err
}
