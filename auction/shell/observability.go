package shell

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/core"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/eventstore"
)

const (
	// CommandHandlerDurationMetric tracks command handler execution duration (OpenTelemetry-compatible).
	CommandHandlerDurationMetric = "commandhandler_handle_duration_seconds"

	// CommandHandlerCallsMetric tracks total command handler calls.
	CommandHandlerCallsMetric = "commandhandler_handle_calls_total"

	// CommandHandlerRetriesMetric tracks command executions which needed retries.
	CommandHandlerRetriesMetric = "commandhandler_retries_total"

	// CommandHandlerRetryDelayMetric tracks the total backoff delay of a command execution.
	CommandHandlerRetryDelayMetric = "commandhandler_retry_delay_seconds"

	// CommandHandlerMaxRetriesReachedMetric tracks when max retries are exhausted.
	CommandHandlerMaxRetriesReachedMetric = "commandhandler_max_retries_reached_total"

	// QueryHandlerDurationMetric tracks query handler execution duration (OpenTelemetry-compatible).
	QueryHandlerDurationMetric = "queryhandler_handle_duration_seconds"

	// QueryHandlerCallsMetric tracks total query handler calls.
	QueryHandlerCallsMetric = "queryhandler_handle_calls_total"

	StatusSuccess             = "success"
	StatusIdempotent          = "idempotent"
	StatusRejected            = "rejected" // business rule violation
	StatusError               = "error"
	StatusCanceled            = "canceled"
	StatusTimeout             = "timeout"
	StatusConcurrencyConflict = "concurrency_conflict"

	LogMsgCommandStarted   = "command handler started"
	LogMsgCommandCompleted = "command handler completed"
	LogMsgCommandRejected  = "command handler rejected command"
	LogMsgCommandFailed    = "command handler failed"
	LogMsgQueryCompleted   = "query handler completed"
	LogMsgQueryFailed      = "query handler failed"

	LogAttrCommandType  = "command_type"
	LogAttrQueryType    = "query_type"
	LogAttrStatus       = "status"
	LogAttrDurationMS   = "duration_ms"
	LogAttrError        = "error"
	LogAttrFailureKind  = "failure_kind"
	LogAttrAttempts     = "attempts"
	LogAttrAttemptCount = "attempt_count"

	SpanNameCommandHandle = "commandhandler.handle"
	SpanNameQueryHandle   = "queryhandler.handle"
)

// BuildCommandLabels creates standard metric labels for command handler operations.
func BuildCommandLabels(commandType, status string) map[string]string {
	return map[string]string{
		LogAttrCommandType: commandType,
		LogAttrStatus:      status,
	}
}

// BuildQueryLabels creates standard metric labels for query handler operations.
func BuildQueryLabels(queryType, status string) map[string]string {
	return map[string]string{
		LogAttrQueryType: queryType,
		LogAttrStatus:    status,
	}
}

// ToMilliseconds converts a time.Duration to float64 milliseconds with precision.
func ToMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// StatusOf classifies the outcome of a handler call for metrics, spans and logs.
func StatusOf(result HandlerResult, err error) string {
	switch {
	case err == nil && result.Idempotent:
		return StatusIdempotent
	case err == nil:
		return StatusSuccess
	case errors.Is(err, context.Canceled):
		return StatusCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout
	case errors.Is(err, eventstore.ErrConcurrencyConflict):
		return StatusConcurrencyConflict
	case core.KindOf(err) != core.KindInternal:
		return StatusRejected
	default:
		return StatusError
	}
}

// RecordCommandMetrics records duration and call count of a command operation.
func RecordCommandMetrics(
	ctx context.Context,
	collector MetricsCollector,
	commandType string,
	status string,
	duration time.Duration,
) {

	if collector == nil {
		return
	}

	labels := BuildCommandLabels(commandType, status)
	collector.RecordDuration(ctx, CommandHandlerDurationMetric, duration, labels)
	collector.IncrementCounter(ctx, CommandHandlerCallsMetric, labels)
}

// RecordRetryMetrics records retry execution metadata from the handler result.
func RecordRetryMetrics(ctx context.Context, collector MetricsCollector, commandType string, result HandlerResult) {
	if collector == nil {
		return
	}

	labels := map[string]string{LogAttrCommandType: commandType}

	if result.RetryAttempts > 1 {
		collector.IncrementCounter(ctx, CommandHandlerRetriesMetric, map[string]string{
			LogAttrCommandType:  commandType,
			LogAttrAttemptCount: fmt.Sprintf("%d", result.RetryAttempts),
		})
		collector.RecordDuration(ctx, CommandHandlerRetryDelayMetric, result.TotalRetryDelay, labels)
	}

	if result.RetriesExhausted {
		collector.IncrementCounter(ctx, CommandHandlerMaxRetriesReachedMetric, labels)
	}
}

// RecordQueryMetrics records duration and call count of a query operation.
func RecordQueryMetrics(
	ctx context.Context,
	collector MetricsCollector,
	queryType string,
	status string,
	duration time.Duration,
) {

	if collector == nil {
		return
	}

	labels := BuildQueryLabels(queryType, status)
	collector.RecordDuration(ctx, QueryHandlerDurationMetric, duration, labels)
	collector.IncrementCounter(ctx, QueryHandlerCallsMetric, labels)
}

// StartSpan starts a span if a tracer is configured. Without a tracer it returns the span of ctx,
// which is a no-op span unless the caller started one.
func StartSpan(ctx context.Context, tracer trace.Tracer, spanName string, typeAttr string, typeName string) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}

	return tracer.Start(ctx, spanName, trace.WithAttributes(attribute.String(typeAttr, typeName)))
}

// FinishSpan records status, duration and error on a span started with StartSpan.
func FinishSpan(tracer trace.Tracer, span trace.Span, status string, duration time.Duration, err error) {
	if tracer == nil {
		return
	}

	span.SetAttributes(
		attribute.String(LogAttrStatus, status),
		attribute.Float64(LogAttrDurationMS, ToMilliseconds(duration)),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, status)
	} else {
		span.SetStatus(codes.Ok, status)
	}

	span.End()
}

// LogCommandResult logs the outcome of a command: business rejections at warn, failures at error.
func LogCommandResult(logger Logger, commandType string, status string, duration time.Duration, attempts int, err error) {
	if logger == nil {
		return
	}

	args := []any{
		LogAttrCommandType, commandType,
		LogAttrStatus, status,
		LogAttrDurationMS, ToMilliseconds(duration),
		LogAttrAttempts, attempts,
	}

	switch {
	case err == nil:
		logger.Info(LogMsgCommandCompleted, args...)
	case status == StatusRejected:
		logger.Warn(LogMsgCommandRejected, append(args, LogAttrFailureKind, string(core.KindOf(err)), LogAttrError, err.Error())...)
	default:
		logger.Error(LogMsgCommandFailed, append(args, LogAttrError, err.Error())...)
	}
}

// LogQueryResult logs the outcome of a query.
func LogQueryResult(logger Logger, queryType string, status string, duration time.Duration, err error) {
	if logger == nil {
		return
	}

	args := []any{
		LogAttrQueryType, queryType,
		LogAttrStatus, status,
		LogAttrDurationMS, ToMilliseconds(duration),
	}

	if err != nil {
		logger.Error(LogMsgQueryFailed, append(args, LogAttrError, err.Error())...)
		return
	}

	logger.Info(LogMsgQueryCompleted, args...)
}
