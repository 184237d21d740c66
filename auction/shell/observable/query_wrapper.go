package observable

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/shell"
)

// QueryWrapper wraps a query handler and adds metrics, tracing and logging.
type QueryWrapper[Q shell.Query, R any] struct {
	coreHandler      shell.QueryHandler[Q, R]
	queryType        string
	metricsCollector shell.MetricsCollector
	tracer           trace.Tracer
	logger           shell.Logger
}

// QueryOption defines a functional option for configuring QueryWrapper.
type QueryOption[Q shell.Query, R any] func(*QueryWrapper[Q, R])

// WithQueryMetrics sets the metrics collector for the QueryWrapper.
func WithQueryMetrics[Q shell.Query, R any](collector shell.MetricsCollector) QueryOption[Q, R] {
	return func(w *QueryWrapper[Q, R]) {
		w.metricsCollector = collector
	}
}

// WithQueryTracing sets the OpenTelemetry tracer for the QueryWrapper.
func WithQueryTracing[Q shell.Query, R any](tracer trace.Tracer) QueryOption[Q, R] {
	return func(w *QueryWrapper[Q, R]) {
		w.tracer = tracer
	}
}

// WithQueryLogging sets the logger for the QueryWrapper.
func WithQueryLogging[Q shell.Query, R any](logger shell.Logger) QueryOption[Q, R] {
	return func(w *QueryWrapper[Q, R]) {
		w.logger = logger
	}
}

// NewQueryWrapper creates a new observable wrapper around a query handler.
func NewQueryWrapper[Q shell.Query, R any](coreHandler shell.QueryHandler[Q, R], opts ...QueryOption[Q, R]) *QueryWrapper[Q, R] {
	var zeroQuery Q

	wrapper := &QueryWrapper[Q, R]{
		coreHandler: coreHandler,
		queryType:   zeroQuery.QueryType(),
	}

	for _, opt := range opts {
		opt(wrapper)
	}

	return wrapper
}

// Handle delegates to the wrapped handler and instruments the call.
func (w *QueryWrapper[Q, R]) Handle(ctx context.Context, query Q) (R, error) {
	start := time.Now()
	ctx, span := shell.StartSpan(ctx, w.tracer, shell.SpanNameQueryHandle, shell.LogAttrQueryType, w.queryType)

	result, err := w.coreHandler.Handle(ctx, query)

	duration := time.Since(start)
	status := shell.StatusOf(shell.HandlerResult{}, err)

	shell.RecordQueryMetrics(ctx, w.metricsCollector, w.queryType, status, duration)
	shell.FinishSpan(w.tracer, span, status, duration, err)
	shell.LogQueryResult(w.logger, w.queryType, status, duration, err)

	return result, err
}
