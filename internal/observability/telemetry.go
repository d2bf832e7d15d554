package observability

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry bundles what every service operation reports to.
type Telemetry struct {
	Logger  *slog.Logger
	Metrics Metrics
	Tracer  trace.Tracer
}

// Normalize fills nil members with defaults.
func (t Telemetry) Normalize() Telemetry {
	if t.Logger == nil {
		t.Logger = slog.Default()
	}
	if t.Metrics == nil {
		t.Metrics = NoOpMetrics{}
	}
	if t.Tracer == nil {
		t.Tracer = Tracer()
	}
	return t
}

// WithTelemetry wraps a service operation with tracing, metrics, logging and
// panic recovery. attrs are attached to the span and every log line.
func WithTelemetry[T any](
	ctx context.Context,
	tel Telemetry,
	operationName string,
	attrs []attribute.KeyValue,
	op func(ctx context.Context) (T, error),
) (result T, err error) {
	tel = tel.Normalize()

	ctx, span := tel.Tracer.Start(ctx, operationName, trace.WithAttributes(
		append([]attribute.KeyValue{attribute.String("operation", operationName)}, attrs...)...,
	))
	defer span.End()

	logAttrs := make([]any, 0, len(attrs)+1)
	logAttrs = append(logAttrs, slog.String("operation", operationName))
	for _, a := range attrs {
		logAttrs = append(logAttrs, slog.Any(string(a.Key), a.Value.AsInterface()))
	}

	tel.Metrics.RecordOperationAttempt(ctx, operationName)

	startTime := time.Now()
	defer func() {
		tel.Metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	tel.Logger.DebugContext(ctx, operationName+" triggered", logAttrs...)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			tel.Logger.ErrorContext(ctx, "Critical panic recovered", append(logAttrs, slog.Any("error", err))...)
			tel.Metrics.RecordOperationFailure(ctx, operationName)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			var zero T
			result = zero
		}
	}()

	result, err = op(ctx)
	if err != nil {
		tel.Logger.ErrorContext(ctx, "Operation failed with error", append(logAttrs, slog.Any("error", err))...)
		tel.Metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}

	tel.Logger.DebugContext(ctx, operationName+" completed successfully", logAttrs...)
	tel.Metrics.RecordOperationSuccess(ctx, operationName)
	return result, nil
}
