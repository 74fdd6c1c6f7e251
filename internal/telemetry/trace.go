package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/taskflow/internal/scheduler"
)

const instrumentation = "github.com/felixgeelhaar/taskflow"

// StartSpan starts a span named name on the taskflow tracer.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return GetTracerProvider().Tracer(instrumentation).Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartResolveSpan starts the span around one dependency resolution and
// records the size of the graph.
//
//	ctx, span := telemetry.StartResolveSpan(ctx, tasks)
//	defer span.End()
func StartResolveSpan(ctx context.Context, tasks []scheduler.Task) (context.Context, trace.Span) {
	return StartSpan(ctx, "scheduler.resolve",
		attribute.Int("taskflow.tasks", len(tasks)),
		attribute.Int("taskflow.edges", scheduler.EdgeCount(tasks)),
	)
}

// RecordSuccess marks a span as successful with optional result attributes.
func RecordSuccess(span trace.Span, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
	span.SetStatus(codes.Ok, "")
}

// RecordError records err on the span and sets error status. A nil err is a
// no-op.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// TraceFunction runs fn inside a span named name.
func TraceFunction[T any](ctx context.Context, name string, fn func(context.Context) (T, error)) (T, error) {
	ctx, span := StartSpan(ctx, name)
	defer span.End()

	result, err := fn(ctx)
	if err != nil {
		RecordError(span, err)
		return result, err
	}

	RecordSuccess(span)
	return result, nil
}
