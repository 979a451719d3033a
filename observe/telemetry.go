package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Metric names recorded by Telemetry.
const (
	MetricEvents   = "lazyops.events"
	MetricErrors   = "lazyops.errors"
	MetricDuration = "lazyops.duration_ms"
)

// Telemetry is a Recorder that turns lifecycle events into spans, metrics
// and log entries.
//
// Resource identities appear on spans and logs only; metric attributes are
// limited to component, event and facet name to keep cardinality bounded.
type Telemetry struct {
	tracer   trace.Tracer
	logger   Logger
	events   metric.Int64Counter
	errors   metric.Int64Counter
	duration metric.Float64Histogram
}

// NewTelemetry creates a Telemetry recorder from an Observer.
func NewTelemetry(obs Observer) (*Telemetry, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}
	return newTelemetry(obs.Tracer(), obs.Meter(), obs.Logger())
}

func newTelemetry(tracer trace.Tracer, meter metric.Meter, logger Logger) (*Telemetry, error) {
	events, err := meter.Int64Counter(
		MetricEvents,
		metric.WithDescription("Lifecycle events of lazily materialized values"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	errCount, err := meter.Int64Counter(
		MetricErrors,
		metric.WithDescription("Failed constructions, loads and pool creations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		MetricDuration,
		metric.WithDescription("Duration of constructions, loads and pool creations in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = NopLogger()
	}

	return &Telemetry{
		tracer:   tracer,
		logger:   logger,
		events:   events,
		errors:   errCount,
		duration: duration,
	}, nil
}

// SpanName returns the span name for a completed event.
// Format: lazyops.<component>.<event>
func SpanName(e EventData) string {
	return "lazyops." + e.Component + "." + e.Event.String()
}

// Record implements Recorder.
func (t *Telemetry) Record(ctx context.Context, e EventData) {
	attrs := []attribute.KeyValue{
		attribute.String("lazyops.component", e.Component),
		attribute.String("lazyops.event", e.Event.String()),
	}
	if e.Facet != "" {
		attrs = append(attrs, attribute.String("lazyops.facet", e.Facet))
	}
	opt := metric.WithAttributes(attrs...)

	t.events.Add(ctx, 1, opt)

	if e.Event.Completed() {
		t.duration.Record(ctx, float64(e.Duration.Microseconds())/1000, opt)
		ctx = t.span(ctx, e, attrs)
	}

	// A canceled waiter is not a failed load; only completed work counts.
	if e.Err != nil && e.Event != EventCanceled {
		t.errors.Add(ctx, 1, opt)
	}

	t.log(ctx, e)
}

// span records the finished work retroactively using the event's timing.
func (t *Telemetry) span(ctx context.Context, e EventData, attrs []attribute.KeyValue) context.Context {
	attrs = append(attrs, attribute.String("lazyops.resource", e.Resource))
	if e.Handle != "" {
		attrs = append(attrs, attribute.String("lazyops.handle", e.Handle))
	}

	ctx, span := t.tracer.Start(ctx, SpanName(e),
		trace.WithTimestamp(e.Start),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	if e.Err != nil {
		span.SetStatus(codes.Error, e.Err.Error())
		span.RecordError(e.Err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(e.Start.Add(e.Duration)))
	return ctx
}

func (t *Telemetry) log(ctx context.Context, e EventData) {
	fields := []Field{
		{Key: "component", Value: e.Component},
		{Key: "event", Value: e.Event.String()},
		{Key: "resource", Value: e.Resource},
	}
	if e.Facet != "" {
		fields = append(fields, Field{Key: "facet", Value: e.Facet})
	}
	if e.Handle != "" {
		fields = append(fields, Field{Key: "handle", Value: e.Handle})
	}
	if e.Event.Completed() {
		fields = append(fields, Field{Key: "duration_ms", Value: float64(e.Duration.Milliseconds())})
	}

	switch {
	case e.Event == EventCanceled:
		fields = append(fields, Field{Key: "error", Value: e.Err})
		t.logger.Warn(ctx, "waiter canceled", fields...)
	case e.Err != nil:
		fields = append(fields, Field{Key: "error", Value: e.Err})
		t.logger.Error(ctx, e.Component+" "+e.Event.String()+" failed", fields...)
	case e.Event.Completed():
		t.logger.Info(ctx, e.Component+" "+e.Event.String()+" completed", fields...)
	default:
		t.logger.Debug(ctx, e.Component+" "+e.Event.String(), fields...)
	}
}

var _ Recorder = (*Telemetry)(nil)
