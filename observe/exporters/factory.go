// Package exporters builds the OpenTelemetry exporters selected by name in
// observe.Config.
//
// "none" and the empty name select no exporter: the constructors return
// nil and observe builds a provider without a processor or reader, so spans
// and measurements are dropped without being encoded.
package exporters

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

var (
	// ErrUnknownExporter indicates an exporter name outside the supported set.
	ErrUnknownExporter = errors.New("exporters: unknown exporter")

	// ErrEndpointNotConfigured indicates none of the endpoint variables is set.
	ErrEndpointNotConfigured = errors.New("exporters: endpoint not configured")
)

// Output is where stdout exporters write. Tests may redirect it.
var Output io.Writer = os.Stdout

// None is the exporter name that disables export.
const None = "none"

type (
	traceFactory  func(ctx context.Context) (sdktrace.SpanExporter, error)
	metricFactory func(ctx context.Context) (sdkmetric.Reader, error)
)

var traceFactories = map[string]traceFactory{
	"stdout": func(context.Context) (sdktrace.SpanExporter, error) {
		exp, err := stdouttrace.New(stdouttrace.WithWriter(Output), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, err
		}
		return exp, nil
	},
	"otlp": func(ctx context.Context) (sdktrace.SpanExporter, error) {
		if err := requireEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"); err != nil {
			return nil, err
		}
		exp, err := otlptracegrpc.New(ctx)
		if err != nil {
			return nil, err
		}
		return exp, nil
	},
	// Jaeger ingests OTLP natively.
	"jaeger": func(ctx context.Context) (sdktrace.SpanExporter, error) {
		endpoint := os.Getenv("OTEL_EXPORTER_JAEGER_ENDPOINT")
		if endpoint == "" {
			return nil, fmt.Errorf("%w: set OTEL_EXPORTER_JAEGER_ENDPOINT", ErrEndpointNotConfigured)
		}
		exp, err := otlptracegrpc.New(ctx, otlptracegrpc.WithEndpointURL(endpoint))
		if err != nil {
			return nil, err
		}
		return exp, nil
	},
}

var metricFactories = map[string]metricFactory{
	"stdout": func(context.Context) (sdkmetric.Reader, error) {
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(Output))
		if err != nil {
			return nil, err
		}
		return sdkmetric.NewPeriodicReader(exp), nil
	},
	"otlp": func(ctx context.Context) (sdkmetric.Reader, error) {
		if err := requireEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_METRICS_ENDPOINT"); err != nil {
			return nil, err
		}
		exp, err := otlpmetricgrpc.New(ctx)
		if err != nil {
			return nil, err
		}
		return sdkmetric.NewPeriodicReader(exp), nil
	},
	// The Prometheus exporter is itself a pull reader.
	"prometheus": func(context.Context) (sdkmetric.Reader, error) {
		exp, err := prometheus.New()
		if err != nil {
			return nil, err
		}
		return exp, nil
	},
}

// TracingNames returns the accepted tracing exporter names, sorted.
func TracingNames() []string {
	return append(slices.Sorted(maps.Keys(traceFactories)), None)
}

// MetricsNames returns the accepted metrics exporter names, sorted.
func MetricsNames() []string {
	return append(slices.Sorted(maps.Keys(metricFactories)), None)
}

// NewTracingExporter creates a span exporter by name. It returns nil for
// None and the empty name.
func NewTracingExporter(ctx context.Context, name string) (sdktrace.SpanExporter, error) {
	if name == None || name == "" {
		return nil, nil
	}
	f, ok := traceFactories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownExporter, name)
	}
	exp, err := f(ctx)
	if err != nil {
		return nil, fmt.Errorf("tracing exporter %s: %w", name, err)
	}
	return exp, nil
}

// NewMetricsReader creates a metrics reader by name. It returns nil for
// None and the empty name.
func NewMetricsReader(ctx context.Context, name string) (sdkmetric.Reader, error) {
	if name == None || name == "" {
		return nil, nil
	}
	f, ok := metricFactories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownExporter, name)
	}
	r, err := f(ctx)
	if err != nil {
		return nil, fmt.Errorf("metrics reader %s: %w", name, err)
	}
	return r, nil
}

// requireEnv succeeds when at least one of the variables is set.
func requireEnv(keys ...string) error {
	for _, k := range keys {
		if os.Getenv(k) != "" {
			return nil
		}
	}
	return fmt.Errorf("%w: set one of %v", ErrEndpointNotConfigured, keys)
}
