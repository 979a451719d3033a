package observe

import (
	"errors"

	"github.com/jonwraymond/lazyops/observe/exporters"
)

// Sentinel errors. Config.Validate joins every one that applies.
var (
	ErrMissingServiceName     = errors.New("observe: service name is required")
	ErrInvalidSamplePct       = errors.New("observe: sample pct must be within [0, 1]")
	ErrInvalidTracingExporter = errors.New("observe: unknown tracing exporter")
	ErrInvalidMetricsExporter = errors.New("observe: unknown metrics exporter")
	ErrInvalidLogLevel        = errors.New("observe: unknown log level")

	// ErrNilObserver is returned by NewTelemetry for a nil Observer.
	ErrNilObserver = errors.New("observe: observer is nil")
)

// Sampling bounds for TracingConfig.SamplePct.
const (
	MinSamplePct = 0.0
	MaxSamplePct = 1.0
)

// Accepted names. The empty string selects the default.
var (
	ValidTracingExporters = append(exporters.TracingNames(), "")
	ValidMetricsExporters = append(exporters.MetricsNames(), "")
	ValidLogLevels        = []string{"debug", "info", "warn", "error", ""}
)

// RedactedFields lists field keys that are automatically redacted in logs.
// Facet values and loader credentials must never reach log output.
var RedactedFields = []string{
	"value",
	"facet_value",
	"password",
	"secret",
	"token",
	"dsn",
	"credential",
}
