package instrumentation

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"
)

// Exporter names accepted by Config.
const (
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)

// DefaultMetricInterval is how often push exporters (otlp, stdout) export.
const DefaultMetricInterval = 10 * time.Second

var (
	metricsExporters = []string{ExporterPrometheus, ExporterOTLP, ExporterStdout}
	tracingExporters = []string{ExporterOTLP, ExporterStdout, ExporterNone}
)

// Config selects exporters and label policy for a Provider.
//
// Resource attributes beyond service name and version (instance id,
// namespace, pod) come from OTEL_RESOURCE_ATTRIBUTES.
type Config struct {
	ServiceName    string
	ServiceVersion string

	// Enabled turns metrics and tracing on. A disabled Provider hands out
	// a Metrics value whose methods do nothing.
	Enabled bool

	// MetricsExporter is one of prometheus, otlp or stdout.
	MetricsExporter string
	// MetricInterval applies to otlp and stdout; prometheus is scraped.
	MetricInterval time.Duration

	// TracingExporter is one of otlp, stdout or none.
	TracingExporter string
	// TraceSamplingRate is the parent-based ratio in [0, 1].
	TraceSamplingRate float64

	// OTLPEndpoint is host:port without scheme. TLS is used unless
	// OTLPInsecure is set.
	OTLPEndpoint string
	OTLPInsecure bool

	// DetailedLabels adds the failure reason to meeting metrics and keeps
	// unknown HTTP paths instead of collapsing them to "other".
	DetailedLabels bool

	AuditLogging AuditLoggingConfig
}

// AuditLoggingConfig holds configuration for the meeting audit trail.
type AuditLoggingConfig struct {
	Enabled bool

	// IncludeLinks adds the Meet join link to audit records. Join links
	// grant access to the meeting.
	IncludeLinks bool
}

// LoadConfig reads the instrumentation settings from the process environment.
func LoadConfig() (Config, error) {
	return ConfigFromEnv(os.LookupEnv)
}

// ConfigFromEnv builds a Config from lookup. Unset or empty variables take
// their defaults; malformed values are reported together.
//
//	INSTRUMENTATION_ENABLED       true
//	METRICS_EXPORTER              prometheus
//	METRICS_EXPORT_INTERVAL       10s
//	METRICS_DETAILED_LABELS       false
//	TRACING_EXPORTER              none
//	OTEL_SERVICE_NAME             meetscheduler
//	OTEL_EXPORTER_OTLP_ENDPOINT
//	OTEL_EXPORTER_OTLP_INSECURE   false
//	OTEL_TRACES_SAMPLER_ARG       0.1
//	AUDIT_LOGGING_ENABLED         true
//	AUDIT_LOGGING_INCLUDE_LINKS   false
func ConfigFromEnv(lookup func(string) (string, bool)) (Config, error) {
	env := envReader{lookup: lookup}

	config := Config{
		ServiceName:       env.str("OTEL_SERVICE_NAME", "meetscheduler"),
		ServiceVersion:    "unknown",
		Enabled:           env.boolean("INSTRUMENTATION_ENABLED", true),
		MetricsExporter:   env.str("METRICS_EXPORTER", ExporterPrometheus),
		MetricInterval:    env.duration("METRICS_EXPORT_INTERVAL", DefaultMetricInterval),
		TracingExporter:   env.str("TRACING_EXPORTER", ExporterNone),
		TraceSamplingRate: env.float("OTEL_TRACES_SAMPLER_ARG", 0.1),
		OTLPEndpoint:      env.str("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure:      env.boolean("OTEL_EXPORTER_OTLP_INSECURE", false),
		DetailedLabels:    env.boolean("METRICS_DETAILED_LABELS", false),
		AuditLogging: AuditLoggingConfig{
			Enabled:      env.boolean("AUDIT_LOGGING_ENABLED", true),
			IncludeLinks: env.boolean("AUDIT_LOGGING_INCLUDE_LINKS", false),
		},
	}
	if err := errors.Join(env.errs...); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks exporter names, the sampling rate and OTLP requirements.
// Empty exporter names are allowed and mean the zero-value defaults.
func (c *Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %f", c.TraceSamplingRate)
	}
	if c.MetricsExporter != "" && !slices.Contains(metricsExporters, c.MetricsExporter) {
		return fmt.Errorf("invalid metrics exporter %q, must be one of: %v", c.MetricsExporter, metricsExporters)
	}
	if c.TracingExporter != "" && !slices.Contains(tracingExporters, c.TracingExporter) {
		return fmt.Errorf("invalid tracing exporter %q, must be one of: %v", c.TracingExporter, tracingExporters)
	}
	if c.OTLPEndpoint == "" && (c.MetricsExporter == ExporterOTLP || c.TracingExporter == ExporterOTLP) {
		return errors.New("OTLP endpoint is required when an otlp exporter is selected; set OTEL_EXPORTER_OTLP_ENDPOINT")
	}
	if c.MetricInterval < 0 {
		return fmt.Errorf("metric interval must not be negative, got %s", c.MetricInterval)
	}
	return nil
}

func (c *Config) metricInterval() time.Duration {
	if c.MetricInterval <= 0 {
		return DefaultMetricInterval
	}
	return c.MetricInterval
}

// envReader collects parse errors so a misconfigured environment is
// reported in one pass instead of silently falling back to defaults.
type envReader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (e *envReader) raw(key string) (string, bool) {
	v, ok := e.lookup(key)
	return v, ok && v != ""
}

func (e *envReader) str(key, def string) string {
	if v, ok := e.raw(key); ok {
		return v
	}
	return def
}

func (e *envReader) boolean(key string, def bool) bool {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return b
}

func (e *envReader) float(key string, def float64) float64 {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return f
}

func (e *envReader) duration(key string, def time.Duration) time.Duration {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

// Metric label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusUnknown = "unknown"

	TokenResultSuccess = "success"
	TokenResultFailure = "failure"
	TokenResultExpired = "expired"

	ServiceCalendar = "calendar"

	MeetingKindInstant   = "instant"
	MeetingKindScheduled = "scheduled"
)
