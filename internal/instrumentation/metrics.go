package instrumentation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric label keys.
const (
	labelMethod    = attribute.Key("method")
	labelPath      = attribute.Key("path")
	labelStatus    = attribute.Key("status")
	labelOperation = attribute.Key("operation")
	labelService   = attribute.Key("service")
	labelResult    = attribute.Key("result")
	labelTool      = attribute.Key("tool")
	labelKind      = attribute.Key("kind")
	labelReason    = attribute.Key("reason")
)

var (
	fastBuckets = []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10}
	slowBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}
)

// Metrics records the service's counters and histograms. A nil *Metrics
// and a zero Metrics are both valid recorders that drop everything.
type Metrics struct {
	live bool

	httpRequestsTotal    metric.Int64Counter
	httpRequestDuration  metric.Float64Histogram
	httpRequestsInFlight metric.Int64UpDownCounter
	httpRateLimitedTotal metric.Int64Counter

	googleAPIOperationsTotal   metric.Int64Counter
	googleAPIOperationDuration metric.Float64Histogram

	meetingsCreatedTotal      metric.Int64Counter
	meetingDuration           metric.Float64Histogram
	compensationFailuresTotal metric.Int64Counter
	tokenRefreshTotal         metric.Int64Counter

	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	detailedLabels bool
}

// instruments creates instruments on one meter and keeps the first error
// per instrument so NewMetrics can report them all at once.
type instruments struct {
	meter metric.Meter
	errs  []error
}

func (in *instruments) counter(name, desc, unit string) metric.Int64Counter {
	c, err := in.meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	if err != nil {
		in.errs = append(in.errs, fmt.Errorf("%s: %w", name, err))
	}
	return c
}

func (in *instruments) upDown(name, desc, unit string) metric.Int64UpDownCounter {
	c, err := in.meter.Int64UpDownCounter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	if err != nil {
		in.errs = append(in.errs, fmt.Errorf("%s: %w", name, err))
	}
	return c
}

func (in *instruments) seconds(name, desc string, buckets []float64) metric.Float64Histogram {
	h, err := in.meter.Float64Histogram(name,
		metric.WithDescription(desc),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(buckets...),
	)
	if err != nil {
		in.errs = append(in.errs, fmt.Errorf("%s: %w", name, err))
	}
	return h
}

// NewMetrics registers every instrument on meter. detailedLabels adds
// failure reasons and raw HTTP paths as labels.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	in := &instruments{meter: meter}
	m := &Metrics{
		live:           true,
		detailedLabels: detailedLabels,

		httpRequestsTotal:    in.counter("http_requests_total", "Total number of HTTP requests", "{request}"),
		httpRequestDuration:  in.seconds("http_request_duration_seconds", "HTTP request duration in seconds", fastBuckets),
		httpRequestsInFlight: in.upDown("http_requests_in_flight", "Number of HTTP requests currently being served", "{request}"),
		httpRateLimitedTotal: in.counter("http_rate_limited_total", "HTTP requests rejected by the rate limiter", "{request}"),

		googleAPIOperationsTotal:   in.counter("google_api_operations_total", "Total number of Google API operations", "{operation}"),
		googleAPIOperationDuration: in.seconds("google_api_operation_duration_seconds", "Google API operation duration in seconds", slowBuckets),

		meetingsCreatedTotal:      in.counter("meetings_created_total", "Meeting creation attempts by kind and status", "{meeting}"),
		meetingDuration:           in.seconds("meeting_creation_duration_seconds", "End-to-end meeting creation duration in seconds", slowBuckets),
		compensationFailuresTotal: in.counter("meeting_compensation_failures_total", "Instant meeting placeholder events that could not be deleted", "{event}"),
		tokenRefreshTotal:         in.counter("oauth_token_refresh_total", "OAuth token refresh attempts", "{attempt}"),

		toolInvocationsTotal: in.counter("mcp_tool_invocations_total", "Total number of MCP tool invocations", "{invocation}"),
		toolDuration:         in.seconds("mcp_tool_duration_seconds", "MCP tool execution duration in seconds", slowBuckets),
	}
	if err := errors.Join(in.errs...); err != nil {
		return nil, fmt.Errorf("failed to create instruments: %w", err)
	}
	return m, nil
}

func (m *Metrics) off() bool {
	return m == nil || !m.live
}

// RecordHTTPRequest counts and times one served request. Unknown paths
// collapse to "other" unless detailed labels are on.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.off() {
		return
	}
	if !m.detailedLabels {
		path = NormalizeRoute(path)
	}
	attrs := metric.WithAttributes(
		labelMethod.String(method),
		labelPath.String(path),
		labelStatus.String(strconv.Itoa(statusCode)),
	)
	m.httpRequestsTotal.Add(ctx, 1, attrs)
	m.httpRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

func (m *Metrics) IncrementInFlight(ctx context.Context) {
	if m.off() {
		return
	}
	m.httpRequestsInFlight.Add(ctx, 1)
}

func (m *Metrics) DecrementInFlight(ctx context.Context) {
	if m.off() {
		return
	}
	m.httpRequestsInFlight.Add(ctx, -1)
}

func (m *Metrics) RecordRateLimited(ctx context.Context, path string) {
	if m.off() {
		return
	}
	m.httpRateLimitedTotal.Add(ctx, 1, metric.WithAttributes(labelPath.String(NormalizeRoute(path))))
}

// RecordGoogleAPIOperation records one provider call, e.g. calendar/create.
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m.off() {
		return
	}
	attrs := metric.WithAttributes(
		labelService.String(service),
		labelOperation.String(operation),
		labelStatus.String(status),
	)
	m.googleAPIOperationsTotal.Add(ctx, 1, attrs)
	m.googleAPIOperationDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordMeeting records one creation attempt. reason (e.g. "invalid_input")
// is only attached to the counter, and only with detailed labels.
func (m *Metrics) RecordMeeting(ctx context.Context, kind, status, reason string, duration time.Duration) {
	if m.off() {
		return
	}
	base := []attribute.KeyValue{labelKind.String(kind), labelStatus.String(status)}
	counted := base
	if m.detailedLabels && reason != "" {
		counted = append(counted[:len(counted):len(counted)], labelReason.String(reason))
	}
	m.meetingsCreatedTotal.Add(ctx, 1, metric.WithAttributes(counted...))
	m.meetingDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(base...))
}

func (m *Metrics) RecordCompensationFailure(ctx context.Context, kind string) {
	if m.off() {
		return
	}
	m.compensationFailuresTotal.Add(ctx, 1, metric.WithAttributes(labelKind.String(kind)))
}

// RecordTokenRefresh counts a refresh with result success, failure or expired.
func (m *Metrics) RecordTokenRefresh(ctx context.Context, result string) {
	if m.off() {
		return
	}
	m.tokenRefreshTotal.Add(ctx, 1, metric.WithAttributes(labelResult.String(result)))
}

func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m.off() {
		return
	}
	attrs := metric.WithAttributes(labelTool.String(toolName), labelStatus.String(status))
	m.toolInvocationsTotal.Add(ctx, 1, attrs)
	m.toolDuration.Record(ctx, duration.Seconds(), attrs)
}
