// Package instrumentation provides OpenTelemetry instrumentation for the
// meetscheduler service.
//
// This package enables production-grade observability through:
//   - OpenTelemetry metrics for HTTP requests, meeting creation and Google API calls
//   - Distributed tracing for request flows and API calls
//   - Prometheus metrics export via /metrics endpoint on dedicated port
//   - OTLP export support for modern observability platforms
//
// # Metrics
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//   - http_requests_in_flight: Gauge of requests being served
//   - http_rate_limited_total: Counter of requests rejected by the rate limiter
//
// Google API Metrics:
//   - google_api_operations_total: Counter of Calendar operations by operation and status
//   - google_api_operation_duration_seconds: Histogram of Calendar operation durations
//
// Meeting Metrics:
//   - meetings_created_total: Counter of creation attempts by kind and status
//   - meeting_creation_duration_seconds: Histogram of end-to-end creation time
//   - meeting_compensation_failures_total: Counter of placeholder events left behind
//   - oauth_token_refresh_total: Counter of token refresh attempts by result
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// # Tracing
//
// Spans are created for:
//   - HTTP request handling (http.<route>)
//   - Meeting orchestration (meeting.instant, meeting.scheduled)
//   - MCP tool invocations (tool.<name>)
//   - Google API calls (google.calendar.create, google.calendar.delete)
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - METRICS_EXPORT_INTERVAL: Push interval for otlp/stdout (default: 10s)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: meetscheduler)
//   - OTEL_RESOURCE_ATTRIBUTES: extra resource attributes (k8s.pod.name=..., ...)
//   - AUDIT_LOGGING_ENABLED, AUDIT_LOGGING_INCLUDE_LINKS: audit trail settings
//
// Malformed values are an error from LoadConfig rather than a silent default.
//
// # Example Usage
//
//	config, err := instrumentation.LoadConfig()
//	if err != nil {
//		return err
//	}
//	provider, err := instrumentation.NewProvider(ctx, config)
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordMeeting(ctx, instrumentation.MeetingKindInstant, instrumentation.StatusSuccess, "", time.Since(start))
package instrumentation
