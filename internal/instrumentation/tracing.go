package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of every span this module starts.
const TracerName = "github.com/teemow/meetscheduler"

// Span attribute keys.
const (
	AttrTool        = attribute.Key("mcp.tool")
	AttrService     = attribute.Key("google.service")
	AttrOperation   = attribute.Key("google.operation")
	AttrMeetingKind = attribute.Key("meeting.kind")
	AttrEventID     = attribute.Key("meeting.event_id")
	AttrRoute       = attribute.Key("http.route")
	AttrRequestID   = attribute.Key("http.request_id")
)

// start resolves the tracer on every call so spans follow whatever
// provider is currently installed globally (tests swap it).
func start(ctx context.Context, name string, kind trace.SpanKind, attrs []attribute.KeyValue) (context.Context, trace.Span) {
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx, name,
		trace.WithSpanKind(kind),
		trace.WithAttributes(attrs...),
	)
}

// StartSpan starts an internal span. Callers must End it.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return start(ctx, name, trace.SpanKindInternal, attrs)
}

// StartToolSpan starts tool.<name> for an MCP tool call.
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return start(ctx, "tool."+toolName, trace.SpanKindServer,
		append([]attribute.KeyValue{AttrTool.String(toolName)}, attrs...))
}

// StartGoogleAPISpan starts google.<service>.<operation> around a provider call.
func StartGoogleAPISpan(ctx context.Context, service, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return start(ctx, "google."+service+"."+operation, trace.SpanKindClient,
		append([]attribute.KeyValue{AttrService.String(service), AttrOperation.String(operation)}, attrs...))
}

// StartMeetingSpan starts meeting.<kind> around one orchestration.
func StartMeetingSpan(ctx context.Context, kind string) (context.Context, trace.Span) {
	return start(ctx, "meeting."+kind, trace.SpanKindInternal,
		[]attribute.KeyValue{AttrMeetingKind.String(kind)})
}

// StartHTTPSpan starts http.<route>. route must already be normalized.
func StartHTTPSpan(ctx context.Context, route, requestID string) (context.Context, trace.Span) {
	return start(ctx, "http."+route, trace.SpanKindServer,
		[]attribute.KeyValue{AttrRoute.String(route), AttrRequestID.String(requestID)})
}

// SetSpanError marks span failed. A nil err is ignored.
func SetSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// EndSpan sets the status from err and ends span.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		SetSpanError(span, err)
	} else {
		SetSpanSuccess(span)
	}
	span.End()
}

func AddSpanEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// SpanIDs returns the hex trace and span ids of the span in ctx, or two
// empty strings when ctx carries no valid span.
func SpanIDs(ctx context.Context) (traceID, spanID string) {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return "", ""
	}
	return sc.TraceID().String(), sc.SpanID().String()
}
