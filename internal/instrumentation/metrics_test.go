package instrumentation

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T, detailed bool) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp.Meter("test"), detailed)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader
}

// counterPoints returns the data points of the named int64 counter.
func counterPoints(t *testing.T, reader *sdkmetric.ManualReader, name string) []metricdata.DataPoint[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				return data.DataPoints
			default:
				t.Fatalf("metric %s has unexpected type %T", name, m.Data)
			}
		}
	}
	return nil
}

func attrValue(set attribute.Set, key attribute.Key) string {
	v, ok := set.Value(key)
	if !ok {
		return ""
	}
	return v.AsString()
}

func TestMetrics_RecordMeeting(t *testing.T) {
	ctx := context.Background()
	m, reader := newTestMetrics(t, false)

	m.RecordMeeting(ctx, MeetingKindInstant, StatusSuccess, "", 200*time.Millisecond)
	m.RecordMeeting(ctx, MeetingKindInstant, StatusSuccess, "", 100*time.Millisecond)
	m.RecordMeeting(ctx, MeetingKindScheduled, StatusError, ReasonInvalidInput, time.Millisecond)

	points := counterPoints(t, reader, "meetings_created_total")
	if len(points) != 2 {
		t.Fatalf("expected 2 series, got %d", len(points))
	}
	for _, p := range points {
		if attrValue(p.Attributes, labelReason) != "" {
			t.Error("reason label must not be recorded without detailed labels")
		}
		switch attrValue(p.Attributes, labelKind) {
		case MeetingKindInstant:
			if p.Value != 2 {
				t.Errorf("instant count = %d, want 2", p.Value)
			}
		case MeetingKindScheduled:
			if p.Value != 1 || attrValue(p.Attributes, labelStatus) != StatusError {
				t.Errorf("unexpected scheduled point %+v", p)
			}
		}
	}
}

func TestMetrics_RecordMeeting_DetailedLabels(t *testing.T) {
	m, reader := newTestMetrics(t, true)

	m.RecordMeeting(context.Background(), MeetingKindScheduled, StatusError, ReasonProviderFailure, time.Millisecond)

	points := counterPoints(t, reader, "meetings_created_total")
	if len(points) != 1 {
		t.Fatalf("expected 1 series, got %d", len(points))
	}
	if got := attrValue(points[0].Attributes, labelReason); got != ReasonProviderFailure {
		t.Errorf("reason = %q, want %q", got, ReasonProviderFailure)
	}
}

func TestMetrics_RecordCompensationFailure(t *testing.T) {
	m, reader := newTestMetrics(t, false)

	m.RecordCompensationFailure(context.Background(), MeetingKindInstant)

	points := counterPoints(t, reader, "meeting_compensation_failures_total")
	if len(points) != 1 || points[0].Value != 1 {
		t.Fatalf("unexpected points %+v", points)
	}
}

func TestMetrics_RecordHTTPRequest_NormalizesPath(t *testing.T) {
	m, reader := newTestMetrics(t, false)

	m.RecordHTTPRequest(context.Background(), "GET", "/api/time-slots", 200, time.Millisecond)
	m.RecordHTTPRequest(context.Background(), "GET", "/random/probe", 404, time.Millisecond)

	points := counterPoints(t, reader, "http_requests_total")
	paths := map[string]bool{}
	for _, p := range points {
		paths[attrValue(p.Attributes, labelPath)] = true
	}
	if !paths["/api/time-slots"] || !paths[RouteOther] || paths["/random/probe"] {
		t.Errorf("unexpected path labels %v", paths)
	}
}

func TestMetrics_RecordGoogleAPIOperation(t *testing.T) {
	m, reader := newTestMetrics(t, false)

	m.RecordGoogleAPIOperation(context.Background(), ServiceCalendar, OperationCreate, StatusSuccess, time.Second)
	m.RecordGoogleAPIOperation(context.Background(), ServiceCalendar, OperationDelete, StatusError, time.Second)

	points := counterPoints(t, reader, "google_api_operations_total")
	if len(points) != 2 {
		t.Fatalf("expected 2 series, got %d", len(points))
	}
}

func TestMetrics_OtherRecorders(t *testing.T) {
	ctx := context.Background()
	m, reader := newTestMetrics(t, false)

	m.IncrementInFlight(ctx)
	m.DecrementInFlight(ctx)
	m.RecordRateLimited(ctx, "/api/instant-meeting")
	m.RecordTokenRefresh(ctx, TokenResultSuccess)
	m.RecordToolInvocation(ctx, "meeting_time_slots", StatusSuccess, time.Millisecond)

	if points := counterPoints(t, reader, "http_rate_limited_total"); len(points) != 1 {
		t.Errorf("expected rate limited series, got %d", len(points))
	}
	if points := counterPoints(t, reader, "mcp_tool_invocations_total"); len(points) != 1 {
		t.Errorf("expected tool series, got %d", len(points))
	}
}

func TestMetrics_NilAndZeroAreNoOps(t *testing.T) {
	ctx := context.Background()

	for _, m := range []*Metrics{nil, {}} {
		// None of these may panic.
		m.RecordHTTPRequest(ctx, "GET", "/healthz", 200, time.Millisecond)
		m.IncrementInFlight(ctx)
		m.DecrementInFlight(ctx)
		m.RecordRateLimited(ctx, "/api/time-slots")
		m.RecordGoogleAPIOperation(ctx, ServiceCalendar, OperationCreate, StatusSuccess, time.Millisecond)
		m.RecordMeeting(ctx, MeetingKindInstant, StatusSuccess, "", time.Millisecond)
		m.RecordCompensationFailure(ctx, MeetingKindInstant)
		m.RecordTokenRefresh(ctx, TokenResultFailure)
		m.RecordToolInvocation(ctx, "meeting_schedule", StatusError, time.Millisecond)
	}
}
