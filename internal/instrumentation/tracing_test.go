package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func TestSpanNames(t *testing.T) {
	recorder := withRecorder(t)
	ctx := context.Background()

	_, span := StartGoogleAPISpan(ctx, ServiceCalendar, OperationCreate)
	span.End()
	_, span = StartMeetingSpan(ctx, MeetingKindInstant)
	span.End()
	_, span = StartHTTPSpan(ctx, "/api/time-slots", "req-1")
	span.End()
	_, span = StartToolSpan(ctx, "meeting_schedule")
	span.End()
	_, span = StartSpan(ctx, "custom")
	span.End()

	want := []string{
		"google.calendar.create",
		"meeting.instant",
		"http./api/time-slots",
		"tool.meeting_schedule",
		"custom",
	}
	ended := recorder.Ended()
	if len(ended) != len(want) {
		t.Fatalf("expected %d spans, got %d", len(want), len(ended))
	}
	for i, s := range ended {
		if s.Name() != want[i] {
			t.Errorf("span %d name = %q, want %q", i, s.Name(), want[i])
		}
	}
}

func TestSetSpanStatus(t *testing.T) {
	recorder := withRecorder(t)

	_, span := StartSpan(context.Background(), "failing")
	SetSpanError(span, errors.New("boom"))
	span.End()

	_, span = StartSpan(context.Background(), "ok")
	SetSpanError(span, nil)
	SetSpanSuccess(span)
	AddSpanEvent(span, "done")
	span.End()

	ended := recorder.Ended()
	if ended[0].Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", ended[0].Status())
	}
	if ended[1].Status().Code != codes.Ok {
		t.Errorf("expected ok status, got %v", ended[1].Status())
	}
	if len(ended[1].Events()) != 1 {
		t.Errorf("expected one event, got %d", len(ended[1].Events()))
	}
}

func TestEndSpan(t *testing.T) {
	recorder := withRecorder(t)

	_, span := StartSpan(context.Background(), "failed")
	EndSpan(span, errors.New("boom"))
	_, span = StartSpan(context.Background(), "succeeded")
	EndSpan(span, nil)

	ended := recorder.Ended()
	if len(ended) != 2 {
		t.Fatalf("expected 2 ended spans, got %d", len(ended))
	}
	if ended[0].Status().Code != codes.Error || ended[1].Status().Code != codes.Ok {
		t.Errorf("unexpected statuses %v, %v", ended[0].Status(), ended[1].Status())
	}
}

func TestSpanIDs(t *testing.T) {
	if traceID, spanID := SpanIDs(context.Background()); traceID != "" || spanID != "" {
		t.Error("expected empty ids without a span")
	}

	withRecorder(t)
	ctx, span := StartSpan(context.Background(), "with-ids")
	defer span.End()

	traceID, spanID := SpanIDs(ctx)
	if len(traceID) != 32 || len(spanID) != 16 {
		t.Errorf("expected hex ids inside a recorded span, got %q/%q", traceID, spanID)
	}
}
