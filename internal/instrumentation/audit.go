package instrumentation

import (
	"context"
	"log/slog"
	"time"
)

// MeetingAudit captures one meeting creation attempt for the audit trail.
//
// The join link grants access to the meeting. It is only written when the
// AuditLogger is configured with IncludeLinks.
type MeetingAudit struct {
	Kind      string // instant or scheduled
	Transport string // http, mcp or cli
	RequestID string

	EventID     string
	MeetingLink string
	MeetingAt   time.Time

	// Execution details
	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Reason    string
	Error     string

	// Tracing context
	TraceID string
	SpanID  string
}

// NewMeetingAudit starts timing a meeting creation attempt and copies the
// request id, transport and span context found in ctx.
func NewMeetingAudit(ctx context.Context, kind string) *MeetingAudit {
	ma := &MeetingAudit{
		Kind:      kind,
		Transport: TransportFromContext(ctx),
		RequestID: RequestIDFromContext(ctx),
		StartTime: time.Now(),
	}
	return ma.WithSpanContext(ctx)
}

// Status returns "success" or "error" based on the Success field.
func (ma *MeetingAudit) Status() string {
	if ma.Success {
		return StatusSuccess
	}
	return StatusError
}

// WithSpanContext extracts trace context from the current span.
func (ma *MeetingAudit) WithSpanContext(ctx context.Context) *MeetingAudit {
	ma.TraceID, ma.SpanID = SpanIDs(ctx)
	return ma
}

// WithEvent records the created event.
func (ma *MeetingAudit) WithEvent(eventID, link string, at time.Time) *MeetingAudit {
	ma.EventID = eventID
	ma.MeetingLink = link
	ma.MeetingAt = at
	return ma
}

// CompleteSuccess marks the attempt as successful.
func (ma *MeetingAudit) CompleteSuccess() *MeetingAudit {
	ma.Duration = time.Since(ma.StartTime)
	ma.Success = true
	return ma
}

// CompleteWithError marks the attempt as failed with a classified reason.
func (ma *MeetingAudit) CompleteWithError(reason string, err error) *MeetingAudit {
	ma.Duration = time.Since(ma.StartTime)
	ma.Success = false
	ma.Reason = reason
	if err != nil {
		ma.Error = err.Error()
	}
	return ma
}

// LogAttrs returns slog attributes for the record. The meeting link is
// only included when includeLink is set.
func (ma *MeetingAudit) LogAttrs(includeLink bool) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("kind", ma.Kind),
		slog.Duration("duration", ma.Duration),
		slog.Bool("success", ma.Success),
	}

	if ma.Transport != "" {
		attrs = append(attrs, slog.String("transport", ma.Transport))
	}
	if ma.RequestID != "" {
		attrs = append(attrs, slog.String("request_id", ma.RequestID))
	}
	if ma.EventID != "" {
		attrs = append(attrs, slog.String("event_id", ma.EventID))
	}
	if !ma.MeetingAt.IsZero() {
		attrs = append(attrs, slog.Time("meeting_at", ma.MeetingAt))
	}
	if includeLink && ma.MeetingLink != "" {
		attrs = append(attrs, slog.String("meeting_link", ma.MeetingLink))
	}
	if ma.Reason != "" {
		attrs = append(attrs, slog.String("reason", ma.Reason))
	}
	if ma.Error != "" {
		attrs = append(attrs, slog.String("error", ma.Error))
	}
	if ma.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ma.TraceID))
	}
	if ma.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", ma.SpanID))
	}

	return attrs
}

// AuditLogger writes meeting audit records. A nil *AuditLogger discards
// everything.
type AuditLogger struct {
	logger       *slog.Logger
	includeLinks bool
	enabled      bool
}

// NewAuditLogger creates an enabled AuditLogger that omits join links.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: true})
}

// NewAuditLoggerWithConfig creates a new AuditLogger with the given configuration.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:       logger.With(slog.String("component", "audit")),
		includeLinks: config.IncludeLinks,
		enabled:      config.Enabled,
	}
}

// LogMeeting writes ma at info level on success and warn level on failure.
func (al *AuditLogger) LogMeeting(ma *MeetingAudit) {
	if al == nil || !al.enabled || ma == nil {
		return
	}

	attrs := ma.LogAttrs(al.includeLinks)
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	if ma.Success {
		al.logger.Info("meeting_created", args...)
	} else {
		al.logger.Warn("meeting_failed", args...)
	}
}
