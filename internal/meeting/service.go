package meeting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/teemow/meetscheduler/internal/calendar"
	"github.com/teemow/meetscheduler/internal/instrumentation"
	"github.com/teemow/meetscheduler/internal/logging"
	"github.com/teemow/meetscheduler/internal/timeslot"
)

// EventClient creates and deletes calendar events with the caller's token.
// *calendar.Client implements it.
type EventClient interface {
	Create(ctx context.Context, accessToken string, spec calendar.EventSpec) (*calendar.ProviderEvent, error)
	Delete(ctx context.Context, accessToken, eventID string) error
}

// Recorder receives meeting metrics. *instrumentation.Metrics implements it.
type Recorder interface {
	RecordMeeting(ctx context.Context, kind, status, reason string, duration time.Duration)
	RecordCompensationFailure(ctx context.Context, kind string)
}

// Service orchestrates meeting creation. It is safe for concurrent use.
type Service struct {
	client   EventClient
	config   Config
	location *time.Location

	now      func() time.Time
	logger   logging.Logger
	recorder Recorder
	audit    *instrumentation.AuditLogger
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLogger sets the logger used for compensation failures and outcomes.
func WithLogger(logger logging.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// WithAuditLogger writes one audit record per operation.
func WithAuditLogger(al *instrumentation.AuditLogger) Option {
	return func(s *Service) {
		s.audit = al
	}
}

// NewService returns a Service creating events through client.
func NewService(client EventClient, config Config, opts ...Option) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("event client cannot be nil")
	}
	config, loc, err := config.withDefaults()
	if err != nil {
		return nil, err
	}

	s := &Service{
		client:   client,
		config:   config,
		location: loc,
		now:      time.Now,
		logger:   logging.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Location returns the configured time zone.
func (s *Service) Location() *time.Location {
	return s.location
}

// Now returns the current time in the configured time zone.
func (s *Service) Now() time.Time {
	return s.now().In(s.location)
}

// CreateInstant creates a meeting starting now. The placeholder event is
// deleted once the conference link is known; a failed delete is logged
// and counted but does not fail the call.
func (s *Service) CreateInstant(ctx context.Context, accessToken string) (*Meeting, error) {
	ctx, span := instrumentation.StartMeetingSpan(ctx, KindInstant)
	defer span.End()
	audit := instrumentation.NewMeetingAudit(ctx, KindInstant)

	m, err := s.createInstant(ctx, accessToken)
	s.finish(ctx, span, audit, KindInstant, m, err)
	return m, err
}

func (s *Service) createInstant(ctx context.Context, accessToken string) (*Meeting, error) {
	if accessToken == "" {
		return nil, ErrUnauthorized
	}

	start := s.now()
	end := start.Add(s.config.Duration)

	created, err := s.client.Create(ctx, accessToken, calendar.EventSpec{
		Summary:             InstantSummary,
		Description:         InstantDescription,
		Start:               start,
		End:                 end,
		TimeZone:            s.config.TimeZone,
		ConferenceRequestID: calendar.NewConferenceRequestID(),
		Visibility:          calendar.VisibilityPrivate,
		Transparency:        calendar.TransparencyTransparent,
		DisableReminders:    true,
	})
	if err != nil {
		return nil, providerFailure(err)
	}

	s.compensate(ctx, accessToken, created.ID)

	if created.MeetingLink == "" {
		return nil, missingLink(created.ID)
	}
	return newMeeting(created, start, end), nil
}

// compensate deletes the placeholder event of an instant meeting. It runs
// detached from caller cancellation so the event is not left behind when
// the caller goes away after create succeeded.
func (s *Service) compensate(ctx context.Context, accessToken, eventID string) {
	ctx = context.WithoutCancel(ctx)

	if err := s.client.Delete(ctx, accessToken, eventID); err != nil {
		s.logger.Warn("failed to delete instant meeting placeholder event",
			logging.EventID(eventID),
			logging.MeetingKind(KindInstant),
			logging.Err(err))
		if s.recorder != nil {
			s.recorder.RecordCompensationFailure(ctx, KindInstant)
		}
		return
	}
	s.logger.Debug("deleted instant meeting placeholder event", logging.EventID(eventID))
}

// CreateScheduled creates a meeting at req.DateTime, which must lie
// strictly in the future.
func (s *Service) CreateScheduled(ctx context.Context, accessToken string, req ScheduleRequest) (*Meeting, error) {
	ctx, span := instrumentation.StartMeetingSpan(ctx, KindScheduled)
	defer span.End()
	audit := instrumentation.NewMeetingAudit(ctx, KindScheduled)

	m, err := s.createScheduled(ctx, accessToken, req)
	s.finish(ctx, span, audit, KindScheduled, m, err)
	return m, err
}

func (s *Service) createScheduled(ctx context.Context, accessToken string, req ScheduleRequest) (*Meeting, error) {
	if accessToken == "" {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(req.DateTime) == "" {
		return nil, ErrMissingFields
	}

	start, err := timeslot.ParseAny(req.DateTime, s.location)
	if err != nil {
		return nil, invalidInput(ErrInvalidDate, err)
	}
	if !start.After(s.now()) {
		return nil, ErrDateNotInFuture
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = DefaultScheduledSummary
	}
	end := start.Add(s.config.Duration)

	created, err := s.client.Create(ctx, accessToken, calendar.EventSpec{
		Summary:             title,
		Description:         ScheduledDescription,
		Start:               start,
		End:                 end,
		TimeZone:            s.config.TimeZone,
		ConferenceRequestID: calendar.NewConferenceRequestID(),
	})
	if err != nil {
		return nil, providerFailure(err)
	}
	if created.MeetingLink == "" {
		return nil, missingLink(created.ID)
	}
	return newMeeting(created, start, end), nil
}

func newMeeting(created *calendar.ProviderEvent, start, end time.Time) *Meeting {
	return &Meeting{
		MeetingLink: created.MeetingLink,
		MeetingID:   created.ID,
		StartTime:   start.UTC(),
		EndTime:     end.UTC(),
	}
}

// finish records the outcome of one operation in metrics, audit and span.
func (s *Service) finish(ctx context.Context, span trace.Span, audit *instrumentation.MeetingAudit, kind string, m *Meeting, err error) {
	if err != nil {
		k := KindOf(err)
		reason := k.metricReason()
		instrumentation.SetSpanError(span, err)
		audit.CompleteWithError(reason, err)
		if s.recorder != nil {
			s.recorder.RecordMeeting(ctx, kind, instrumentation.StatusError, reason, audit.Duration)
		}
		if k == KindProviderFailure {
			s.logger.Error("meeting creation failed", logging.MeetingKind(kind), logging.Err(err))
		} else {
			s.logger.Debug("meeting request rejected", logging.MeetingKind(kind), logging.Err(err))
		}
		s.audit.LogMeeting(audit)
		return
	}

	instrumentation.SetSpanSuccess(span)
	audit.WithEvent(m.MeetingID, m.MeetingLink, m.StartTime).CompleteSuccess()
	if s.recorder != nil {
		s.recorder.RecordMeeting(ctx, kind, instrumentation.StatusSuccess, "", audit.Duration)
	}
	s.logger.Info("meeting created",
		logging.MeetingKind(kind),
		logging.EventID(m.MeetingID),
		logging.Status(logging.StatusSuccess))
	s.audit.LogMeeting(audit)
}
