package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/teemow/meetscheduler/internal/instrumentation"
)

// ErrMissingToken is returned before any request when no access token is given.
var ErrMissingToken = errors.New("access token is required")

// Client creates and deletes events on a single calendar.
// It is safe for concurrent use.
type Client struct {
	calendarID string
	endpoint   string
	httpClient *http.Client
	metrics    *instrumentation.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithCalendarID selects the calendar events are written to.
func WithCalendarID(id string) Option {
	return func(c *Client) {
		if id != "" {
			c.calendarID = id
		}
	}
}

// WithEndpoint overrides the Calendar API base URL, e.g. for a proxy or a
// test server.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithHTTPClient sets the base HTTP client the bearer transport wraps.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithMetrics records every provider call as a Google API operation.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient returns a Client writing to the primary calendar by default.
func NewClient(opts ...Option) *Client {
	c := &Client{calendarID: DefaultCalendarID}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CalendarID returns the calendar this client writes to.
func (c *Client) CalendarID() string {
	return c.calendarID
}

// service builds a Calendar service authorised with accessToken only.
func (c *Client) service(ctx context.Context, accessToken string) (*calendar.Service, error) {
	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	})

	opts := []option.ClientOption{option.WithHTTPClient(oauth2.NewClient(ctx, ts))}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}

	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}
	return svc, nil
}

// Create inserts an event with a Meet conference request. The returned
// event's MeetingLink is empty when the provider did not attach a
// conference.
func (c *Client) Create(ctx context.Context, accessToken string, spec EventSpec) (_ *ProviderEvent, err error) {
	if accessToken == "" {
		return nil, ErrMissingToken
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceCalendar, instrumentation.OperationCreate)
	defer func() { instrumentation.EndSpan(span, err) }()
	start := time.Now()

	svc, err := c.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	created, err := svc.Events.Insert(c.calendarID, toEvent(spec)).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
	c.record(ctx, instrumentation.OperationCreate, err, time.Since(start))
	if err != nil {
		return nil, toProviderError(err)
	}
	span.SetAttributes(instrumentation.AttrEventID.String(created.Id))
	return toProviderEvent(created), nil
}

// Delete removes an event by id.
func (c *Client) Delete(ctx context.Context, accessToken, eventID string) (err error) {
	if accessToken == "" {
		return ErrMissingToken
	}
	if eventID == "" {
		return fmt.Errorf("event id is required")
	}

	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceCalendar, instrumentation.OperationDelete,
		instrumentation.AttrEventID.String(eventID))
	defer func() { instrumentation.EndSpan(span, err) }()
	start := time.Now()

	svc, err := c.service(ctx, accessToken)
	if err != nil {
		return err
	}

	err = svc.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
	c.record(ctx, instrumentation.OperationDelete, err, time.Since(start))
	if err != nil {
		return toProviderError(err)
	}
	return nil
}

func (c *Client) record(ctx context.Context, operation string, err error, d time.Duration) {
	if c.metrics == nil {
		return
	}
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceCalendar, operation, status, d)
}

// NewConferenceRequestID returns an id unique per create call.
func NewConferenceRequestID() string {
	return fmt.Sprintf("meet-%d-%s", time.Now().UnixMilli(), uuid.NewString())
}

func toEvent(spec EventSpec) *calendar.Event {
	requestID := spec.ConferenceRequestID
	if requestID == "" {
		requestID = NewConferenceRequestID()
	}

	event := &calendar.Event{
		Summary:     spec.Summary,
		Description: spec.Description,
		Start: &calendar.EventDateTime{
			DateTime: spec.Start.UTC().Format(time.RFC3339),
			TimeZone: spec.TimeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: spec.End.UTC().Format(time.RFC3339),
			TimeZone: spec.TimeZone,
		},
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId: requestID,
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{
					Type: ConferenceSolutionMeet,
				},
			},
		},
		Visibility:   spec.Visibility,
		Transparency: spec.Transparency,
	}

	if spec.DisableReminders {
		// UseDefault=false is the zero value and would otherwise be omitted.
		event.Reminders = &calendar.EventReminders{
			UseDefault:      false,
			ForceSendFields: []string{"UseDefault"},
		}
	}

	return event
}

func toProviderEvent(event *calendar.Event) *ProviderEvent {
	if event == nil {
		return &ProviderEvent{}
	}
	pe := &ProviderEvent{
		ID:          event.Id,
		MeetingLink: meetingLink(event),
		HTMLLink:    event.HtmlLink,
	}
	if event.ConferenceData != nil {
		pe.ConferenceID = event.ConferenceData.ConferenceId
	}
	return pe
}

// meetingLink prefers hangoutLink and falls back to the first video entry point.
func meetingLink(event *calendar.Event) string {
	if event.HangoutLink != "" {
		return event.HangoutLink
	}
	if event.ConferenceData == nil {
		return ""
	}
	for _, ep := range event.ConferenceData.EntryPoints {
		if ep != nil && ep.EntryPointType == "video" && ep.Uri != "" {
			return ep.Uri
		}
	}
	return ""
}

// errorBody is the Google JSON error envelope.
type errorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func toProviderError(err error) *ProviderError {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return &ProviderError{Message: unknownProviderMessage, Err: err}
	}

	perr := &ProviderError{
		Code:    gerr.Code,
		RawBody: gerr.Body,
		Message: gerr.Message,
		Err:     err,
	}
	if perr.Message == "" && gerr.Body != "" {
		var body errorBody
		if json.Unmarshal([]byte(gerr.Body), &body) == nil {
			perr.Message = body.Error.Message
		}
	}
	if perr.Message == "" {
		perr.Message = unknownProviderMessage
	}
	return perr
}
