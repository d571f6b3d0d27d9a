package calendar

import (
	"fmt"
	"time"
)

const (
	// DefaultCalendarID addresses the authenticated user's own calendar.
	DefaultCalendarID = "primary"

	// ConferenceSolutionMeet is the conference solution key for Google Meet.
	ConferenceSolutionMeet = "hangoutsMeet"

	VisibilityPrivate       = "private"
	TransparencyTransparent = "transparent"
)

// EventSpec describes the event to create.
type EventSpec struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time

	// TimeZone is the IANA zone name sent alongside start and end.
	TimeZone string

	// ConferenceRequestID must be unique per create. A fresh id is
	// generated when empty.
	ConferenceRequestID string

	Visibility   string
	Transparency string

	// DisableReminders sends reminders.useDefault=false without overrides.
	DisableReminders bool
}

// Validate checks the fields the provider rejects outright.
func (s EventSpec) Validate() error {
	if s.Start.IsZero() || s.End.IsZero() {
		return fmt.Errorf("event start and end are required")
	}
	if !s.End.After(s.Start) {
		return fmt.Errorf("event end %s must be after start %s", s.End.Format(time.RFC3339), s.Start.Format(time.RFC3339))
	}
	return nil
}

// ProviderEvent is the subset of a created event that callers need.
type ProviderEvent struct {
	ID           string
	MeetingLink  string
	HTMLLink     string
	ConferenceID string
}

// unknownProviderMessage is used when the provider response carries no
// readable message.
const unknownProviderMessage = "Unknown error"

// ProviderError is a non-successful response from the calendar provider.
type ProviderError struct {
	// Code is the HTTP status, zero when no response was received.
	Code int
	// RawBody is the unparsed response body.
	RawBody string
	// Message is the provider's message, or "Unknown error".
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Code == 0 {
		return fmt.Sprintf("calendar provider request failed: %s", e.Message)
	}
	return fmt.Sprintf("calendar provider returned status %d: %s", e.Code, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
