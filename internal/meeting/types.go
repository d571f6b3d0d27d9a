package meeting

import (
	"errors"
	"fmt"
	"time"
)

// Kinds of meetings.
const (
	KindInstant   = "instant"
	KindScheduled = "scheduled"
)

// DefaultDuration is the length of every created meeting unless configured otherwise.
const DefaultDuration = 60 * time.Minute

// Event texts.
const (
	InstantSummary          = "Instant Meeting"
	InstantDescription      = "Instant meeting created via Meeting Scheduler"
	DefaultScheduledSummary = "Scheduled Meeting"
	ScheduledDescription    = "Scheduled via Meeting Scheduler"
)

var errTokenExpired = errors.New("access token expired")

// ScheduleRequest asks for a meeting at a future time.
type ScheduleRequest struct {
	// DateTime is an RFC 3339 instant, an offset-less "2024-01-01T15:30"
	// local time or a "dd-mm-yyyy h:mma" display string. Values without an
	// offset are interpreted in the configured time zone.
	DateTime string `json:"dateTime"`
	// Title is optional.
	Title string `json:"title,omitempty"`
}

// Meeting is a created meeting.
type Meeting struct {
	MeetingLink string    `json:"meetingLink"`
	MeetingID   string    `json:"meetingId"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
}

// Config holds the settings shared by all meetings.
type Config struct {
	// TimeZone is the IANA zone attached to created events and used to
	// interpret display-form date times. Empty means UTC.
	TimeZone string
	// Duration of each meeting. Zero means DefaultDuration.
	Duration time.Duration
}

// withDefaults fills unset fields and validates the result.
func (c Config) withDefaults() (Config, *time.Location, error) {
	if c.TimeZone == "" {
		c.TimeZone = "UTC"
	}
	if c.Duration == 0 {
		c.Duration = DefaultDuration
	}
	if c.Duration < 0 {
		return c, nil, fmt.Errorf("meeting duration must be positive, got %s", c.Duration)
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return c, nil, fmt.Errorf("invalid time zone %q: %w", c.TimeZone, err)
	}
	return c, loc, nil
}
