package timeslot

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// displayLayout renders "dd-mm-yyyy h:mma" with a lower-case am/pm suffix.
const displayLayout = "02-01-2006 3:04pm"

// WireLayout is the layout used for slot values and API timestamps.
const WireLayout = time.RFC3339

// ErrInvalidDateTime is returned when a display string cannot be parsed.
var ErrInvalidDateTime = errors.New("invalid date format")

// Format returns the display form of t in t's location.
func Format(t time.Time) string {
	return t.Format(displayLayout)
}

// Parse parses a display string produced by Format in the given location.
// A nil location means time.Local.
//
// The display form carries no offset, so a wall time inside the repeated
// hour of a DST fall-back resolves to only one of its two instants, and
// Parse(Format(t), loc) differs from t by the DST shift for the other one.
func Parse(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDateTime)
	}

	// The "pm" layout element only matches lower case.
	t, err := time.ParseInLocation(displayLayout, strings.ToLower(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateTime, s)
	}
	return t, nil
}

// FormatWire returns the RFC 3339 UTC representation of t.
func FormatWire(t time.Time) string {
	return t.UTC().Format(WireLayout)
}

// ParseWire parses an ISO-8601 instant. Both RFC 3339 with and without
// fractional seconds are accepted.
func ParseWire(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDateTime)
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateTime, s)
	}
	return t, nil
}

// localLayouts are ISO-8601 date-times without an offset, as submitted by
// an HTML datetime-local input. Fractional seconds after the seconds field
// are accepted by time.Parse without a layout element.
var localLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

// ParseAny accepts the wire form, an ISO-8601 local date-time without an
// offset, or the display form. Values without an offset are interpreted in
// loc; a nil loc means time.Local.
func ParseAny(s string, loc *time.Location) (time.Time, error) {
	if t, err := ParseWire(s); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.Local
	}
	trimmed := strings.TrimSpace(s)
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, loc); err == nil {
			return t, nil
		}
	}
	return Parse(s, loc)
}
