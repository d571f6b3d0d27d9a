package timeslot

import (
	"fmt"
	"time"
)

// Granularity is the distance between two consecutive slots.
const Granularity = 15 * time.Minute

// TimeSlot is a selectable meeting start time.
type TimeSlot struct {
	// Value is the slot instant in RFC 3339 UTC form.
	Value string `json:"value"`
	// Label is the 12-hour display text, e.g. "10:15am (15 mins)".
	Label string `json:"label"`
}

// NextSlot returns the first slot boundary strictly after t. Seconds and
// sub-second components of t are ignored, so 10:07:45 yields 10:15 and
// 10:15:00 yields 10:30.
func NextSlot(t time.Time) time.Time {
	y, m, d := t.Date()
	base := time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, t.Location())

	step := int(Granularity / time.Minute)
	add := step - t.Minute()%step
	return base.Add(time.Duration(add) * time.Minute)
}

// Generate returns the slots of the calendar day containing day, evaluated
// in now's location. Today starts at NextSlot(now), a future day starts at
// midnight, and a past day has no slots. The result is never nil.
func Generate(day, now time.Time) []TimeSlot {
	loc := now.Location()
	y, m, d := day.In(loc).Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, loc)

	slots := make([]TimeSlot, 0, int(24*time.Hour/Granularity))

	start := midnight
	if sameDay(now, y, m, d) {
		start = NextSlot(now)
	} else if midnight.Before(now) {
		return slots
	}

	for t := start; sameDay(t, y, m, d); t = t.Add(Granularity) {
		slots = append(slots, newSlot(t))
	}
	return slots
}

func newSlot(t time.Time) TimeSlot {
	return TimeSlot{
		Value: FormatWire(t),
		Label: Label(t),
	}
}

// Label renders the display label for a slot starting at t.
func Label(t time.Time) string {
	return fmt.Sprintf("%s (%d mins)", t.Format("3:04pm"), t.Minute())
}

func sameDay(t time.Time, y int, m time.Month, d int) bool {
	ty, tm, td := t.Date()
	return ty == y && tm == m && td == d
}
