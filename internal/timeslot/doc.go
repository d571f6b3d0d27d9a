// Package timeslot generates the quantized start times offered to a user
// when scheduling a meeting, and converts instants to and from the
// display form used by the scheduling UI.
//
// Slots are 15 minutes apart. For today the first slot is the next
// boundary strictly after now; for a future day the first slot is
// midnight. Slot values use the RFC 3339 wire form in UTC, labels use a
// 12-hour clock:
//
//	slots := timeslot.Generate(day, time.Now())
//	for _, s := range slots {
//	    fmt.Println(s.Label) // "10:15am (15 mins)"
//	}
//
// The display codec renders "dd-mm-yyyy h:mma" (for example
// "01-01-2024 3:30pm"). Parse is the inverse of Format at minute
// granularity; seconds are not represented.
package timeslot
