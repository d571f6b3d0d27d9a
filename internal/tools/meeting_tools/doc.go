// Package meeting_tools provides MCP tools for creating Google Meet meetings.
//
// Available tools:
//   - meeting_create_instant - Create a meeting that starts now and return its link
//   - meeting_schedule - Create a meeting at a future date and time
//   - meeting_time_slots - List the bookable 15 minute slots of a day
//
// The meeting tools act on behalf of the configured Google session. Date
// times accept RFC 3339 ("2024-01-01T15:30:00Z"), a local ISO-8601 time
// ("2024-01-01T15:30") or the display form "dd-mm-yyyy h:mma"
// ("01-01-2024 3:30pm"). Values without an offset use the server's time zone.
//
// Example usage:
//
//	meeting_schedule(
//	    date_time="2024-01-01T15:30:00Z",
//	    title="Team Sync"
//	)
package meeting_tools
