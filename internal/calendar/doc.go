// Package calendar creates and deletes Google Calendar events that carry a
// Google Meet conference.
//
// The client holds no credentials. Every call receives the caller's bearer
// access token, which is wrapped in a static token source for the duration
// of that single request:
//
//	client := calendar.NewClient(calendar.WithCalendarID("primary"))
//	created, err := client.Create(ctx, accessToken, calendar.EventSpec{
//	    Summary: "Team Sync",
//	    Start:   start,
//	    End:     start.Add(time.Hour),
//	})
//
// Failed provider calls are returned as *ProviderError so callers can
// inspect the HTTP status and the provider's message.
package calendar
