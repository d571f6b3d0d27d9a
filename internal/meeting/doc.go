// Package meeting creates Google Meet meetings on behalf of an
// authenticated user.
//
// Two flows are supported. An instant meeting starts now: a placeholder
// calendar event is created to obtain a conference link and is deleted
// again right away, leaving the link usable. A scheduled meeting is a
// regular calendar event at a future start time.
//
// Every operation takes the caller's bearer access token; the Service
// holds no credentials and no per-user state, so one Service can serve
// all callers concurrently.
//
// Errors returned by the Service are *Error values classified by Kind,
// which adapters map to transport status codes.
package meeting
