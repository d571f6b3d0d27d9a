// Package server exposes the meeting service over HTTP.
//
// # Routes
//
//   - POST /api/instant-meeting creates a meeting starting now.
//   - POST /api/schedule-meeting creates a meeting from {dateTime, title}.
//   - GET /api/time-slots?date=YYYY-MM-DD lists the bookable 15 minute
//     slots of a day in the configured time zone.
//   - /healthz, /readyz and /healthz/detailed serve Kubernetes probes.
//
// The meeting routes take the caller's Google access token from the
// Authorization header. Failures are answered as {"error": "..."} with
// the status of the meeting error kind: 401 unauthorized, 400 invalid
// input, 502 provider failure.
//
// Every request passes through recovery, request id assignment, security
// headers, tracing and metrics, and optional per-IP rate limiting.
//
// MetricsServer serves /metrics on a separate address so operational data
// is not reachable through the public listener.
//
// ServerContext holds the dependencies shared with the MCP tools and
// resolves the configured session's access token for them.
package server
