package logging

import (
	"fmt"
	"log/slog"
)

// Attribute keys shared by every log line in the service.
const (
	KeyStatus      = "status"
	KeyError       = "error"
	KeyTool        = "tool"
	KeyMeetingKind = "meeting_kind"
	KeyEventID     = "event_id"
	KeyRequestID   = "request_id"
	KeyTransport   = "transport"
	KeyToken       = "token"
)

// Status values match the instrumentation status labels.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

func Status(status string) slog.Attr { return slog.String(KeyStatus, status) }

func Tool(name string) slog.Attr { return slog.String(KeyTool, name) }

// MeetingKind is instant or scheduled.
func MeetingKind(kind string) slog.Attr { return slog.String(KeyMeetingKind, kind) }

func EventID(id string) slog.Attr { return slog.String(KeyEventID, id) }

func RequestID(id string) slog.Attr { return slog.String(KeyRequestID, id) }

func Transport(transport string) slog.Attr { return slog.String(KeyTransport, transport) }

// Token carries only the SanitizeToken rendering of token.
func Token(token string) slog.Attr {
	return slog.String(KeyToken, SanitizeToken(token))
}

// Err renders err under KeyError. A nil err yields an empty group, which
// handlers omit, so Err(maybeNil) is always safe to pass.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// SanitizeToken reports only the length of token. Even a prefix of an
// OAuth access token is enough to correlate it across systems.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}
