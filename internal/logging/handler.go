package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Supported log output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// secretKeys are attribute keys whose string values are always masked,
// whichever call site logged them.
var secretKeys = map[string]bool{
	KeyToken:        true,
	"access_token":  true,
	"refresh_token": true,
	"id_token":      true,
	"authorization": true,
	"client_secret": true,
}

// ParseLevel maps a level name (debug, info, warn, error) to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

// NewLogger builds a slog.Logger writing to w in the given format. Values
// under secret keys are masked with SanitizeToken.
func NewLogger(w io.Writer, format string, level slog.Level) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: redactSecrets}

	switch strings.ToLower(format) {
	case "", FormatText:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unsupported log format %q (use %s or %s)", format, FormatText, FormatJSON)
	}
}

func redactSecrets(_ []string, a slog.Attr) slog.Attr {
	if !secretKeys[strings.ToLower(a.Key)] || a.Value.Kind() != slog.KindString {
		return a
	}
	v := a.Value.String()
	if strings.HasPrefix(v, "[token:") || v == "<empty>" {
		return a
	}
	return slog.String(a.Key, SanitizeToken(v))
}

// Discard returns a Logger that drops every record.
func Discard() *SlogAdapter {
	return NewSlogAdapter(slog.New(slog.DiscardHandler))
}
