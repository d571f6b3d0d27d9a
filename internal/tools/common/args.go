package common

import (
	"errors"
	"strings"

	"github.com/teemow/meetscheduler/internal/meeting"
)

// StringArg returns the trimmed string argument key, or "" when it is
// missing or not a string.
func StringArg(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// ErrorMessage returns the text shown to the MCP client for err. Meeting
// errors carry a caller safe message; anything else is shown verbatim.
func ErrorMessage(err error) string {
	var merr *meeting.Error
	if errors.As(err, &merr) {
		return merr.Message
	}
	return err.Error()
}
