package meeting

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/teemow/meetscheduler/internal/calendar"
	"github.com/teemow/meetscheduler/internal/instrumentation"
)

// Kind classifies a meeting error.
type Kind int

const (
	// KindUnauthorized means the caller has no usable access token.
	KindUnauthorized Kind = iota + 1
	// KindInvalidInput means the request was rejected before reaching the provider.
	KindInvalidInput
	// KindProviderFailure means the calendar provider failed or returned
	// an unusable response.
	KindProviderFailure
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindInvalidInput:
		return "invalid_input"
	case KindProviderFailure:
		return "provider_failure"
	default:
		return "unknown"
	}
}

// HTTPStatus returns the status code adapters respond with for k.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindProviderFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// metricReason maps k to the failure reason label.
func (k Kind) metricReason() string {
	switch k {
	case KindUnauthorized:
		return instrumentation.ReasonUnauthorized
	case KindInvalidInput:
		return instrumentation.ReasonInvalidInput
	case KindProviderFailure:
		return instrumentation.ReasonProviderFailure
	default:
		return ""
	}
}

// Error is a classified meeting error. Message is safe to show to the
// caller; Err holds the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	cause := e.Err.Error()
	if e.Message == "" || strings.HasPrefix(cause, e.Message) {
		return cause
	}
	return e.Message + ": " + cause
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind. A target with a message
// also has to match the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// HTTPStatus returns the status code for the error's kind.
func (e *Error) HTTPStatus() int {
	return e.Kind.HTTPStatus()
}

// Sentinel errors for errors.Is checks.
var (
	ErrUnauthorized    = &Error{Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrMissingFields   = &Error{Kind: KindInvalidInput, Message: "missing required fields"}
	ErrInvalidDate     = &Error{Kind: KindInvalidInput, Message: "invalid date format"}
	ErrDateNotInFuture = &Error{Kind: KindInvalidInput, Message: "date must be in the future"}
	ErrProviderFailure = &Error{Kind: KindProviderFailure}
)

const (
	providerFailurePrefix = "Failed to create meeting"
	missingLinkMessage    = "no conference link returned"
)

// KindOf returns the kind of err, or zero when err is not a meeting error.
func KindOf(err error) Kind {
	var merr *Error
	if errors.As(err, &merr) {
		return merr.Kind
	}
	return 0
}

// invalidInput returns a copy of sentinel carrying cause.
func invalidInput(sentinel *Error, cause error) *Error {
	return &Error{Kind: sentinel.Kind, Message: sentinel.Message, Err: cause}
}

// providerFailure classifies an error returned by the event client.
func providerFailure(err error) *Error {
	if errors.Is(err, calendar.ErrMissingToken) {
		return &Error{Kind: KindUnauthorized, Message: ErrUnauthorized.Message, Err: err}
	}

	msg := "Unknown error"
	var perr *calendar.ProviderError
	if errors.As(err, &perr) && perr.Message != "" {
		msg = perr.Message
	}
	return &Error{
		Kind:    KindProviderFailure,
		Message: fmt.Sprintf("%s: %s", providerFailurePrefix, msg),
		Err:     err,
	}
}

// missingLink is returned when the provider created an event without a
// conference attached.
func missingLink(eventID string) *Error {
	return &Error{
		Kind:    KindProviderFailure,
		Message: fmt.Sprintf("%s: %s", providerFailurePrefix, missingLinkMessage),
		Err:     fmt.Errorf("event %s has no conference link", eventID),
	}
}
