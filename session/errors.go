package session

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
)

// ErrorKind classifies every terminal failure the client returns. Callers
// branch on the kind, never on raw HTTP status.
type ErrorKind string

const (
	NetworkError         ErrorKind = "NetworkError"
	InvalidRequest       ErrorKind = "InvalidRequest"
	AuthenticationFailed ErrorKind = "AuthenticationFailed"
	PermissionDenied     ErrorKind = "PermissionDenied"
	NotFound             ErrorKind = "NotFound"
	ValidationFailed     ErrorKind = "ValidationFailed"
	RateLimited          ErrorKind = "RateLimited"
	ServerError          ErrorKind = "ServerError"
	UnknownError         ErrorKind = "UnknownError"
)

var defaultMessages = map[ErrorKind]string{
	NetworkError:         "Unable to reach the server. Check your internet connection and try again.",
	InvalidRequest:       "The request was invalid.",
	AuthenticationFailed: "Your session has expired. Please log in again.",
	PermissionDenied:     "You do not have permission to perform this action.",
	NotFound:             "The requested resource was not found.",
	ValidationFailed:     "Some of the submitted data is invalid.",
	RateLimited:          "Too many requests. Please wait a moment and try again.",
	ServerError:          "The server encountered an error. Please try again later.",
	UnknownError:         "An unexpected error occurred.",
}

// Error is the normalised error returned for every terminal failure.
type Error struct {
	Kind    ErrorKind
	Message string
	// Status is the HTTP status of the failed response, 0 when none arrived.
	Status int
	// Details is the decoded JSON object of the error body, when there was one.
	Details map[string]any
	Cause   error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("[%s] %s (status %d)", e.Kind, e.Message, e.Status)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// StatusError is the cause recorded for a response that arrived with a failing
// status code.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

// KindForStatus maps an HTTP status to its ErrorKind. Status 0 means no
// response was received.
func KindForStatus(status int) ErrorKind {
	switch {
	case status == 0:
		return NetworkError
	case status == http.StatusBadRequest:
		return InvalidRequest
	case status == http.StatusUnauthorized:
		return AuthenticationFailed
	case status == http.StatusForbidden:
		return PermissionDenied
	case status == http.StatusNotFound:
		return NotFound
	case status == http.StatusUnprocessableEntity:
		return ValidationFailed
	case status == http.StatusTooManyRequests:
		return RateLimited
	case status >= 500 && status <= 599:
		return ServerError
	default:
		return UnknownError
	}
}

// KindOf returns the kind of a normalised error anywhere in err's chain, or
// UnknownError.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return UnknownError
}

// IsKind reports whether err is a normalised error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// networkFailure normalises a transport error.
func networkFailure(cause error) *Error {
	return &Error{
		Kind:    NetworkError,
		Message: defaultMessages[NetworkError],
		Cause:   cause,
	}
}

// statusFailure normalises a failing response. Backends answer with a mix of
// {"detail": "..."}, {"message": "..."}, {"error": "..."} and field keyed
// validation maps; the first string message found wins and the decoded object
// is kept as details.
func statusFailure(cause *StatusError) *Error {
	kind := KindForStatus(cause.Status)
	e := &Error{
		Kind:    kind,
		Message: defaultMessages[kind],
		Status:  cause.Status,
		Cause:   cause,
	}

	details := decodeDetails(cause.Body)
	if details == nil {
		return e
	}
	e.Details = details
	if msg := messageFrom(details); msg != "" {
		e.Message = msg
	}
	return e
}

func decodeDetails(body []byte) map[string]any {
	trimmed := strings.TrimSpace(string(body))
	if !strings.HasPrefix(trimmed, "{") {
		return nil
	}
	var details map[string]any
	if err := sonic.UnmarshalString(trimmed, &details); err != nil {
		return nil
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

func messageFrom(details map[string]any) string {
	for _, key := range []string{"detail", "message", "error"} {
		switch v := details[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case []any:
			if len(v) > 0 {
				if s, ok := v[0].(string); ok && s != "" {
					return s
				}
			}
		}
	}
	if v, ok := details["non_field_errors"].([]any); ok && len(v) > 0 {
		if s, ok := v[0].(string); ok {
			return s
		}
	}
	return ""
}
