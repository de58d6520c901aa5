package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies an error for the HTTP and page layers.
type Kind int

const (
	KindUnhandled Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindConcurrency
)

// GenericMessage is what callers see for anything unhandled.
const GenericMessage = "An unexpected error occurred. Please try again later."

type Error struct {
	Kind     Kind
	Messages []string
	Err      error
}

func (e *Error) Error() string {
	msg := strings.Join(e.Messages, "; ")
	if e.Err != nil {
		if msg == "" {
			return e.Err.Error()
		}
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(messages ...string) error {
	return &Error{Kind: KindValidation, Messages: messages}
}

func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Messages: []string{fmt.Sprintf(format, args...)}}
}

func Conflict(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Messages: []string{fmt.Sprintf(format, args...)}}
}

// ConflictWrap keeps the store error underneath a conflict for logging.
func ConflictWrap(err error, format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Messages: []string{fmt.Sprintf(format, args...)}, Err: err}
}

func Concurrency(format string, args ...interface{}) error {
	return &Error{Kind: KindConcurrency, Messages: []string{fmt.Sprintf(format, args...)}}
}

// Unhandled wraps an unexpected failure. The message is for logs only.
func Unhandled(err error, format string, args ...interface{}) error {
	return &Error{Kind: KindUnhandled, Messages: []string{fmt.Sprintf(format, args...)}, Err: err}
}

// KindOf reports the kind of err; plain errors are unhandled.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnhandled
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// StatusCode maps err to the HTTP status the API answers with.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConcurrency:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Messages returns the user-facing messages for err. Unhandled errors never
// leak their cause.
func Messages(err error) []string {
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Kind == KindUnhandled {
		return []string{GenericMessage}
	}
	return appErr.Messages
}
