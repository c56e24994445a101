package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an application failure. Every handler maps a Kind to
// exactly one HTTP status, so services never import net/http.
type Kind int

const (
	Validation Kind = iota // malformed or missing input
	Auth                   // missing/invalid/expired session or credentials
	Forbidden              // inactive account or insufficient role
	NotFound
	Conflict // state precondition violated: duplicate email, no-op role change, ...
	Expired  // verification token past its expiry
	Internal
)

// Error is a tagged failure carrying a terse user-facing message.
// The wrapped cause is for server-side logging only.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a cause to a tagged failure.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// KindOf extracts the Kind from err, defaulting to Internal for
// untagged errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Internal
}

// MessageOf returns the user-facing message, or an empty string for
// untagged errors so callers fall back to a generic one.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return ""
}

// Status maps a failure to its HTTP status code.
func Status(err error) int {
	switch KindOf(err) {
	case Validation, Expired:
		return http.StatusBadRequest
	case Auth:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Is reports whether err is a tagged failure of the given kind.
func Is(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
