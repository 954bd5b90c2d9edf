package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the class of a failed exchange.
type Kind int

const (
	KindGeneric Kind = iota
	KindAuthentication
	KindValidation
	KindPermission
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindValidation:
		return "validation"
	case KindPermission:
		return "permission"
	case KindNotFound:
		return "not_found"
	default:
		return "generic"
	}
}

var (
	ErrGeneric        = errors.New("request failed")
	ErrAuthentication = errors.New("authentication failed")
	ErrValidation     = errors.New("validation failed")
	ErrPermission     = errors.New("permission denied")
	ErrNotFound       = errors.New("not found")

	// ErrUnavailable matches generic errors raised when no response was received.
	ErrUnavailable = errors.New("network unavailable")
)

const (
	// UnknownErrorMessage is used when the response body carries nothing readable.
	UnknownErrorMessage = "an unknown error occurred"

	networkMessage        = "network unavailable"
	sessionExpiredMessage = "session expired"
)

// Error is a classified API failure.
type Error struct {
	Kind Kind
	// StatusCode is 0 when no response was received.
	StatusCode int
	Message    string
	// Fields holds field-level messages of a validation error.
	Fields map[string][]string
	// Err is the underlying transport or renewal failure, if any.
	Err error
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of e's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnavailable:
		return e.Kind == KindGeneric && e.StatusCode == 0
	case ErrGeneric:
		return e.Kind == KindGeneric
	case ErrAuthentication:
		return e.Kind == KindAuthentication
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrPermission:
		return e.Kind == KindPermission
	case ErrNotFound:
		return e.Kind == KindNotFound
	}
	return false
}

// Network builds the generic error for an exchange that produced no response.
func Network(cause error) *Error {
	return &Error{Kind: KindGeneric, Message: networkMessage, Err: cause}
}

// SessionExpired builds the terminal authentication error returned to every
// caller waiting on a renewal that failed.
func SessionExpired(cause error) *Error {
	return &Error{
		Kind:       KindAuthentication,
		StatusCode: http.StatusUnauthorized,
		Message:    sessionExpiredMessage,
		Err:        cause,
	}
}

// KindOf returns the kind of err, or KindGeneric when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindGeneric
}

// FieldErrors returns the field-level messages carried by a validation
// error, or nil.
func FieldErrors(err error) map[string][]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
