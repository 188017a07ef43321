package auth

import (
	"errors"
	"net/http"
)

// Kind classifies authorization failures.
type Kind string

const (
	// KindUnauthorized is a missing or unresolvable credential or user.
	KindUnauthorized Kind = "UNAUTHORIZED"
	// KindInvalidToken is a credential that fails signature or structure verification.
	KindInvalidToken Kind = "INVALID_TOKEN"
	// KindTokenExpired is a well formed credential past its expiry.
	KindTokenExpired Kind = "TOKEN_EXPIRED"
	// KindSessionExpired is a session that is gone or past its own expiry.
	KindSessionExpired Kind = "SESSION_EXPIRED"
	// KindForbidden is an authenticated caller lacking permission, or a suspended or inactive account.
	KindForbidden Kind = "FORBIDDEN"
	// KindBadRequest is a malformed request, e.g. a missing organization header.
	KindBadRequest Kind = "BAD_REQUEST"
	// KindNotFound is an organization slug that does not resolve.
	KindNotFound Kind = "NOT_FOUND"
	// KindInternal is a data integrity violation or an unexpected failure.
	KindInternal Kind = "INTERNAL"
)

var kindStatus = map[Kind]int{
	KindUnauthorized:   http.StatusUnauthorized,
	KindInvalidToken:   http.StatusUnauthorized,
	KindTokenExpired:   http.StatusUnauthorized,
	KindSessionExpired: http.StatusUnauthorized,
	KindForbidden:      http.StatusForbidden,
	KindBadRequest:     http.StatusBadRequest,
	KindNotFound:       http.StatusNotFound,
	KindInternal:       http.StatusInternalServerError,
}

// Status returns the HTTP status code for k.
func (k Kind) Status() int {
	if s, ok := kindStatus[k]; ok {
		return s
	}

	return http.StatusInternalServerError
}

// Error is an authorization failure. Two errors match with errors.Is when their kinds are equal.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// NewError creates an Error of kind with a client facing message.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error of kind caused by err. The cause is not shown to clients.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}

	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.Kind == e.Kind
}

// Status returns the HTTP status code of the error.
func (e *Error) Status() int {
	return e.Kind.Status()
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindInternal
}

// Sentinels for errors.Is checks.
var (
	ErrUnauthorized   = NewError(KindUnauthorized, "unauthorized")
	ErrInvalidToken   = NewError(KindInvalidToken, "invalid token")
	ErrTokenExpired   = NewError(KindTokenExpired, "token expired")
	ErrSessionExpired = NewError(KindSessionExpired, "session expired")
	ErrForbidden      = NewError(KindForbidden, "forbidden")
	ErrBadRequest     = NewError(KindBadRequest, "bad request")
	ErrNotFound       = NewError(KindNotFound, "not found")
	ErrInternal       = NewError(KindInternal, "internal error")
)

var (
	// ErrInvalidPassword is returned when the provided password is incorrect during authentication.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUserAccountDisabled is returned when a suspended or inactive account tries to log in.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrUserNotFound is returned when a user cannot be found in the database.
	ErrUserNotFound = errors.New("user not found")

	// ErrRoleMissing is returned when a user references a global role that does not exist.
	ErrRoleMissing = errors.New("global role of user not found")
)
