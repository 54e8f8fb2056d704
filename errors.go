package session

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeTokenMalformed    = "session_token_malformed"
	TextCodeTokenExpired      = "session_token_expired"
	TextCodeInvalidCreds      = "session_invalid_credentials"
	TextCodeAccountConflict   = "session_account_conflict"
	TextCodeNetworkFailure    = "session_network_failure"
	TextCodeUnauthorized      = "session_unauthorized"
	TextCodeNotFound          = "session_not_found"
	TextCodeInvalidTransition = "session_invalid_transition"
	TextCodeLoginSuperseded   = "session_login_superseded"
)

// ErrTokenMalformed is returned when a token cannot be decoded into the
// expected claim shape.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when decoded claims are already expired.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidCredentials is returned when the backend rejects a login.
var ErrInvalidCredentials = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrAccountConflict is returned when registration collides with an existing
// email or username.
var ErrAccountConflict = errors.New("email or username already registered", errors.CategoryConflict).
	WithTextCode(TextCodeAccountConflict).
	WithCode(errors.CodeConflict)

// ErrNetwork is returned when a request never produced a usable response.
var ErrNetwork = errors.New("request failed in transit", errors.CategoryOperation).
	WithTextCode(TextCodeNetworkFailure).
	WithCode(errors.CodeInternal)

// ErrUnauthorized is returned when the backend rejects the bearer token on an
// authenticated call.
var ErrUnauthorized = errors.New("request was not authorized", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthorized).
	WithCode(errors.CodeUnauthorized)

// ErrNoSession is returned when an operation needs a stored token and none is
// present.
var ErrNoSession = errors.New("no stored session", errors.CategoryNotFound).
	WithTextCode(TextCodeNotFound).
	WithCode(errors.CodeNotFound)

// ErrInvalidTransition is returned when a requested state change is not
// allowed by the session state machine.
var ErrInvalidTransition = errors.New("invalid session state transition", errors.CategoryValidation).
	WithTextCode(TextCodeInvalidTransition).
	WithCode(errors.CodeBadRequest)

// ErrLoginSuperseded is returned when a login completes after a later logout
// or login already advanced the session.
var ErrLoginSuperseded = errors.New("login superseded by a newer operation", errors.CategoryConflict).
	WithTextCode(TextCodeLoginSuperseded).
	WithCode(errors.CodeConflict)

// IsTokenExpiredError will check for expired tokens, structured or legacy.
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) || matchTextCode(err, TextCodeTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for malformed tokens, structured or legacy.
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) || matchTextCode(err, TextCodeTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsInvalidCredentialsError reports whether err represents a rejected login.
func IsInvalidCredentialsError(err error) bool {
	return err != nil && (errors.Is(err, ErrInvalidCredentials) || matchTextCode(err, TextCodeInvalidCreds))
}

// IsConflictError reports whether err represents a registration conflict.
func IsConflictError(err error) bool {
	return err != nil && (errors.Is(err, ErrAccountConflict) || matchTextCode(err, TextCodeAccountConflict))
}

// IsNetworkError reports whether err represents a transport failure.
func IsNetworkError(err error) bool {
	return err != nil && (errors.Is(err, ErrNetwork) || matchTextCode(err, TextCodeNetworkFailure))
}

// IsUnauthorizedError reports whether err represents a rejected bearer token.
func IsUnauthorizedError(err error) bool {
	return err != nil && (errors.Is(err, ErrUnauthorized) || matchTextCode(err, TextCodeUnauthorized))
}

func matchTextCode(err error, code string) bool {
	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich.TextCode == code
	}
	return false
}
