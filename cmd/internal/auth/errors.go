package auth

import (
	"context"
	"errors"
	"fmt"

	"vrme/cmd/identity"
	"vrme/cmd/internal/auth/session"
	"vrme/cmd/internal/workpool"
)

// Kind classifies an auth failure.
type Kind uint8

const (
	KindInternal Kind = iota + 1
	KindMissingCredentials
	KindInvalidFormat
	KindInvalidAuthToken
	KindAuthTokenExpired
	// KindUnauthorized is a failed login: unknown email or wrong credential.
	KindUnauthorized
	KindConflict
	KindInvalidInput
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindMissingCredentials:
		return "missing_credentials"
	case KindInvalidFormat:
		return "invalid_format"
	case KindInvalidAuthToken:
		return "invalid_auth_token"
	case KindAuthTokenExpired:
		return "auth_token_expired"
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Error is returned by every Service method.
// Msg is safe to show to clients. Err carries the cause and is never shown.
type Error struct {
	Op   string
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	s := e.Op + ": " + e.Kind.String()
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns err's Kind. Errors from outside this package are KindInternal;
// nil is 0.
func KindOf(err error) Kind {
	if err == nil {
		return 0
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// Message returns the client-facing message for err.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Msg != "" {
		return ae.Msg
	}
	return "internal server error"
}

func newError(op string, kind Kind, msg string, err error) error {
	return &Error{Op: op, Kind: kind, Msg: msg, Err: err}
}

func internal(op string, err error) error {
	return &Error{Op: op, Kind: KindInternal, Msg: "internal server error", Err: err}
}

// fromSession translates a session error. Every session kind has exactly one
// auth kind.
func fromSession(op string, err error) error {
	var se *session.Error
	if !errors.As(err, &se) {
		return internal(op, err)
	}
	switch se.Kind {
	case session.KindInvalidFormat:
		return newError(op, KindInvalidFormat, "authorization payload is malformed", err)
	case session.KindInvalidAuthToken:
		return newError(op, KindInvalidAuthToken, "auth token is not valid", err)
	case session.KindAuthTokenExpired:
		return newError(op, KindAuthTokenExpired, "auth token has expired", err)
	default:
		// session.KindInternal: storage failure.
		return internal(op, err)
	}
}

// fromIdentity translates an identity store error.
func fromIdentity(op string, err error) error {
	switch {
	case identity.IsConflict(err):
		return newError(op, KindConflict, "an account with this email already exists", err)
	case identity.IsNotFound(err):
		return newError(op, KindNotFound, "account not found", err)
	case identity.IsInvalidInput(err):
		var oe identity.OpError
		if errors.As(err, &oe) && oe.Msg != "" {
			return newError(op, KindInvalidInput, oe.Msg, err)
		}
		return newError(op, KindInvalidInput, "invalid input", err)
	default:
		return internal(op, err)
	}
}

// fromPool translates a workpool submission failure. The caller's own
// cancellation stays visible through Unwrap.
func fromPool(op string, err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return newError(op, KindInternal, "request cancelled", err)
	case errors.Is(err, workpool.ErrClosed):
		return newError(op, KindInternal, "service is shutting down", err)
	default:
		return internal(op, err)
	}
}
