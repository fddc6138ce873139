package session

import (
	"errors"
	"fmt"
)

// ErrUnknownAccount is returned by Store.Upsert when the account no longer exists.
var ErrUnknownAccount = errors.New("session: account does not exist")

// Kind classifies a session failure. Callers map kinds, never error strings.
type Kind uint8

const (
	// KindInternal is a storage failure.
	KindInternal Kind = iota + 1
	// KindInvalidFormat is a bearer value that is not a well-formed payload.
	KindInvalidFormat
	// KindInvalidAuthToken means no session row matches the account and token.
	KindInvalidAuthToken
	// KindAuthTokenExpired means the matching row is older than the validity window.
	KindAuthTokenExpired
)

func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindInvalidFormat:
		return "invalid_format"
	case KindInvalidAuthToken:
		return "invalid_auth_token"
	case KindAuthTokenExpired:
		return "auth_token_expired"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Error is the single error type returned by the Validator and codec.
// Msg is safe to show to clients; Err is the underlying cause, if any.
type Error struct {
	Op   string
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %s: %v", e.Op, e.Kind, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Msg)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind carried by err, or 0 if err is not a session error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

// ErrConfig is returned for invalid configuration.
var ErrConfig = errors.New("invalid session config")

func invalidFormat(op, msg string, err error) error {
	return &Error{Op: op, Kind: KindInvalidFormat, Msg: msg, Err: err}
}
