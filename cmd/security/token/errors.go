package token

import "errors"

// Public, stable errors for callers.
var (
	ErrInvalidFormat = errors.New("invalid token format")
)
