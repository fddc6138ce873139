package password

import "errors"

// Public, stable errors for callers.
var (
	ErrInvalidLength     = errors.New("invalid credential length")
	ErrInvalidIterations = errors.New("invalid iteration count")
	ErrInvalidClientHash = errors.New("invalid client hash")
	ErrConfig            = errors.New("invalid password config")
)
