package session

import (
	"fmt"
	"time"
)

// ExpiryPolicy decides what a successful validation does to last_used.
type ExpiryPolicy string

const (
	// ExpiryFixed measures validity from the last login. Validation never
	// writes to the session row, so a session expires ValidityWindow after
	// the login that created it regardless of activity.
	ExpiryFixed ExpiryPolicy = "fixed"
)

// Config holds the session subsystem's tunables.
type Config struct {
	// ValidityWindow is how long after last_used a session is still accepted.
	// A session whose age is exactly ValidityWindow is still fresh.
	ValidityWindow time.Duration

	// Expiry is the refresh policy. Only ExpiryFixed is supported.
	Expiry ExpiryPolicy
}

// DefaultConfig returns a 24h fixed-expiry configuration.
func DefaultConfig() Config {
	return Config{
		ValidityWindow: 24 * time.Hour,
		Expiry:         ExpiryFixed,
	}
}

// Validate checks invariants.
func (c Config) Validate() error {
	if c.ValidityWindow <= 0 {
		return fmt.Errorf("%w: validity window must be positive", ErrConfig)
	}
	if c.Expiry != ExpiryFixed {
		return fmt.Errorf("%w: unsupported expiry policy %q", ErrConfig, c.Expiry)
	}
	return nil
}
