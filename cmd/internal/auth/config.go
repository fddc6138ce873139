package auth

import (
	"vrme/cmd/internal/auth/session"
	"vrme/cmd/security/password"
)

// Config collects the tunables the Service passes to its components.
type Config struct {
	Session  session.Config
	Password password.Config
}

// DefaultConfig returns a 24h fixed-expiry session and the minimum PBKDF2 work factor.
func DefaultConfig() Config {
	return Config{
		Session:  session.DefaultConfig(),
		Password: password.DefaultConfig(),
	}
}

// Validate checks both sub-configs.
func (c Config) Validate() error {
	if err := c.Session.Validate(); err != nil {
		return err
	}
	return c.Password.Validate()
}
