package password

import "fmt"

const (
	// SaltLength is the per-account salt size in bytes.
	SaltLength = 16
	// KeyLength is the derived hash size in bytes.
	KeyLength = 32
	// ClientHashLength is the decoded size of a client pre-hash.
	ClientHashLength = 32

	// MinIterations is the lowest iteration count the hasher will derive with.
	MinIterations = 100_000
	// maxIterations bounds Verify so a corrupted row cannot pin a worker.
	maxIterations = 10_000_000
)

// Config is the single configuration surface for this package.
type Config struct {
	// Iterations is the PBKDF2 work factor applied to new hashes.
	Iterations int
}

// DefaultConfig returns the deployment baseline.
func DefaultConfig() Config {
	return Config{Iterations: MinIterations}
}

// Validate reports whether cfg is usable for deriving new hashes.
func (c Config) Validate() error {
	if c.Iterations < MinIterations || c.Iterations > maxIterations {
		return fmt.Errorf("%w: iterations must be in [%d..%d], got %d", ErrConfig, MinIterations, maxIterations, c.Iterations)
	}
	return nil
}
