package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// HashedPassword is the stored form of a credential.
// Salt and Hash are always produced together and must be persisted together.
type HashedPassword struct {
	Iterations int
	Salt       []byte
	Hash       []byte
}

// Hasher derives and verifies PBKDF2-HMAC-SHA256 credentials.
// It holds no mutable state and is safe for concurrent use.
type Hasher struct {
	cfg  Config
	rand io.Reader
}

// NewHasher builds a Hasher. A nil rand uses crypto/rand.Reader.
func NewHasher(cfg Config, rnd io.Reader) (*Hasher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rnd == nil {
		rnd = rand.Reader
	}
	return &Hasher{cfg: cfg, rand: rnd}, nil
}

// Iterations returns the work factor used for new hashes.
func (h *Hasher) Iterations() int { return h.cfg.Iterations }

// Derive stretches clientHash under a fresh random salt.
func (h *Hasher) Derive(clientHash []byte) (HashedPassword, error) {
	if len(clientHash) != ClientHashLength {
		return HashedPassword{}, ErrInvalidLength
	}

	salt := make([]byte, SaltLength)
	if _, err := io.ReadFull(h.rand, salt); err != nil {
		return HashedPassword{}, fmt.Errorf("salt: %w", err)
	}

	return HashedPassword{
		Iterations: h.cfg.Iterations,
		Salt:       salt,
		Hash:       derive(clientHash, salt, h.cfg.Iterations),
	}, nil
}

// Verify recomputes the hash under the stored parameters.
// Returns (true, nil) for a match, (false, nil) for a mismatch,
// and (false, err) when any input has the wrong shape.
func (h *Hasher) Verify(clientHash, salt []byte, iterations int, expected []byte) (bool, error) {
	if len(clientHash) != ClientHashLength || len(salt) != SaltLength || len(expected) != KeyLength {
		return false, ErrInvalidLength
	}
	if iterations <= 0 || iterations > maxIterations {
		return false, ErrInvalidIterations
	}

	key := derive(clientHash, salt, iterations)
	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}

// VerifyStored is Verify over a HashedPassword.
func (h *Hasher) VerifyStored(clientHash []byte, stored HashedPassword) (bool, error) {
	return h.Verify(clientHash, stored.Salt, stored.Iterations, stored.Hash)
}

func derive(clientHash, salt []byte, iterations int) []byte {
	return pbkdf2.Key(clientHash, salt, iterations, KeyLength, sha256.New)
}
