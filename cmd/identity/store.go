package identity

import (
	"context"
	"time"

	"vrme/cmd/security/password"

	"github.com/google/uuid"
)

// Account is a registered principal.
type Account struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	// Email is stored normalized.
	Email      string
	Credential password.HashedPassword
	CreatedAt  time.Time
}

// NewAccount describes a row to insert. Fields must already be normalized
// and the credential already derived.
type NewAccount struct {
	ID         uuid.UUID
	FirstName  string
	LastName   string
	Email      string
	Credential password.HashedPassword
	Now        time.Time
}

// Store is the account persistence boundary.
type Store interface {
	// Create inserts an account. A taken email returns a ConflictError.
	Create(ctx context.Context, in NewAccount) (Account, error)

	// ByEmail looks up a normalized email. Missing returns NotFoundError.
	ByEmail(ctx context.Context, email string) (Account, error)

	// ByID looks up an account. Missing returns NotFoundError.
	ByID(ctx context.Context, id uuid.UUID) (Account, error)

	// Delete removes the account and its session atomically.
	// Missing returns NotFoundError.
	Delete(ctx context.Context, id uuid.UUID) error
}
