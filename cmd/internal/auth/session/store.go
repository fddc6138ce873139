package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store persists one session row per account.
//
// Implementations must make Upsert a single atomic write keyed on the
// account so that two concurrent logins leave exactly one token in place.
type Store interface {
	// Upsert creates the account's session or replaces its token, setting
	// last_used to now. It returns the stored last_used. An account that
	// does not exist yields ErrUnknownAccount and no row is written.
	Upsert(ctx context.Context, accountID uuid.UUID, token string, now time.Time) (time.Time, error)

	// Find returns last_used when the row for accountID holds token.
	// A wrong token and a missing row both report ok=false.
	Find(ctx context.Context, accountID uuid.UUID, token string) (lastUsed time.Time, ok bool, err error)

	// Delete removes the account's session. Deleting a missing session is not an error.
	Delete(ctx context.Context, accountID uuid.UUID) error
}
