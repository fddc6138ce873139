// Package ids provides the identifier primitives used across the service.
package ids

import (
	"crypto/rand"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewAccountID returns a time-ordered (version 7) UUID for a new account.
func NewAccountID() (uuid.UUID, error) {
	return uuid.NewV7()
}

// ParseAccountID parses the canonical text form of an account ID.
// The nil UUID is rejected.
func ParseAccountID(s string) (uuid.UUID, bool) {
	id, err := uuid.Parse(s)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// NewRequestID returns a ULID string (26 chars) for correlating log lines.
// ULIDs sort by creation time, which keeps request logs in order when grepped.
func NewRequestID(now time.Time) string {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return ulid.Make().String()
	}
	return id.String()
}
