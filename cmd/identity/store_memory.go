package identity

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"vrme/cmd/internal/auth/session"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used when no database is configured and in tests.
// It owns the in-memory session rows so that, as with the Postgres foreign key,
// a session can only exist for an existing account.
type MemoryStore struct {
	sessions *session.MemoryStore

	mu      sync.RWMutex
	byID    map[uuid.UUID]Account
	byEmail map[string]uuid.UUID
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store with no sessions.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: session.NewMemoryStore(),
		byID:     make(map[uuid.UUID]Account),
		byEmail:  make(map[string]uuid.UUID),
	}
}

func (s *MemoryStore) Create(ctx context.Context, in NewAccount) (Account, error) {
	const op = "identity.Create"

	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	if in.ID == uuid.Nil {
		return Account{}, invalid(op, "id is required")
	}
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[in.Email]; ok {
		return Account{}, ConflictError{Op: op, Field: "email"}
	}
	if _, ok := s.byID[in.ID]; ok {
		return Account{}, ConflictError{Op: op, Field: "id"}
	}

	acc := Account{
		ID:         in.ID,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		Credential: in.Credential,
		CreatedAt:  now.UTC(),
	}
	acc.Credential.Salt = bytes.Clone(in.Credential.Salt)
	acc.Credential.Hash = bytes.Clone(in.Credential.Hash)

	s.byID[acc.ID] = acc
	s.byEmail[acc.Email] = acc.ID
	return acc, nil
}

func (s *MemoryStore) ByEmail(ctx context.Context, email string) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return Account{}, NotFoundError{Op: "identity.ByEmail", Resource: "account"}
	}
	return s.byID[id], nil
}

func (s *MemoryStore) ByID(ctx context.Context, id uuid.UUID) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.byID[id]
	if !ok {
		return Account{}, NotFoundError{Op: "identity.ByID", Resource: "account"}
	}
	return acc, nil
}

// Delete holds the write lock across the session delete.
func (s *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "identity.Delete"

	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.byID[id]
	if !ok {
		return NotFoundError{Op: op, Resource: "account"}
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}
	delete(s.byEmail, acc.Email)
	delete(s.byID, id)
	return nil
}

// Sessions returns the session store bound to s.
func (s *MemoryStore) Sessions() *MemorySessionStore {
	return &MemorySessionStore{accounts: s}
}

// MemorySessionStore is the session.Store view of a MemoryStore.
// Upsert holds the account read lock, so it cannot interleave with Delete.
type MemorySessionStore struct {
	accounts *MemoryStore
}

var _ session.Store = (*MemorySessionStore)(nil)

func (m *MemorySessionStore) Upsert(ctx context.Context, accountID uuid.UUID, token string, now time.Time) (time.Time, error) {
	m.accounts.mu.RLock()
	defer m.accounts.mu.RUnlock()

	if _, ok := m.accounts.byID[accountID]; !ok {
		return time.Time{}, fmt.Errorf("%w: %s", session.ErrUnknownAccount, accountID)
	}
	return m.accounts.sessions.Upsert(ctx, accountID, token, now)
}

func (m *MemorySessionStore) Find(ctx context.Context, accountID uuid.UUID, token string) (time.Time, bool, error) {
	return m.accounts.sessions.Find(ctx, accountID, token)
}

func (m *MemorySessionStore) Delete(ctx context.Context, accountID uuid.UUID) error {
	return m.accounts.sessions.Delete(ctx, accountID)
}

// Len reports the number of stored sessions.
func (m *MemorySessionStore) Len() int { return m.accounts.sessions.Len() }
