package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryRow struct {
	token    string
	lastUsed time.Time
}

// MemoryStore is an in-process Store used when no database is configured and in tests.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]memoryRow
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[uuid.UUID]memoryRow)}
}

func (s *MemoryStore) Upsert(ctx context.Context, accountID uuid.UUID, token string, now time.Time) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now = now.UTC()
	s.rows[accountID] = memoryRow{token: token, lastUsed: now}
	return now, nil
}

func (s *MemoryStore) Find(ctx context.Context, accountID uuid.UUID, token string) (time.Time, bool, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.rows[accountID]
	if !ok || row.token != token {
		return time.Time{}, false, nil
	}
	return row.lastUsed, true, nil
}

func (s *MemoryStore) Delete(ctx context.Context, accountID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.rows, accountID)
	return nil
}

// Len reports the number of stored sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}
