package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store on the auth_sessions table.
type PostgresStore struct {
	db DBTX
}

// NewPostgresStore creates a Postgres-backed session store.
func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

// WithTx returns a store bound to tx.
func (s *PostgresStore) WithTx(tx pgx.Tx) *PostgresStore {
	return &PostgresStore{db: tx}
}

// Upsert writes the account's session in one statement; the primary key on
// account_id serializes concurrent logins.
func (s *PostgresStore) Upsert(ctx context.Context, accountID uuid.UUID, token string, now time.Time) (time.Time, error) {
	var lastUsed time.Time
	err := s.db.QueryRow(ctx, `
		INSERT INTO auth_sessions (account_id, token, last_used)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id) DO UPDATE
		SET token = EXCLUDED.token,
		    last_used = EXCLUDED.last_used
		RETURNING last_used
	`, accountID, token, now.UTC()).Scan(&lastUsed)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return time.Time{}, fmt.Errorf("%w: %s", ErrUnknownAccount, accountID)
		}
		return time.Time{}, err
	}
	return lastUsed, nil
}

// Find looks up the row matching both account and token.
func (s *PostgresStore) Find(ctx context.Context, accountID uuid.UUID, token string) (time.Time, bool, error) {
	var lastUsed time.Time
	err := s.db.QueryRow(ctx, `
		SELECT last_used
		FROM auth_sessions
		WHERE account_id = $1 AND token = $2
	`, accountID, token).Scan(&lastUsed)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return lastUsed, true, nil
}

// Delete removes the account's session (idempotent).
func (s *PostgresStore) Delete(ctx context.Context, accountID uuid.UUID) error {
	_, err := s.db.Exec(ctx, `DELETE FROM auth_sessions WHERE account_id = $1`, accountID)
	return err
}
