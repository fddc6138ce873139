package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vrme/cmd/internal/auth/session"
	"vrme/cmd/security/password"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store over the accounts table.
// The pgx pool is owned by the caller; this store never closes it.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("identity: nil pool")
	}
	return &PostgresStore{pool: pool}, nil
}

const accountColumns = `id, first_name, last_name, email, password_iterations, password_salt, password_hash, created_at`

func (s *PostgresStore) Create(ctx context.Context, in NewAccount) (Account, error) {
	const op = "identity.Create"

	if in.ID == uuid.Nil {
		return Account{}, invalid(op, "id is required")
	}
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO accounts (
			id, first_name, last_name, email,
			password_iterations, password_salt, password_hash, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+accountColumns,
		in.ID, in.FirstName, in.LastName, in.Email,
		in.Credential.Iterations, in.Credential.Salt, in.Credential.Hash, now.UTC(),
	)
	acc, err := scanAccount(row)
	if err != nil {
		if field, ok := pgClassifyUniqueViolation(err); ok {
			return Account{}, ConflictError{Op: op, Field: field}
		}
		return Account{}, fmt.Errorf("%s: %w", op, err)
	}
	return acc, nil
}

func (s *PostgresStore) ByEmail(ctx context.Context, email string) (Account, error) {
	const op = "identity.ByEmail"

	row := s.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
	acc, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, NotFoundError{Op: op, Resource: "account"}
	}
	if err != nil {
		return Account{}, fmt.Errorf("%s: %w", op, err)
	}
	return acc, nil
}

func (s *PostgresStore) ByID(ctx context.Context, id uuid.UUID) (Account, error) {
	const op = "identity.ByID"

	row := s.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	acc, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, NotFoundError{Op: op, Resource: "account"}
	}
	if err != nil {
		return Account{}, fmt.Errorf("%s: %w", op, err)
	}
	return acc, nil
}

// Delete removes the session row and then the account in one transaction.
func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "identity.Delete"

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := session.NewPostgresStore(tx).Delete(ctx, id); err != nil {
		return fmt.Errorf("%s: session: %w", op, err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return NotFoundError{Op: op, Resource: "account"}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}

func scanAccount(row pgx.Row) (Account, error) {
	var (
		acc  Account
		cred password.HashedPassword
	)
	err := row.Scan(
		&acc.ID,
		&acc.FirstName,
		&acc.LastName,
		&acc.Email,
		&cred.Iterations,
		&cred.Salt,
		&cred.Hash,
		&acc.CreatedAt,
	)
	if err != nil {
		return Account{}, err
	}
	acc.Credential = cred
	return acc, nil
}

func pgClassifyUniqueViolation(err error) (field string, ok bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return "", false
	}

	c := strings.ToLower(strings.TrimSpace(pgErr.ConstraintName))
	switch {
	case c == "accounts_email_key" || strings.Contains(c, "email"):
		return "email", true
	case c == "accounts_pkey":
		return "id", true
	default:
		return "unique", true
	}
}
