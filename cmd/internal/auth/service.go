package auth

import (
	"context"
	"crypto/sha256"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"vrme/cmd/identity"
	"vrme/cmd/identity/ids"
	"vrme/cmd/internal/auth/session"
	"vrme/cmd/internal/workpool"
	"vrme/cmd/security/password"
	"vrme/cmd/security/token"

	"github.com/google/uuid"
)

// Service implements the account and session operations.
// It is safe for concurrent use.
type Service struct {
	cfg Config
	log *slog.Logger

	accounts  identity.Store
	sessions  session.Store
	validator *session.Validator
	hasher    *password.Hasher
	tokens    *token.Generator
	pool      *workpool.Pool
	metrics   Metrics
	now       session.Clock
	rand      io.Reader

	// dummy is verified against when a login names an unknown email.
	dummy password.HashedPassword
}

// Option configures optional Service dependencies.
type Option func(*Service)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides time.Now for session timestamps and expiry checks.
func WithClock(clock session.Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithRand overrides the CSPRNG used for salts and tokens.
func WithRand(r io.Reader) Option {
	return func(s *Service) {
		if r != nil {
			s.rand = r
		}
	}
}

// WithMetrics installs an outcome/latency sink.
func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// NewService validates cfg and builds the hasher, token generator and
// validator from it. pool runs all hashing and token generation.
func NewService(cfg Config, accounts identity.Store, sessions session.Store, pool *workpool.Pool, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if accounts == nil || sessions == nil || pool == nil {
		return nil, errors.New("auth: nil dependency")
	}

	s := &Service{
		cfg:      cfg,
		log:      slog.Default(),
		accounts: accounts,
		sessions: sessions,
		pool:     pool,
		metrics:  nopMetrics{},
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	hasher, err := password.NewHasher(cfg.Password, s.rand)
	if err != nil {
		return nil, err
	}
	s.hasher = hasher
	s.tokens = token.NewGenerator(s.rand)

	validator, err := session.NewValidator(cfg.Session, sessions, s.now)
	if err != nil {
		return nil, err
	}
	s.validator = validator

	// Derived once so unknown-email logins cost the same as real ones.
	dummyInput := sha256.Sum256([]byte("vrme.login.dummy"))
	s.dummy, err = hasher.Derive(dummyInput[:])
	if err != nil {
		return nil, err
	}

	return s, nil
}

// RegisterInput is a registration request as received from the client.
type RegisterInput struct {
	FirstName  string
	LastName   string
	Email      string
	ClientHash string
}

// LoginInput is a login request as received from the client.
type LoginInput struct {
	Email      string
	ClientHash string
}

// LoginResult carries the new session's token in its 44-char text form.
type LoginResult struct {
	AccountID uuid.UUID
	AuthToken string
}

// Bearer returns the Authorization value a client presents with this login.
func (r LoginResult) Bearer() string {
	return session.EncodePayload(r.AccountID, r.AuthToken)
}

// Profile is the account data visible to its owner.
type Profile struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Email     string
}

// Register creates an account. The credential is derived on the worker pool.
func (s *Service) Register(ctx context.Context, in RegisterInput) (id uuid.UUID, err error) {
	const op = "auth.Register"
	defer func() { s.metrics.Outcome(op, KindOf(err)) }()

	clientHash, err := password.ParseClientHash(in.ClientHash)
	if err != nil {
		return uuid.Nil, newError(op, KindInvalidInput, "client_hash must be base64 of 32 bytes", err)
	}

	first := identity.NormalizeName(in.FirstName)
	last := identity.NormalizeName(in.LastName)
	email := identity.NormalizeEmail(in.Email)
	for _, check := range []error{
		identity.ValidateName("first_name", first),
		identity.ValidateName("last_name", last),
		identity.ValidateEmail(email),
	} {
		if check != nil {
			return uuid.Nil, fromIdentity(op, check)
		}
	}

	cred, err := s.derive(ctx, op, clientHash)
	if err != nil {
		return uuid.Nil, err
	}

	id, err = ids.NewAccountID()
	if err != nil {
		return uuid.Nil, internal(op, err)
	}

	acc, err := s.accounts.Create(ctx, identity.NewAccount{
		ID:         id,
		FirstName:  first,
		LastName:   last,
		Email:      email,
		Credential: cred,
		Now:        s.now(),
	})
	if err != nil {
		if !identity.IsConflict(err) {
			s.log.Error("auth.register.fail", "err", err)
		}
		return uuid.Nil, fromIdentity(op, err)
	}

	s.log.Info("auth.register.ok", "account_id", acc.ID)
	return acc.ID, nil
}

// Login verifies the credential and replaces the account's session with a
// fresh token. Unknown email and wrong credential are indistinguishable.
func (s *Service) Login(ctx context.Context, in LoginInput) (res LoginResult, err error) {
	const op = "auth.Login"
	defer func() { s.metrics.Outcome(op, KindOf(err)) }()

	clientHash, err := password.ParseClientHash(in.ClientHash)
	if err != nil {
		return LoginResult{}, newError(op, KindInvalidInput, "client_hash must be base64 of 32 bytes", err)
	}
	email := identity.NormalizeEmail(in.Email)
	if email == "" {
		return LoginResult{}, newError(op, KindInvalidInput, "email is required", nil)
	}

	acc, err := s.accounts.ByEmail(ctx, email)
	switch {
	case identity.IsNotFound(err):
		_, _ = s.verify(ctx, op, clientHash, s.dummy)
		s.log.Info("auth.login.fail", "reason", "not_found")
		return LoginResult{}, newError(op, KindUnauthorized, "invalid email or password", nil)
	case err != nil:
		s.log.Error("auth.login.lookup.fail", "err", err)
		return LoginResult{}, internal(op, err)
	}

	ok, err := s.verify(ctx, op, clientHash, acc.Credential)
	if err != nil {
		return LoginResult{}, err
	}
	if !ok {
		s.log.Info("auth.login.fail", "reason", "bad_credential", "account_id", acc.ID)
		return LoginResult{}, newError(op, KindUnauthorized, "invalid email or password", nil)
	}

	tok, err := workpool.Do(ctx, s.pool, s.tokens.Generate)
	if err != nil {
		if isPoolErr(err) {
			return LoginResult{}, fromPool(op, err)
		}
		s.log.Error("auth.login.token.fail", "err", err)
		return LoginResult{}, internal(op, err)
	}
	text := tok.String()

	if _, err := s.sessions.Upsert(ctx, acc.ID, text, s.now()); err != nil {
		if errors.Is(err, session.ErrUnknownAccount) {
			s.log.Info("auth.login.fail", "reason", "account_deleted", "account_id", acc.ID)
			return LoginResult{}, newError(op, KindUnauthorized, "invalid email or password", nil)
		}
		s.log.Error("auth.login.session.fail", "err", err, "account_id", acc.ID)
		return LoginResult{}, internal(op, err)
	}

	s.log.Info("auth.login.ok", "account_id", acc.ID)
	return LoginResult{AccountID: acc.ID, AuthToken: text}, nil
}

// Logout removes the account's session. Logging out twice is not an error.
func (s *Service) Logout(ctx context.Context, accountID uuid.UUID) (err error) {
	const op = "auth.Logout"
	defer func() { s.metrics.Outcome(op, KindOf(err)) }()

	if err := s.sessions.Delete(ctx, accountID); err != nil {
		s.log.Error("auth.logout.fail", "err", err, "account_id", accountID)
		return internal(op, err)
	}
	s.log.Info("auth.logout.ok", "account_id", accountID)
	return nil
}

// Authenticate checks an Authorization header value and returns the account it names.
func (s *Service) Authenticate(ctx context.Context, header string) (id uuid.UUID, err error) {
	const op = "auth.Authenticate"
	defer func() { s.metrics.Outcome(op, KindOf(err)) }()

	raw, ok := BearerValue(header)
	if !ok {
		return uuid.Nil, newError(op, KindMissingCredentials, "missing bearer credentials", nil)
	}

	p, err := s.validator.Validate(ctx, raw)
	if err != nil {
		if session.KindOf(err) == session.KindInternal {
			s.log.Error("auth.authenticate.fail", "err", err)
		}
		return uuid.Nil, fromSession(op, err)
	}
	return p.AccountID, nil
}

// AccountInfo returns the public names on an account.
func (s *Service) AccountInfo(ctx context.Context, id uuid.UUID) (Profile, error) {
	const op = "auth.AccountInfo"

	acc, err := s.accounts.ByID(ctx, id)
	if err != nil {
		return Profile{}, fromIdentity(op, err)
	}
	return Profile{ID: acc.ID, FirstName: acc.FirstName, LastName: acc.LastName}, nil
}

// Me returns the caller's own profile, including email.
func (s *Service) Me(ctx context.Context, id uuid.UUID) (Profile, error) {
	const op = "auth.Me"

	acc, err := s.accounts.ByID(ctx, id)
	if err != nil {
		return Profile{}, fromIdentity(op, err)
	}
	return Profile{ID: acc.ID, FirstName: acc.FirstName, LastName: acc.LastName, Email: acc.Email}, nil
}

// AccountIDByEmail resolves an email to its account ID.
func (s *Service) AccountIDByEmail(ctx context.Context, email string) (uuid.UUID, error) {
	const op = "auth.AccountIDByEmail"

	email = identity.NormalizeEmail(email)
	if email == "" {
		return uuid.Nil, newError(op, KindInvalidInput, "email is required", nil)
	}
	acc, err := s.accounts.ByEmail(ctx, email)
	if err != nil {
		return uuid.Nil, fromIdentity(op, err)
	}
	return acc.ID, nil
}

// DeleteAccount removes the account and its session.
func (s *Service) DeleteAccount(ctx context.Context, id uuid.UUID) (err error) {
	const op = "auth.DeleteAccount"
	defer func() { s.metrics.Outcome(op, KindOf(err)) }()

	if err := s.accounts.Delete(ctx, id); err != nil {
		if !identity.IsNotFound(err) {
			s.log.Error("auth.delete_account.fail", "err", err, "account_id", id)
		}
		return fromIdentity(op, err)
	}
	s.log.Info("auth.delete_account.ok", "account_id", id)
	return nil
}

func (s *Service) derive(ctx context.Context, op string, clientHash password.ClientHash) (password.HashedPassword, error) {
	start := time.Now()
	cred, err := workpool.Do(ctx, s.pool, func() (password.HashedPassword, error) {
		return s.hasher.Derive(clientHash)
	})
	s.metrics.HashDuration(op, time.Since(start))
	if err != nil {
		if isPoolErr(err) {
			return password.HashedPassword{}, fromPool(op, err)
		}
		s.log.Error("auth.derive.fail", "err", err)
		return password.HashedPassword{}, internal(op, err)
	}
	return cred, nil
}

func (s *Service) verify(ctx context.Context, op string, clientHash password.ClientHash, stored password.HashedPassword) (bool, error) {
	start := time.Now()
	ok, err := workpool.Do(ctx, s.pool, func() (bool, error) {
		return s.hasher.VerifyStored(clientHash, stored)
	})
	s.metrics.HashDuration(op, time.Since(start))
	if err != nil {
		if isPoolErr(err) {
			return false, fromPool(op, err)
		}
		s.log.Error("auth.verify.fail", "err", err)
		return false, internal(op, err)
	}
	return ok, nil
}

func isPoolErr(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, workpool.ErrClosed)
}

// BearerValue extracts the credential from an Authorization header value.
// The scheme is matched case-insensitively.
func BearerValue(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}
	scheme, value, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}
