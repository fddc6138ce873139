package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"vrme/cmd/identity"
	"vrme/cmd/internal/auth/mocks"
	"vrme/cmd/internal/auth/session"
	"vrme/cmd/internal/workpool"
	"vrme/cmd/security/password"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var errDB = errors.New("connection reset")

func newMockedService(t *testing.T) (*Service, *mocks.MockAccountStore, *mocks.MockSessionStore) {
	t.Helper()

	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountStore(ctrl)
	sessions := mocks.NewMockSessionStore(ctrl)
	pool := workpool.New(2, 4)
	t.Cleanup(pool.Close)

	svc, err := NewService(DefaultConfig(), accounts, sessions, pool, WithLogger(discardLogger()))
	require.NoError(t, err)
	return svc, accounts, sessions
}

func storedAccount(t *testing.T, pw string) identity.Account {
	t.Helper()
	h, err := password.NewHasher(password.DefaultConfig(), nil)
	require.NoError(t, err)
	ch, err := password.ParseClientHash(clientHash(pw))
	require.NoError(t, err)
	cred, err := h.Derive(ch)
	require.NoError(t, err)
	return identity.Account{
		ID:         uuid.New(),
		FirstName:  "Mock",
		LastName:   "User",
		Email:      "mock@example.com",
		Credential: cred,
	}
}

func TestLogin_SessionStoreFailureIsInternal(t *testing.T) {
	t.Parallel()

	svc, accounts, sessions := newMockedService(t)
	acc := storedAccount(t, "pw")

	accounts.EXPECT().ByEmail(gomock.Any(), "mock@example.com").Return(acc, nil)
	sessions.EXPECT().
		Upsert(gomock.Any(), acc.ID, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, tok string, now time.Time) (time.Time, error) {
			require.Len(t, tok, 44)
			return time.Time{}, errDB
		})

	_, err := svc.Login(context.Background(), LoginInput{Email: "Mock@Example.com", ClientHash: clientHash("pw")})
	requireKind(t, KindInternal, err)
	require.ErrorIs(t, err, errDB)
	require.Equal(t, "internal server error", Message(err))
}

func TestLogin_AccountLookupFailureIsInternal(t *testing.T) {
	t.Parallel()

	svc, accounts, _ := newMockedService(t)
	accounts.EXPECT().ByEmail(gomock.Any(), gomock.Any()).Return(identity.Account{}, errDB)

	_, err := svc.Login(context.Background(), LoginInput{Email: "x@example.com", ClientHash: clientHash("pw")})
	requireKind(t, KindInternal, err)
}

func TestLogin_WrongCredentialNeverTouchesSessions(t *testing.T) {
	t.Parallel()

	svc, accounts, _ := newMockedService(t)
	acc := storedAccount(t, "right")
	accounts.EXPECT().ByEmail(gomock.Any(), acc.Email).Return(acc, nil)

	_, err := svc.Login(context.Background(), LoginInput{Email: acc.Email, ClientHash: clientHash("wrong")})
	requireKind(t, KindUnauthorized, err)
}

func TestLogin_CancelledContext(t *testing.T) {
	t.Parallel()

	svc, accounts, _ := newMockedService(t)
	acc := storedAccount(t, "pw")
	accounts.EXPECT().ByEmail(gomock.Any(), acc.Email).Return(acc, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Login(ctx, LoginInput{Email: acc.Email, ClientHash: clientHash("pw")})
	requireKind(t, KindInternal, err)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRegister_StoreErrors(t *testing.T) {
	t.Parallel()

	svc, accounts, _ := newMockedService(t)

	accounts.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in identity.NewAccount) (identity.Account, error) {
			require.Equal(t, "new@example.com", in.Email)
			require.Equal(t, password.MinIterations, in.Credential.Iterations)
			require.NotEqual(t, uuid.Nil, in.ID)
			return identity.Account{}, identity.ConflictError{Op: "identity.Create", Field: "email"}
		})
	_, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "N", LastName: "E", Email: "New@example.com", ClientHash: clientHash("pw"),
	})
	requireKind(t, KindConflict, err)

	accounts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(identity.Account{}, errDB)
	_, err = svc.Register(context.Background(), RegisterInput{
		FirstName: "N", LastName: "E", Email: "new2@example.com", ClientHash: clientHash("pw"),
	})
	requireKind(t, KindInternal, err)
}

func TestLogout_StoreFailureIsInternal(t *testing.T) {
	t.Parallel()

	svc, _, sessions := newMockedService(t)
	id := uuid.New()
	sessions.EXPECT().Delete(gomock.Any(), id).Return(errDB)

	requireKind(t, KindInternal, svc.Logout(context.Background(), id))
}

func TestAuthenticate_LookupFailureIsInternal(t *testing.T) {
	t.Parallel()

	svc, _, sessions := newMockedService(t)
	id := uuid.New()
	tok := "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA="
	sessions.EXPECT().Find(gomock.Any(), id, tok).Return(time.Time{}, false, errDB)

	_, err := svc.Authenticate(context.Background(), "Bearer "+session.EncodePayload(id, tok))
	requireKind(t, KindInternal, err)
	require.ErrorIs(t, err, errDB)
}

func TestAuthenticate_MalformedPayloadSkipsStore(t *testing.T) {
	t.Parallel()

	// No expectations: any store call fails the test.
	svc, _, _ := newMockedService(t)

	_, err := svc.Authenticate(context.Background(), "Bearer "+session.EncodePayload(uuid.New(), "too-short"))
	requireKind(t, KindInvalidFormat, err)
}

type recordingMetrics struct {
	outcomes []string
	hashes   int
}

func (r *recordingMetrics) Outcome(op string, kind Kind) {
	r.outcomes = append(r.outcomes, op+":"+kind.String())
}

func (r *recordingMetrics) HashDuration(string, time.Duration) { r.hashes++ }

func TestService_ReportsMetrics(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountStore(ctrl)
	sessions := mocks.NewMockSessionStore(ctrl)
	pool := workpool.New(1, 1)
	t.Cleanup(pool.Close)

	m := &recordingMetrics{}
	svc, err := NewService(DefaultConfig(), accounts, sessions, pool, WithLogger(discardLogger()), WithMetrics(m))
	require.NoError(t, err)

	accounts.EXPECT().ByEmail(gomock.Any(), gomock.Any()).Return(identity.Account{}, identity.NotFoundError{Op: "identity.ByEmail"})
	_, err = svc.Login(context.Background(), LoginInput{Email: "ghost@example.com", ClientHash: clientHash("pw")})
	requireKind(t, KindUnauthorized, err)

	require.Equal(t, []string{"auth.Login:unauthorized"}, m.outcomes)
	require.Equal(t, 1, m.hashes, "dummy verify must still run")
}
