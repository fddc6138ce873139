package identity

import (
	"bytes"
	"testing"
	"time"

	"vrme/cmd/identity/ids"
	"vrme/cmd/security/password"

	"github.com/stretchr/testify/require"
)

func testCredential() password.HashedPassword {
	return password.HashedPassword{
		Iterations: password.MinIterations,
		Salt:       bytes.Repeat([]byte{0x01}, password.SaltLength),
		Hash:       bytes.Repeat([]byte{0x02}, password.KeyLength),
	}
}

func newTestAccount(t *testing.T, email string) NewAccount {
	t.Helper()
	id, err := ids.NewAccountID()
	require.NoError(t, err)
	return NewAccount{
		ID:         id,
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Email:      NormalizeEmail(email),
		Credential: testCredential(),
		Now:        time.Now(),
	}
}
