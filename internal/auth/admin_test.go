package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gatherhub/server/internal/domain"
)

type fakeAccounts struct {
	accounts map[string]*AdminAccount
}

func (f *fakeAccounts) GetByUsername(_ context.Context, username string) (*AdminAccount, error) {
	account, ok := f.accounts[username]
	if !ok {
		return nil, domain.NotFoundf("admin %q does not exist", username)
	}
	return account, nil
}

func (f *fakeAccounts) Create(_ context.Context, username, passwordHash string) error {
	if f.accounts == nil {
		f.accounts = make(map[string]*AdminAccount)
	}
	if _, ok := f.accounts[username]; ok {
		return nil
	}
	f.accounts[username] = &AdminAccount{ID: int64(len(f.accounts) + 1), Username: username, PasswordHash: passwordHash}
	return nil
}

func TestLoginMintsAdminToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	accounts := &fakeAccounts{accounts: map[string]*AdminAccount{
		"admin": {ID: 1, Username: "admin", PasswordHash: string(hash)},
	}}
	tokens := NewJWTManager("test-secret", time.Hour, "gatherhub")
	login := NewAdminLogin(accounts, tokens)

	token, err := login.Login(context.Background(), "admin", "s3cret")
	require.NoError(t, err)

	claims, err := tokens.Validate(token)
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, claims.Role)
	require.Equal(t, "admin", claims.Subject)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	accounts := &fakeAccounts{accounts: map[string]*AdminAccount{
		"admin": {ID: 1, Username: "admin", PasswordHash: string(hash)},
	}}
	login := NewAdminLogin(accounts, NewJWTManager("test-secret", time.Hour, "gatherhub"))

	_, err = login.Login(context.Background(), "admin", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsUnknownUser(t *testing.T) {
	login := NewAdminLogin(&fakeAccounts{}, NewJWTManager("test-secret", time.Hour, "gatherhub"))

	_, err := login.Login(context.Background(), "ghost", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestBootstrapSkipsBlankCredentials(t *testing.T) {
	accounts := &fakeAccounts{}
	require.NoError(t, Bootstrap(context.Background(), accounts, "", ""))
	require.Empty(t, accounts.accounts)
}

func TestBootstrapCreatesHashedAccount(t *testing.T) {
	accounts := &fakeAccounts{}
	require.NoError(t, Bootstrap(context.Background(), accounts, "admin", "s3cret"))

	account, err := accounts.GetByUsername(context.Background(), "admin")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", account.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("s3cret")))
}
