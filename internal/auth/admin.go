package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// AdminAccount is a credentialed operator of the /admin surface.
type AdminAccount struct {
	ID           int64
	Username     string
	PasswordHash string
}

// AdminAccounts is the persistence contract for admin credentials.
type AdminAccounts interface {
	GetByUsername(ctx context.Context, username string) (*AdminAccount, error)
	Create(ctx context.Context, username, passwordHash string) error
}

var ErrInvalidCredentials = errors.New("invalid credentials")

// AdminLogin verifies a username/password pair and mints an admin token.
type AdminLogin struct {
	accounts AdminAccounts
	tokens   *JWTManager
}

func NewAdminLogin(accounts AdminAccounts, tokens *JWTManager) *AdminLogin {
	return &AdminLogin{accounts: accounts, tokens: tokens}
}

func (l *AdminLogin) Login(ctx context.Context, username, password string) (string, error) {
	account, err := l.accounts.GetByUsername(ctx, username)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	return l.tokens.Generate(account.Username, RoleAdmin)
}

// Bootstrap creates the admin account if it does not exist yet.
func Bootstrap(ctx context.Context, accounts AdminAccounts, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return accounts.Create(ctx, username, string(hash))
}
