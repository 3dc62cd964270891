package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatherhub/server/internal/auth"
	"github.com/gatherhub/server/internal/domain"
)

var _ auth.AdminAccounts = (*AdminRepository)(nil)

type AdminRepository struct {
	pool *pgxpool.Pool
}

func (r *Repository) Admins() *AdminRepository {
	return &AdminRepository{pool: r.pool}
}

func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*auth.AdminAccount, error) {
	var account auth.AdminAccount
	err := q(ctx, r.pool).QueryRow(ctx,
		`SELECT id, username, password_hash FROM admin_accounts WHERE username = $1`, username).
		Scan(&account.ID, &account.Username, &account.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFoundf("admin account %q does not exist", username)
	}
	if err != nil {
		return nil, fmt.Errorf("get admin account: %w", err)
	}
	return &account, nil
}

func (r *AdminRepository) Create(ctx context.Context, username, passwordHash string) error {
	_, err := q(ctx, r.pool).Exec(ctx,
		`INSERT INTO admin_accounts (username, password_hash) VALUES ($1, $2)
		 ON CONFLICT (username) DO NOTHING`,
		username, passwordHash)
	if err != nil {
		return fmt.Errorf("insert admin account: %w", err)
	}
	return nil
}
