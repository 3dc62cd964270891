package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gatherhub/server/internal/domain"
	"github.com/gatherhub/server/internal/domain/events"
	"github.com/gatherhub/server/internal/domain/users"
)

var (
	_ users.Repository   = (*UserRepository)(nil)
	_ events.UserChecker = (*UserRepository)(nil)
)

func (r *UserRepository) Create(ctx context.Context, name, email string) (*users.User, error) {
	user := users.User{Name: name, Email: email}
	err := q(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO users (name, email) VALUES ($1, $2) RETURNING id`, name, email).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Conflictf("user with email %q already exists", email)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*users.User, error) {
	var user users.User
	err := q(ctx, r.pool).QueryRow(ctx,
		`SELECT id, name, email FROM users WHERE id = $1`, id).Scan(&user.ID, &user.Name, &user.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFoundf("user %d does not exist", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context, ids []int64, page events.Page) ([]users.User, error) {
	var idArray any
	if len(ids) > 0 {
		idArray = ids
	}
	rows, err := q(ctx, r.pool).Query(ctx, `
SELECT id, name, email
  FROM users
 WHERE (coalesce(cardinality($1::bigint[]), 0) = 0 OR id = ANY($1::bigint[]))
 ORDER BY id ASC
 LIMIT $2 OFFSET $3`,
		idArray, page.Size, page.From)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	items := []users.User{}
	for rows.Next() {
		var user users.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		items = append(items, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return items, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := q(ctx, r.pool).Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("user %d does not exist", id)
	}
	return nil
}

// EnsureUser verifies a user reference for the domain services.
func (r *UserRepository) EnsureUser(ctx context.Context, id int64) error {
	_, err := r.GetByID(ctx, id)
	return err
}
