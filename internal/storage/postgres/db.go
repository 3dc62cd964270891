package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository bundles the per-aggregate repositories over one pool.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) (*Repository, error) {
	if pool == nil {
		return nil, fmt.Errorf("postgres repository: pool is nil")
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) Events() *EventRepository {
	return &EventRepository{pool: r.pool}
}

func (r *Repository) Requests() *RequestRepository {
	return &RequestRepository{pool: r.pool}
}

func (r *Repository) Categories() *CategoryRepository {
	return &CategoryRepository{pool: r.pool}
}

func (r *Repository) Users() *UserRepository {
	return &UserRepository{pool: r.pool}
}

func (r *Repository) Locations() *LocationRepository {
	return &LocationRepository{pool: r.pool}
}

func (r *Repository) Compilations() *CompilationRepository {
	return &CompilationRepository{pool: r.pool}
}

// InTx runs fn inside a single transaction. Repository calls made with the
// context passed to fn share that transaction; nested calls reuse it.
func (r *Repository) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	txCtx := context.WithValue(ctx, txKey{}, tx)
	if err := fn(txCtx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type EventRepository struct {
	pool *pgxpool.Pool
}

type RequestRepository struct {
	pool *pgxpool.Pool
}

type CategoryRepository struct {
	pool *pgxpool.Pool
}

type UserRepository struct {
	pool *pgxpool.Pool
}

type LocationRepository struct {
	pool *pgxpool.Pool
}

type CompilationRepository struct {
	pool *pgxpool.Pool
}
