package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gatherhub/server/internal/domain"
	"github.com/gatherhub/server/internal/domain/categories"
	"github.com/gatherhub/server/internal/domain/events"
)

var (
	_ categories.Repository   = (*CategoryRepository)(nil)
	_ events.CategoryResolver = (*CategoryRepository)(nil)
)

func (r *CategoryRepository) Create(ctx context.Context, name string) (*categories.Category, error) {
	category := categories.Category{Name: name}
	err := q(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id`, name).Scan(&category.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Conflictf("category %q already exists", name)
		}
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return &category, nil
}

func (r *CategoryRepository) Save(ctx context.Context, category *categories.Category) error {
	tag, err := q(ctx, r.pool).Exec(ctx,
		`UPDATE categories SET name = $2 WHERE id = $1`, category.ID, category.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("category %q already exists", category.Name)
		}
		return fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("category %d does not exist", category.ID)
	}
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*categories.Category, error) {
	var category categories.Category
	err := q(ctx, r.pool).QueryRow(ctx,
		`SELECT id, name FROM categories WHERE id = $1`, id).Scan(&category.ID, &category.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFoundf("category %d does not exist", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &category, nil
}

func (r *CategoryRepository) List(ctx context.Context, page events.Page) ([]categories.Category, error) {
	rows, err := q(ctx, r.pool).Query(ctx,
		`SELECT id, name FROM categories ORDER BY id ASC LIMIT $1 OFFSET $2`, page.Size, page.From)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	items := []categories.Category{}
	for rows.Next() {
		var category categories.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return items, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	tag, err := q(ctx, r.pool).Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Conflictf("category %d is referenced by events", id)
		}
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("category %d does not exist", id)
	}
	return nil
}

// GetCategory resolves a category reference for the event lifecycle
// engine.
func (r *CategoryRepository) GetCategory(ctx context.Context, id int64) (*events.Category, error) {
	category, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &events.Category{ID: category.ID, Name: category.Name}, nil
}
