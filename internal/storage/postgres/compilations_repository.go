package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gatherhub/server/internal/domain"
	"github.com/gatherhub/server/internal/domain/compilations"
	"github.com/gatherhub/server/internal/domain/events"
)

var _ compilations.Repository = (*CompilationRepository)(nil)

func (r *CompilationRepository) Create(ctx context.Context, compilation *compilations.Compilation) (*compilations.Compilation, error) {
	queryer := q(ctx, r.pool)
	err := queryer.QueryRow(ctx,
		`INSERT INTO compilations (title, pinned) VALUES ($1, $2) RETURNING id`,
		compilation.Title, compilation.Pinned).Scan(&compilation.ID)
	if err != nil {
		return nil, fmt.Errorf("insert compilation: %w", err)
	}
	if err := r.replaceMembers(ctx, compilation.ID, compilation.Events); err != nil {
		return nil, err
	}
	return compilation, nil
}

func (r *CompilationRepository) Save(ctx context.Context, compilation *compilations.Compilation) error {
	tag, err := q(ctx, r.pool).Exec(ctx,
		`UPDATE compilations SET title = $2, pinned = $3 WHERE id = $1`,
		compilation.ID, compilation.Title, compilation.Pinned)
	if err != nil {
		return fmt.Errorf("update compilation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("compilation %d does not exist", compilation.ID)
	}
	return r.replaceMembers(ctx, compilation.ID, compilation.Events)
}

func (r *CompilationRepository) GetByID(ctx context.Context, id int64) (*compilations.Compilation, error) {
	var compilation compilations.Compilation
	err := q(ctx, r.pool).QueryRow(ctx,
		`SELECT id, title, pinned FROM compilations WHERE id = $1`, id).
		Scan(&compilation.ID, &compilation.Title, &compilation.Pinned)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFoundf("compilation %d does not exist", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get compilation: %w", err)
	}

	members, err := r.members(ctx, id)
	if err != nil {
		return nil, err
	}
	compilation.Events = members
	return &compilation, nil
}

func (r *CompilationRepository) List(ctx context.Context, pinned *bool, page events.Page) ([]compilations.Compilation, error) {
	rows, err := q(ctx, r.pool).Query(ctx, `
SELECT id, title, pinned
  FROM compilations
 WHERE ($1::boolean IS NULL OR pinned = $1::boolean)
 ORDER BY id ASC
 LIMIT $2 OFFSET $3`,
		pinned, page.Size, page.From)
	if err != nil {
		return nil, fmt.Errorf("list compilations: %w", err)
	}
	defer rows.Close()

	items := []compilations.Compilation{}
	for rows.Next() {
		var compilation compilations.Compilation
		if err := rows.Scan(&compilation.ID, &compilation.Title, &compilation.Pinned); err != nil {
			return nil, fmt.Errorf("scan compilation: %w", err)
		}
		items = append(items, compilation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate compilations: %w", err)
	}

	for i := range items {
		members, err := r.members(ctx, items[i].ID)
		if err != nil {
			return nil, err
		}
		items[i].Events = members
	}
	return items, nil
}

func (r *CompilationRepository) Delete(ctx context.Context, id int64) error {
	tag, err := q(ctx, r.pool).Exec(ctx, `DELETE FROM compilations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete compilation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("compilation %d does not exist", id)
	}
	return nil
}

func (r *CompilationRepository) replaceMembers(ctx context.Context, compilationID int64, members []events.Event) error {
	queryer := q(ctx, r.pool)
	if _, err := queryer.Exec(ctx,
		`DELETE FROM compilation_events WHERE compilation_id = $1`, compilationID); err != nil {
		return fmt.Errorf("clear compilation members: %w", err)
	}
	for _, event := range members {
		if _, err := queryer.Exec(ctx,
			`INSERT INTO compilation_events (compilation_id, event_id) VALUES ($1, $2)`,
			compilationID, event.ID); err != nil {
			return fmt.Errorf("add compilation member: %w", err)
		}
	}
	return nil
}

func (r *CompilationRepository) members(ctx context.Context, compilationID int64) ([]events.Event, error) {
	rows, err := q(ctx, r.pool).Query(ctx, `
SELECT`+eventColumns+eventFrom+`
  JOIN compilation_events ce ON ce.event_id = e.id
 WHERE ce.compilation_id = $1
 ORDER BY e.id ASC`, compilationID)
	if err != nil {
		return nil, fmt.Errorf("list compilation members: %w", err)
	}
	return collectEvents(rows)
}
