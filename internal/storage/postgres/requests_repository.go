package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gatherhub/server/internal/domain"
	"github.com/gatherhub/server/internal/domain/requests"
)

var _ requests.Repository = (*RequestRepository)(nil)

const requestColumns = `id, event_id, requester_id, created, status`

func scanRequest(row pgx.Row) (*requests.Request, error) {
	var request requests.Request
	if err := row.Scan(
		&request.ID,
		&request.EventID,
		&request.RequesterID,
		&request.Created,
		&request.Status,
	); err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *RequestRepository) Create(ctx context.Context, request *requests.Request) (*requests.Request, error) {
	err := q(ctx, r.pool).QueryRow(ctx, `
INSERT INTO participation_requests (event_id, requester_id, created, status)
VALUES ($1, $2, $3, $4)
RETURNING id`,
		request.EventID,
		request.RequesterID,
		request.Created,
		request.Status,
	).Scan(&request.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Conflictf("user %d already has a request for event %d", request.RequesterID, request.EventID)
		}
		return nil, fmt.Errorf("insert request: %w", err)
	}
	return request, nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*requests.Request, error) {
	row := q(ctx, r.pool).QueryRow(ctx,
		`SELECT `+requestColumns+` FROM participation_requests WHERE id = $1`, id)
	request, err := scanRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFoundf("request %d does not exist", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	return request, nil
}

func (r *RequestRepository) FindActiveByRequesterAndEvent(ctx context.Context, requesterID, eventID int64) (*requests.Request, error) {
	row := q(ctx, r.pool).QueryRow(ctx, `
SELECT `+requestColumns+`
  FROM participation_requests
 WHERE requester_id = $1 AND event_id = $2 AND status <> $3`,
		requesterID, eventID, requests.StatusCanceled)
	request, err := scanRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFoundf("no active request by user %d for event %d", requesterID, eventID)
	}
	if err != nil {
		return nil, fmt.Errorf("find active request: %w", err)
	}
	return request, nil
}

func (r *RequestRepository) ListByRequester(ctx context.Context, requesterID int64) ([]requests.Request, error) {
	rows, err := q(ctx, r.pool).Query(ctx, `
SELECT `+requestColumns+`
  FROM participation_requests
 WHERE requester_id = $1
 ORDER BY id ASC`, requesterID)
	if err != nil {
		return nil, fmt.Errorf("list requests by requester: %w", err)
	}
	return collectRequests(rows)
}

func (r *RequestRepository) ListByEvent(ctx context.Context, eventID int64) ([]requests.Request, error) {
	rows, err := q(ctx, r.pool).Query(ctx, `
SELECT `+requestColumns+`
  FROM participation_requests
 WHERE event_id = $1
 ORDER BY id ASC`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list requests by event: %w", err)
	}
	return collectRequests(rows)
}

func (r *RequestRepository) ListPendingByEventAndIDs(ctx context.Context, eventID int64, ids []int64) ([]requests.Request, error) {
	if len(ids) == 0 {
		return []requests.Request{}, nil
	}
	rows, err := q(ctx, r.pool).Query(ctx, `
SELECT `+requestColumns+`
  FROM participation_requests
 WHERE event_id = $1 AND id = ANY($2::bigint[]) AND status = $3
 ORDER BY id ASC`,
		eventID, ids, requests.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending requests: %w", err)
	}
	return collectRequests(rows)
}

func (r *RequestRepository) SaveAll(ctx context.Context, items []requests.Request) error {
	queryer := q(ctx, r.pool)
	for _, request := range items {
		tag, err := queryer.Exec(ctx,
			`UPDATE participation_requests SET status = $2 WHERE id = $1`,
			request.ID, request.Status)
		if err != nil {
			return fmt.Errorf("update request %d: %w", request.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return domain.NotFoundf("request %d does not exist", request.ID)
		}
	}
	return nil
}

func collectRequests(rows pgx.Rows) ([]requests.Request, error) {
	defer rows.Close()
	items := []requests.Request{}
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		items = append(items, *request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate requests: %w", err)
	}
	return items, nil
}
