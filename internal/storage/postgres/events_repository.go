package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gatherhub/server/internal/domain"
	"github.com/gatherhub/server/internal/domain/events"
)

var _ events.Repository = (*EventRepository)(nil)

const eventColumns = `
e.id, e.title, e.annotation, e.description, e.event_date, e.paid,
e.participant_limit, e.request_moderation, e.state, e.created_on,
e.published_on, e.confirmed_requests, e.initiator_id, u.name,
c.id, c.name, l.id, l.lat, l.lon`

const eventFrom = `
  FROM events e
  JOIN users u ON u.id = e.initiator_id
  JOIN categories c ON c.id = e.category_id
  JOIN locations l ON l.id = e.location_id`

func scanEvent(row pgx.Row) (*events.Event, error) {
	var event events.Event
	var publishedOn *time.Time
	if err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Annotation,
		&event.Description,
		&event.EventDate,
		&event.Paid,
		&event.ParticipantLimit,
		&event.RequestModeration,
		&event.State,
		&event.CreatedOn,
		&publishedOn,
		&event.ConfirmedRequests,
		&event.InitiatorID,
		&event.InitiatorName,
		&event.Category.ID,
		&event.Category.Name,
		&event.Location.ID,
		&event.Location.Lat,
		&event.Location.Lon,
	); err != nil {
		return nil, err
	}
	event.PublishedOn = publishedOn
	return &event, nil
}

func (r *EventRepository) Create(ctx context.Context, event *events.Event) (*events.Event, error) {
	err := q(ctx, r.pool).QueryRow(ctx, `
INSERT INTO events (title, annotation, description, category_id, initiator_id,
                    location_id, event_date, paid, participant_limit,
                    request_moderation, state, created_on, confirmed_requests)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 0)
RETURNING id`,
		event.Title,
		event.Annotation,
		event.Description,
		event.Category.ID,
		event.InitiatorID,
		event.Location.ID,
		event.EventDate,
		event.Paid,
		event.ParticipantLimit,
		event.RequestModeration,
		event.State,
		event.CreatedOn,
	).Scan(&event.ID)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) Save(ctx context.Context, event *events.Event) error {
	tag, err := q(ctx, r.pool).Exec(ctx, `
UPDATE events
   SET title = $2, annotation = $3, description = $4, category_id = $5,
       location_id = $6, event_date = $7, paid = $8, participant_limit = $9,
       request_moderation = $10, state = $11, published_on = $12,
       confirmed_requests = $13
 WHERE id = $1`,
		event.ID,
		event.Title,
		event.Annotation,
		event.Description,
		event.Category.ID,
		event.Location.ID,
		event.EventDate,
		event.Paid,
		event.ParticipantLimit,
		event.RequestModeration,
		event.State,
		event.PublishedOn,
		event.ConfirmedRequests,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("event %d does not exist", event.ID)
	}
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*events.Event, error) {
	row := q(ctx, r.pool).QueryRow(ctx, `SELECT`+eventColumns+eventFrom+` WHERE e.id = $1`, id)
	event, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFoundf("event %d does not exist", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) GetByIDAndInitiator(ctx context.Context, id, initiatorID int64) (*events.Event, error) {
	row := q(ctx, r.pool).QueryRow(ctx,
		`SELECT`+eventColumns+eventFrom+` WHERE e.id = $1 AND e.initiator_id = $2`, id, initiatorID)
	event, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFoundf("event %d with initiator %d does not exist", id, initiatorID)
	}
	if err != nil {
		return nil, fmt.Errorf("get event by initiator: %w", err)
	}
	return event, nil
}

func (r *EventRepository) GetByIDs(ctx context.Context, ids []int64) ([]events.Event, error) {
	if len(ids) == 0 {
		return []events.Event{}, nil
	}
	rows, err := q(ctx, r.pool).Query(ctx,
		`SELECT`+eventColumns+eventFrom+` WHERE e.id = ANY($1::bigint[]) ORDER BY e.id ASC`, ids)
	if err != nil {
		return nil, fmt.Errorf("get events by ids: %w", err)
	}
	return collectEvents(rows)
}

func (r *EventRepository) List(ctx context.Context, filters events.Filters, page events.Page) ([]events.Event, error) {
	var categoryArray any
	if len(filters.Categories) > 0 {
		categoryArray = filters.Categories
	}

	rows, err := q(ctx, r.pool).Query(ctx, `
SELECT`+eventColumns+eventFrom+`
 WHERE e.state = $1
   AND ($2 = '' OR e.annotation ILIKE '%' || $2 || '%' OR e.description ILIKE '%' || $2 || '%')
   AND (coalesce(cardinality($3::bigint[]), 0) = 0 OR e.category_id = ANY($3::bigint[]))
   AND ($4::boolean IS NULL OR e.paid = $4::boolean)
   AND ($5::timestamptz IS NULL OR e.event_date >= $5::timestamptz)
   AND ($6::timestamptz IS NULL OR e.event_date <= $6::timestamptz)
   AND (NOT $7::boolean OR e.participant_limit = 0 OR e.confirmed_requests < e.participant_limit)
 ORDER BY e.event_date DESC, e.id ASC
 LIMIT $8 OFFSET $9`,
		events.StatePublished,
		filters.Text,
		categoryArray,
		filters.Paid,
		filters.RangeStart,
		filters.RangeEnd,
		filters.OnlyAvailable,
		page.Size,
		page.From,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return collectEvents(rows)
}

func (r *EventRepository) ListAdmin(ctx context.Context, filters events.AdminFilters, page events.Page) ([]events.Event, error) {
	var userArray, stateArray, categoryArray any
	if len(filters.Users) > 0 {
		userArray = filters.Users
	}
	if len(filters.States) > 0 {
		states := make([]string, 0, len(filters.States))
		for _, state := range filters.States {
			states = append(states, string(state))
		}
		stateArray = states
	}
	if len(filters.Categories) > 0 {
		categoryArray = filters.Categories
	}

	rows, err := q(ctx, r.pool).Query(ctx, `
SELECT`+eventColumns+eventFrom+`
 WHERE (coalesce(cardinality($1::bigint[]), 0) = 0 OR e.initiator_id = ANY($1::bigint[]))
   AND (coalesce(cardinality($2::text[]), 0) = 0 OR e.state = ANY($2::text[]))
   AND (coalesce(cardinality($3::bigint[]), 0) = 0 OR e.category_id = ANY($3::bigint[]))
   AND ($4::timestamptz IS NULL OR e.event_date >= $4::timestamptz)
   AND ($5::timestamptz IS NULL OR e.event_date <= $5::timestamptz)
 ORDER BY e.id ASC
 LIMIT $6 OFFSET $7`,
		userArray,
		stateArray,
		categoryArray,
		filters.RangeStart,
		filters.RangeEnd,
		page.Size,
		page.From,
	)
	if err != nil {
		return nil, fmt.Errorf("list events admin: %w", err)
	}
	return collectEvents(rows)
}

func (r *EventRepository) ListByInitiator(ctx context.Context, initiatorID int64, page events.Page) ([]events.Event, error) {
	rows, err := q(ctx, r.pool).Query(ctx, `
SELECT`+eventColumns+eventFrom+`
 WHERE e.initiator_id = $1
 ORDER BY e.id ASC
 LIMIT $2 OFFSET $3`,
		initiatorID, page.Size, page.From)
	if err != nil {
		return nil, fmt.Errorf("list events by initiator: %w", err)
	}
	return collectEvents(rows)
}

func collectEvents(rows pgx.Rows) ([]events.Event, error) {
	defer rows.Close()
	items := []events.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		items = append(items, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return items, nil
}
