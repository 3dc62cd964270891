package events

import "context"

// Repository is the persistence contract for events. List results are
// sorted descending by event date; ListAdmin and ListByInitiator ascending
// by id. Implementations return domain.NotFoundError for absent rows.
type Repository interface {
	Create(ctx context.Context, event *Event) (*Event, error)
	Save(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	GetByIDAndInitiator(ctx context.Context, id, initiatorID int64) (*Event, error)
	GetByIDs(ctx context.Context, ids []int64) ([]Event, error)
	List(ctx context.Context, filters Filters, page Page) ([]Event, error)
	ListAdmin(ctx context.Context, filters AdminFilters, page Page) ([]Event, error)
	ListByInitiator(ctx context.Context, initiatorID int64, page Page) ([]Event, error)
}

// CategoryResolver checks category references on create/update.
type CategoryResolver interface {
	GetCategory(ctx context.Context, id int64) (*Category, error)
}

// LocationResolver returns the location with the given coordinates,
// creating it when no exact match exists.
type LocationResolver interface {
	PrepareLocation(ctx context.Context, lat, lon float64) (Location, error)
}

// UserChecker verifies that a referenced user exists.
type UserChecker interface {
	EnsureUser(ctx context.Context, id int64) error
}

// Tx runs fn within a single unit of work. Repository calls made with the
// context passed to fn commit or roll back together.
type Tx interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
