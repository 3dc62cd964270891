package requests

import (
	"context"
	"time"

	"github.com/gatherhub/server/internal/domain/events"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusRejected  Status = "REJECTED"
	StatusCanceled  Status = "CANCELED"
)

func ParseStatus(value string) (Status, bool) {
	switch Status(value) {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCanceled:
		return Status(value), true
	default:
		return "", false
	}
}

// Request is a user's ask to join an event, subject to moderation and
// capacity. At most one non-canceled request exists per (event, requester)
// pair.
type Request struct {
	ID          int64
	EventID     int64
	RequesterID int64
	Created     time.Time
	Status      Status
}

// BatchResult partitions the requests affected by a moderation batch.
type BatchResult struct {
	Confirmed []Request
	Rejected  []Request
}

// Repository is the persistence contract for participation requests.
// Implementations return domain.NotFoundError for absent rows.
type Repository interface {
	Create(ctx context.Context, request *Request) (*Request, error)
	GetByID(ctx context.Context, id int64) (*Request, error)
	// FindActiveByRequesterAndEvent returns the requester's non-canceled
	// request for the event, or domain.NotFoundError.
	FindActiveByRequesterAndEvent(ctx context.Context, requesterID, eventID int64) (*Request, error)
	ListByRequester(ctx context.Context, requesterID int64) ([]Request, error)
	ListByEvent(ctx context.Context, eventID int64) ([]Request, error)
	// ListPendingByEventAndIDs returns the PENDING subset of the given ids
	// for the event, ascending by id.
	ListPendingByEventAndIDs(ctx context.Context, eventID int64, ids []int64) ([]Request, error)
	SaveAll(ctx context.Context, items []Request) error
}

// EventStore is the slice of the event repository the request engine needs.
type EventStore interface {
	GetByID(ctx context.Context, id int64) (*events.Event, error)
	GetByIDAndInitiator(ctx context.Context, id, initiatorID int64) (*events.Event, error)
	Save(ctx context.Context, event *events.Event) error
}
