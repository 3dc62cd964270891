package requests

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gatherhub/server/internal/clock"
	"github.com/gatherhub/server/internal/domain"
	"github.com/gatherhub/server/internal/domain/events"
	"github.com/gatherhub/server/internal/metrics"
)

// Service owns the participation-request lifecycle and the confirmation
// algorithm that reconciles pending requests against an event's
// participant limit.
type Service struct {
	repo   Repository
	events EventStore
	users  events.UserChecker
	tx     events.Tx
	clock  clock.Clock
	logger zerolog.Logger
}

func NewService(repo Repository, eventStore EventStore, users events.UserChecker, tx events.Tx, clk clock.Clock, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		events: eventStore,
		users:  users,
		tx:     tx,
		clock:  clk,
		logger: logger,
	}
}

// Create registers userID's request to join eventID. On events without a
// participant limit or without moderation the request is confirmed
// immediately and the event counter is incremented in the same unit of
// work.
func (s *Service) Create(ctx context.Context, userID, eventID int64) (*Request, error) {
	if err := s.users.EnsureUser(ctx, userID); err != nil {
		return nil, err
	}

	var created *Request
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		event, err := s.events.GetByID(ctx, eventID)
		if err != nil {
			return err
		}
		if event.InitiatorID == userID {
			return domain.Conflictf("user %d cannot request participation in own event %d", userID, eventID)
		}
		if _, err := s.repo.FindActiveByRequesterAndEvent(ctx, userID, eventID); err == nil {
			return domain.Conflictf("user %d already has a request for event %d", userID, eventID)
		} else if !domain.IsNotFound(err) {
			return err
		}
		if event.State != events.StatePublished {
			return domain.Conflictf("event %d is not published", eventID)
		}
		if event.ParticipantLimit > 0 && event.ConfirmedRequests == event.ParticipantLimit {
			return domain.Conflictf("participant limit reached for event %d", eventID)
		}

		request := &Request{
			EventID:     eventID,
			RequesterID: userID,
			Created:     s.clock.Now(),
			Status:      StatusPending,
		}
		if event.ParticipantLimit == 0 || !event.RequestModeration {
			request.Status = StatusConfirmed
			event.ConfirmedRequests++
			if err := s.events.Save(ctx, event); err != nil {
				return err
			}
		}

		created, err = s.repo.Create(ctx, request)
		return err
	})
	if err != nil {
		return nil, err
	}

	if created.Status == StatusConfirmed {
		metrics.RequestsConfirmed.Inc()
	}
	s.logger.Info().
		Int64("request_id", created.ID).
		Int64("event_id", eventID).
		Int64("requester_id", userID).
		Str("status", string(created.Status)).
		Msg("participation request created")
	return created, nil
}

// Cancel sets the caller's request to CANCELED. Canceling a previously
// confirmed request releases its slot by decrementing the event counter.
func (s *Service) Cancel(ctx context.Context, userID, requestID int64) (*Request, error) {
	if err := s.users.EnsureUser(ctx, userID); err != nil {
		return nil, err
	}

	var canceled *Request
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		request, err := s.repo.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if request.RequesterID != userID {
			return domain.Conflictf("user %d cannot cancel request %d", userID, requestID)
		}

		wasConfirmed := request.Status == StatusConfirmed
		request.Status = StatusCanceled
		if err := s.repo.SaveAll(ctx, []Request{*request}); err != nil {
			return err
		}

		if wasConfirmed {
			event, err := s.events.GetByID(ctx, request.EventID)
			if err != nil {
				return err
			}
			if event.ConfirmedRequests > 0 {
				event.ConfirmedRequests--
			}
			if err := s.events.Save(ctx, event); err != nil {
				return err
			}
		}

		canceled = request
		return nil
	})
	if err != nil {
		return nil, err
	}
	return canceled, nil
}

// ConfirmBatch reconciles a batch of pending requests for an owned event
// against its participant limit. With a CONFIRMED target the pending
// requests are walked ascending by id and confirmed greedily until the
// limit is reached; the remainder is rejected. With a REJECTED target all
// selected pending requests are rejected. Request statuses and the event
// counter commit as one unit.
func (s *Service) ConfirmBatch(ctx context.Context, ownerID, eventID int64, requestIDs []int64, desired Status) (*BatchResult, error) {
	if err := s.users.EnsureUser(ctx, ownerID); err != nil {
		return nil, err
	}
	if desired != StatusConfirmed && desired != StatusRejected {
		return nil, domain.Validationf("status", "unsupported status %q", desired)
	}

	result := &BatchResult{Confirmed: []Request{}, Rejected: []Request{}}
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		event, err := s.events.GetByIDAndInitiator(ctx, eventID, ownerID)
		if err != nil {
			return err
		}
		if !event.RequestModeration || event.ParticipantLimit == 0 {
			return domain.Conflictf("event %d does not require request moderation", eventID)
		}

		pending, err := s.repo.ListPendingByEventAndIDs(ctx, eventID, requestIDs)
		if err != nil {
			return err
		}

		confirmedCount := event.ConfirmedRequests
		switch desired {
		case StatusConfirmed:
			if confirmedCount == event.ParticipantLimit {
				return domain.Conflictf("participant limit reached for event %d", eventID)
			}
			for i := range pending {
				if confirmedCount < event.ParticipantLimit {
					pending[i].Status = StatusConfirmed
					confirmedCount++
				} else {
					pending[i].Status = StatusRejected
				}
			}
		case StatusRejected:
			for i := range pending {
				pending[i].Status = StatusRejected
			}
		}

		if err := s.repo.SaveAll(ctx, pending); err != nil {
			return err
		}
		if confirmedCount != event.ConfirmedRequests {
			event.ConfirmedRequests = confirmedCount
			if err := s.events.Save(ctx, event); err != nil {
				return err
			}
		}

		for _, request := range pending {
			switch request.Status {
			case StatusConfirmed:
				result.Confirmed = append(result.Confirmed, request)
			case StatusRejected:
				result.Rejected = append(result.Rejected, request)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RequestsConfirmed.Add(float64(len(result.Confirmed)))
	metrics.RequestsRejected.Add(float64(len(result.Rejected)))
	s.logger.Info().
		Int64("event_id", eventID).
		Int("confirmed", len(result.Confirmed)).
		Int("rejected", len(result.Rejected)).
		Msg("request batch moderated")
	return result, nil
}

// ListByRequester returns all requests made by userID.
func (s *Service) ListByRequester(ctx context.Context, userID int64) ([]Request, error) {
	if err := s.users.EnsureUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByRequester(ctx, userID)
}

// ListByEvent returns all requests for an event owned by ownerID.
func (s *Service) ListByEvent(ctx context.Context, ownerID, eventID int64) ([]Request, error) {
	if err := s.users.EnsureUser(ctx, ownerID); err != nil {
		return nil, err
	}
	if _, err := s.events.GetByIDAndInitiator(ctx, eventID, ownerID); err != nil {
		return nil, err
	}
	return s.repo.ListByEvent(ctx, eventID)
}
