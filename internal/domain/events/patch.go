package events

import (
	"context"
	"strings"
	"time"

	"github.com/gatherhub/server/internal/domain"
)

// applyPatch applies the present fields of patch to event. Blank text
// fields are no-ops. State actions are role-dependent: owners send to
// review or cancel, admins publish or reject; actions outside the caller's
// role are ignored.
func (s *Service) applyPatch(ctx context.Context, event *Event, patch Patch, dateLead time.Duration, admin bool) error {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) != "" {
		event.Title = *patch.Title
	}
	if patch.Annotation != nil && strings.TrimSpace(*patch.Annotation) != "" {
		event.Annotation = *patch.Annotation
	}
	if patch.Description != nil && strings.TrimSpace(*patch.Description) != "" {
		event.Description = *patch.Description
	}

	if patch.CategoryID != nil {
		category, err := s.categories.GetCategory(ctx, *patch.CategoryID)
		if err != nil {
			return err
		}
		event.Category = *category
	}

	if patch.Lat != nil && patch.Lon != nil {
		location, err := s.locations.PrepareLocation(ctx, *patch.Lat, *patch.Lon)
		if err != nil {
			return err
		}
		event.Location = location
	}

	if patch.EventDate != nil {
		if err := checkDateLead(*patch.EventDate, s.clock.Now(), dateLead); err != nil {
			return err
		}
		event.EventDate = *patch.EventDate
	}

	if patch.Paid != nil {
		event.Paid = *patch.Paid
	}
	if patch.ParticipantLimit != nil {
		event.ParticipantLimit = *patch.ParticipantLimit
	}
	if patch.RequestModeration != nil {
		event.RequestModeration = *patch.RequestModeration
	}

	if patch.StateAction != nil {
		if err := s.applyStateAction(event, *patch.StateAction, admin); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) applyStateAction(event *Event, action StateAction, admin bool) error {
	if admin {
		switch action {
		case ActionPublish:
			if event.State == StateCanceled {
				return domain.Conflictf("cannot publish a canceled event")
			}
			if event.State == StatePublished {
				return domain.Conflictf("event is already published")
			}
			event.State = StatePublished
			publishedOn := s.clock.Now()
			event.PublishedOn = &publishedOn
		case ActionReject:
			if event.State == StatePublished {
				return domain.Conflictf("event is already published")
			}
			event.State = StateCanceled
		}
		return nil
	}

	switch action {
	case ActionSendToReview:
		event.State = StatePending
	case ActionCancelReview:
		event.State = StateCanceled
	}
	return nil
}
