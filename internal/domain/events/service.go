package events

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/gatherhub/server/internal/clock"
	"github.com/gatherhub/server/internal/domain"
	"github.com/gatherhub/server/internal/metrics"
	"github.com/gatherhub/server/internal/stats"
)

const (
	// Owners must schedule at least two hours out; admins may edit down to
	// one hour before start.
	ownerDateLead = 2 * time.Hour
	adminDateLead = 1 * time.Hour

	hitTimeout = 3 * time.Second
)

// viewsEpoch is the lower bound used when asking the stats service for
// all-time view counts.
var viewsEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Service owns event state transitions and participant-limit bookkeeping.
type Service struct {
	repo       Repository
	tx         Tx
	categories CategoryResolver
	locations  LocationResolver
	users      UserChecker
	stats      stats.Client
	clock      clock.Clock
	logger     zerolog.Logger
	appName    string
}

func NewService(repo Repository, tx Tx, categories CategoryResolver, locations LocationResolver, users UserChecker, statsClient stats.Client, clk clock.Clock, logger zerolog.Logger, appName string) *Service {
	if statsClient == nil {
		statsClient = stats.Noop{}
	}
	return &Service{
		repo:       repo,
		tx:         tx,
		categories: categories,
		locations:  locations,
		users:      users,
		stats:      statsClient,
		clock:      clk,
		logger:     logger,
		appName:    appName,
	}
}

// Create stores a new event owned by ownerID. The initial state is always
// PENDING and the confirmed-request counter starts at zero.
func (s *Service) Create(ctx context.Context, ownerID int64, draft Draft) (*Event, error) {
	if err := s.users.EnsureUser(ctx, ownerID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := checkDateLead(draft.EventDate, now, ownerDateLead); err != nil {
		return nil, err
	}

	category, err := s.categories.GetCategory(ctx, draft.CategoryID)
	if err != nil {
		return nil, err
	}

	event := &Event{
		Title:             draft.Title,
		Annotation:        draft.Annotation,
		Description:       draft.Description,
		Category:          *category,
		InitiatorID:       ownerID,
		EventDate:         draft.EventDate,
		Paid:              draft.Paid,
		ParticipantLimit:  draft.ParticipantLimit,
		RequestModeration: draft.RequestModeration,
		State:             StatePending,
		CreatedOn:         now,
	}

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		location, err := s.locations.PrepareLocation(ctx, draft.Lat, draft.Lon)
		if err != nil {
			return err
		}
		event.Location = location

		created, err := s.repo.Create(ctx, event)
		if err != nil {
			return err
		}

		// Reload to pick up joined fields such as the initiator name.
		stored, err := s.repo.GetByID(ctx, created.ID)
		if err != nil {
			return err
		}
		event = stored
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.EventsCreated.Inc()
	s.logger.Info().Int64("event_id", event.ID).Int64("initiator_id", ownerID).Msg("event created")
	return event, nil
}

// UpdateByOwner applies a partial update on behalf of the event's owner.
// Published events are immutable to their owners.
func (s *Service) UpdateByOwner(ctx context.Context, ownerID, eventID int64, patch Patch) (*Event, error) {
	if err := s.users.EnsureUser(ctx, ownerID); err != nil {
		return nil, err
	}

	event, err := s.repo.GetByIDAndInitiator(ctx, eventID, ownerID)
	if err != nil {
		return nil, err
	}
	if event.State == StatePublished {
		return nil, domain.Conflictf("cannot modify a published event")
	}

	if err := s.applyPatch(ctx, event, patch, ownerDateLead, false); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// UpdateByAdmin applies a partial update with administrative state actions.
func (s *Service) UpdateByAdmin(ctx context.Context, eventID int64, patch Patch) (*Event, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	wasPublished := event.State == StatePublished

	if err := s.applyPatch(ctx, event, patch, adminDateLead, true); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, event); err != nil {
		return nil, err
	}
	if !wasPublished && event.State == StatePublished {
		metrics.EventsPublished.Inc()
	}
	return event, nil
}

// List returns published events matching the filters, annotated with view
// counts. The read is recorded with the stats collaborator.
func (s *Service) List(ctx context.Context, filters Filters, page Page, requestURI, clientIP string) ([]Event, error) {
	if err := s.validateRange(filters.RangeStart, filters.RangeEnd); err != nil {
		return nil, err
	}

	items, err := s.repo.List(ctx, filters, page)
	if err != nil {
		return nil, err
	}

	s.loadViews(ctx, items)
	if filters.Sort == SortViews {
		sort.SliceStable(items, func(i, j int) bool { return items[i].Views < items[j].Views })
	}

	s.recordHit(requestURI, clientIP)
	return items, nil
}

// ListAdmin returns events matching the admin filters, ascending by id.
func (s *Service) ListAdmin(ctx context.Context, filters AdminFilters, page Page) ([]Event, error) {
	if err := s.validateRange(filters.RangeStart, filters.RangeEnd); err != nil {
		return nil, err
	}
	return s.repo.ListAdmin(ctx, filters, page)
}

// GetPublished returns a published event by id. Non-published events are
// indistinguishable from absent ones.
func (s *Service) GetPublished(ctx context.Context, eventID int64, requestURI, clientIP string) (*Event, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.State != StatePublished {
		return nil, domain.NotFoundf("event %d is not published", eventID)
	}

	views := []Event{*event}
	s.loadViews(ctx, views)
	event.Views = views[0].Views

	s.recordHit(requestURI, clientIP)
	return event, nil
}

// ListByInitiator returns the owner's events, ascending by id.
func (s *Service) ListByInitiator(ctx context.Context, ownerID int64, page Page) ([]Event, error) {
	if err := s.users.EnsureUser(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.repo.ListByInitiator(ctx, ownerID, page)
}

// GetByInitiator returns the full event view for its owner.
func (s *Service) GetByInitiator(ctx context.Context, ownerID, eventID int64) (*Event, error) {
	if err := s.users.EnsureUser(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.repo.GetByIDAndInitiator(ctx, eventID, ownerID)
}

// LoadViews annotates events with view counts from the stats collaborator.
// Used by the compilation listing as well as the public event paths.
func (s *Service) LoadViews(ctx context.Context, items []Event) {
	s.loadViews(ctx, items)
}

func (s *Service) validateRange(start, end *time.Time) error {
	if start != nil && end != nil && start.After(*end) {
		return domain.Validationf("rangeStart", "must not be after rangeEnd")
	}
	if start == nil && end != nil && end.Before(s.clock.Now()) {
		return domain.Validationf("rangeEnd", "must not be in the past")
	}
	return nil
}

func (s *Service) loadViews(ctx context.Context, items []Event) {
	if len(items) == 0 {
		return
	}
	uris := make([]string, 0, len(items))
	for i := range items {
		uris = append(uris, eventURI(items[i].ID))
	}

	counts, err := s.stats.ViewCounts(ctx, viewsEpoch, s.clock.Now(), uris, true)
	if err != nil {
		// Degrade to zero views rather than failing the read.
		s.logger.Warn().Err(err).Msg("view counts unavailable")
		return
	}
	for i := range items {
		items[i].Views = counts[eventURI(items[i].ID)]
	}
}

// recordHit is fire and forget: it runs outside the request lifecycle and
// never fails the caller.
func (s *Service) recordHit(requestURI, clientIP string) {
	if requestURI == "" {
		return
	}
	hit := stats.Hit{
		App:       s.appName,
		URI:       requestURI,
		IP:        clientIP,
		Timestamp: s.clock.Now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), hitTimeout)
		defer cancel()
		if err := s.stats.RecordHit(ctx, hit); err != nil {
			s.logger.Warn().Err(err).Str("uri", hit.URI).Msg("record hit failed")
			return
		}
		metrics.HitsRecorded.Inc()
	}()
}

func eventURI(id int64) string {
	return fmt.Sprintf("/events/%d", id)
}

func checkDateLead(date, now time.Time, lead time.Duration) error {
	if date.Before(now.Add(lead)) {
		return domain.Validationf("eventDate", "must be at least %s in the future", lead)
	}
	return nil
}
