package requests

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/gatherhub/server/internal/clock"
	"github.com/gatherhub/server/internal/domain"
	"github.com/gatherhub/server/internal/domain/events"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeRequestRepo struct {
	items  map[int64]*Request
	nextID int64
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{items: make(map[int64]*Request), nextID: 1}
}

func (r *fakeRequestRepo) Create(_ context.Context, request *Request) (*Request, error) {
	stored := *request
	stored.ID = r.nextID
	r.nextID++
	r.items[stored.ID] = &stored
	result := stored
	return &result, nil
}

func (r *fakeRequestRepo) GetByID(_ context.Context, id int64) (*Request, error) {
	stored, ok := r.items[id]
	if !ok {
		return nil, domain.NotFoundf("request %d does not exist", id)
	}
	result := *stored
	return &result, nil
}

func (r *fakeRequestRepo) FindActiveByRequesterAndEvent(_ context.Context, requesterID, eventID int64) (*Request, error) {
	for _, stored := range r.items {
		if stored.RequesterID == requesterID && stored.EventID == eventID && stored.Status != StatusCanceled {
			result := *stored
			return &result, nil
		}
	}
	return nil, domain.NotFoundf("request for event %d by user %d does not exist", eventID, requesterID)
}

func (r *fakeRequestRepo) ListByRequester(_ context.Context, requesterID int64) ([]Request, error) {
	result := []Request{}
	for _, stored := range r.items {
		if stored.RequesterID == requesterID {
			result = append(result, *stored)
		}
	}
	sortByID(result)
	return result, nil
}

func (r *fakeRequestRepo) ListByEvent(_ context.Context, eventID int64) ([]Request, error) {
	result := []Request{}
	for _, stored := range r.items {
		if stored.EventID == eventID {
			result = append(result, *stored)
		}
	}
	sortByID(result)
	return result, nil
}

func (r *fakeRequestRepo) ListPendingByEventAndIDs(_ context.Context, eventID int64, ids []int64) ([]Request, error) {
	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	result := []Request{}
	for _, stored := range r.items {
		if stored.EventID == eventID && stored.Status == StatusPending && wanted[stored.ID] {
			result = append(result, *stored)
		}
	}
	sortByID(result)
	return result, nil
}

func (r *fakeRequestRepo) SaveAll(_ context.Context, items []Request) error {
	for _, item := range items {
		if _, ok := r.items[item.ID]; !ok {
			return domain.NotFoundf("request %d does not exist", item.ID)
		}
		stored := item
		r.items[item.ID] = &stored
	}
	return nil
}

func sortByID(items []Request) {
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
}

type fakeEventStore struct {
	items map[int64]*events.Event
}

func (s *fakeEventStore) GetByID(_ context.Context, id int64) (*events.Event, error) {
	stored, ok := s.items[id]
	if !ok {
		return nil, domain.NotFoundf("event %d does not exist", id)
	}
	result := *stored
	return &result, nil
}

func (s *fakeEventStore) GetByIDAndInitiator(ctx context.Context, id, initiatorID int64) (*events.Event, error) {
	event, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.InitiatorID != initiatorID {
		return nil, domain.NotFoundf("event %d with initiator %d does not exist", id, initiatorID)
	}
	return event, nil
}

func (s *fakeEventStore) Save(_ context.Context, event *events.Event) error {
	if _, ok := s.items[event.ID]; !ok {
		return domain.NotFoundf("event %d does not exist", event.ID)
	}
	stored := *event
	s.items[event.ID] = &stored
	return nil
}

type fakeUsers struct{}

func (fakeUsers) EnsureUser(_ context.Context, id int64) error {
	if id > 100 {
		return domain.NotFoundf("user %d does not exist", id)
	}
	return nil
}

type fakeTx struct{}

func (fakeTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func testEvent(limit int, moderation bool) *events.Event {
	return &events.Event{
		ID:                1,
		Title:             "Summer rooftop concert",
		InitiatorID:       1,
		State:             events.StatePublished,
		EventDate:         testNow.Add(48 * time.Hour),
		ParticipantLimit:  limit,
		RequestModeration: moderation,
	}
}

func newTestService(event *events.Event) (*Service, *fakeRequestRepo, *fakeEventStore) {
	repo := newFakeRequestRepo()
	store := &fakeEventStore{items: map[int64]*events.Event{}}
	if event != nil {
		store.items[event.ID] = event
	}
	svc := NewService(repo, store, fakeUsers{}, fakeTx{}, clock.NewFixed(testNow), zerolog.Nop())
	return svc, repo, store
}

func TestCreateAutoConfirmWithoutModeration(t *testing.T) {
	svc, _, store := newTestService(testEvent(10, false))

	request, err := svc.Create(context.Background(), 2, 1)
	require.NoError(t, err)
	require.Equal(t, StatusConfirmed, request.Status)

	event, err := store.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 1, event.ConfirmedRequests)
}

func TestCreateAutoConfirmWithoutLimit(t *testing.T) {
	svc, _, store := newTestService(testEvent(0, true))

	request, err := svc.Create(context.Background(), 2, 1)
	require.NoError(t, err)
	require.Equal(t, StatusConfirmed, request.Status)

	event, err := store.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 1, event.ConfirmedRequests)
}

func TestCreatePendingWithModeration(t *testing.T) {
	svc, _, store := newTestService(testEvent(10, true))

	request, err := svc.Create(context.Background(), 2, 1)
	require.NoError(t, err)
	require.Equal(t, StatusPending, request.Status)

	event, err := store.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Zero(t, event.ConfirmedRequests)
}

func TestCreateOwnEventConflicts(t *testing.T) {
	svc, _, _ := newTestService(testEvent(10, true))

	_, err := svc.Create(context.Background(), 1, 1)
	require.True(t, domain.IsConflict(err))
}

func TestCreateDuplicateConflicts(t *testing.T) {
	svc, _, _ := newTestService(testEvent(10, true))

	_, err := svc.Create(context.Background(), 2, 1)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), 2, 1)
	require.True(t, domain.IsConflict(err))
}

func TestCreateAfterCancelSucceeds(t *testing.T) {
	svc, _, _ := newTestService(testEvent(10, true))

	request, err := svc.Create(context.Background(), 2, 1)
	require.NoError(t, err)
	_, err = svc.Cancel(context.Background(), 2, request.ID)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), 2, 1)
	require.NoError(t, err)
}

func TestCreateUnpublishedConflicts(t *testing.T) {
	event := testEvent(10, true)
	event.State = events.StatePending
	svc, _, _ := newTestService(event)

	_, err := svc.Create(context.Background(), 2, 1)
	require.True(t, domain.IsConflict(err))
}

func TestCreateLimitReachedConflicts(t *testing.T) {
	event := testEvent(2, true)
	event.ConfirmedRequests = 2
	svc, _, _ := newTestService(event)

	_, err := svc.Create(context.Background(), 2, 1)
	require.True(t, domain.IsConflict(err))
}

func TestCancelConfirmedReleasesSlot(t *testing.T) {
	svc, _, store := newTestService(testEvent(10, false))

	request, err := svc.Create(context.Background(), 2, 1)
	require.NoError(t, err)
	require.Equal(t, StatusConfirmed, request.Status)

	canceled, err := svc.Cancel(context.Background(), 2, request.ID)
	require.NoError(t, err)
	require.Equal(t, StatusCanceled, canceled.Status)

	event, err := store.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Zero(t, event.ConfirmedRequests)
}

func TestCancelForeignRequestConflicts(t *testing.T) {
	svc, _, _ := newTestService(testEvent(10, true))

	request, err := svc.Create(context.Background(), 2, 1)
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), 3, request.ID)
	require.True(t, domain.IsConflict(err))
}

func TestConfirmBatchGreedy(t *testing.T) {
	event := testEvent(2, true)
	event.ConfirmedRequests = 1
	svc, _, store := newTestService(event)

	var ids []int64
	for _, userID := range []int64{2, 3, 4} {
		request, err := svc.Create(context.Background(), userID, 1)
		require.NoError(t, err)
		require.Equal(t, StatusPending, request.Status)
		ids = append(ids, request.ID)
	}

	result, err := svc.ConfirmBatch(context.Background(), 1, 1, ids, StatusConfirmed)
	require.NoError(t, err)
	require.Len(t, result.Confirmed, 1)
	require.Len(t, result.Rejected, 2)
	require.Equal(t, ids[0], result.Confirmed[0].ID)

	event, err = store.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 2, event.ConfirmedRequests)
}

func TestConfirmBatchRejectAll(t *testing.T) {
	svc, _, store := newTestService(testEvent(5, true))

	var ids []int64
	for _, userID := range []int64{2, 3} {
		request, err := svc.Create(context.Background(), userID, 1)
		require.NoError(t, err)
		ids = append(ids, request.ID)
	}

	result, err := svc.ConfirmBatch(context.Background(), 1, 1, ids, StatusRejected)
	require.NoError(t, err)
	require.Empty(t, result.Confirmed)
	require.Len(t, result.Rejected, 2)

	event, err := store.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Zero(t, event.ConfirmedRequests)
}

func TestConfirmBatchWithoutModerationConflicts(t *testing.T) {
	svc, _, _ := newTestService(testEvent(10, false))

	_, err := svc.ConfirmBatch(context.Background(), 1, 1, []int64{1}, StatusConfirmed)
	require.True(t, domain.IsConflict(err))
}

func TestConfirmBatchLimitAlreadyReachedConflicts(t *testing.T) {
	event := testEvent(2, true)
	event.ConfirmedRequests = 2
	svc, _, _ := newTestService(event)

	_, err := svc.ConfirmBatch(context.Background(), 1, 1, []int64{1}, StatusConfirmed)
	require.True(t, domain.IsConflict(err))
}

func TestConfirmBatchUnsupportedStatus(t *testing.T) {
	svc, _, _ := newTestService(testEvent(10, true))

	_, err := svc.ConfirmBatch(context.Background(), 1, 1, []int64{1}, StatusCanceled)
	require.True(t, domain.IsValidation(err))
}

func TestListByEventRequiresOwnership(t *testing.T) {
	svc, _, _ := newTestService(testEvent(10, true))

	_, err := svc.ListByEvent(context.Background(), 2, 1)
	require.True(t, domain.IsNotFound(err))
}
