package compilations

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/gatherhub/server/internal/domain"
	"github.com/gatherhub/server/internal/domain/events"
)

type fakeRepo struct {
	items  map[int64]*Compilation
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[int64]*Compilation), nextID: 1}
}

func (r *fakeRepo) Create(_ context.Context, compilation *Compilation) (*Compilation, error) {
	stored := *compilation
	stored.ID = r.nextID
	r.nextID++
	r.items[stored.ID] = &stored
	result := stored
	return &result, nil
}

func (r *fakeRepo) Save(_ context.Context, compilation *Compilation) error {
	if _, ok := r.items[compilation.ID]; !ok {
		return domain.NotFoundf("compilation %d does not exist", compilation.ID)
	}
	stored := *compilation
	r.items[compilation.ID] = &stored
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*Compilation, error) {
	stored, ok := r.items[id]
	if !ok {
		return nil, domain.NotFoundf("compilation %d does not exist", id)
	}
	result := *stored
	return &result, nil
}

func (r *fakeRepo) List(_ context.Context, pinned *bool, _ events.Page) ([]Compilation, error) {
	result := []Compilation{}
	for _, stored := range r.items {
		if pinned != nil && stored.Pinned != *pinned {
			continue
		}
		result = append(result, *stored)
	}
	return result, nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64) error {
	delete(r.items, id)
	return nil
}

type fakeLoader struct {
	known map[int64]events.Event
}

func (l fakeLoader) GetByIDs(_ context.Context, ids []int64) ([]events.Event, error) {
	result := []events.Event{}
	for _, id := range ids {
		if event, ok := l.known[id]; ok {
			result = append(result, event)
		}
	}
	return result, nil
}

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	loader := fakeLoader{known: map[int64]events.Event{
		1: {ID: 1, Title: "Rooftop concert", State: events.StatePublished},
		2: {ID: 2, Title: "Food festival", State: events.StatePublished},
	}}
	views := func(_ context.Context, items []events.Event) {
		for i := range items {
			items[i].Views = 7
		}
	}
	return NewService(repo, loader, views, zerolog.Nop()), repo
}

func TestCreateResolvesMembers(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.Create(context.Background(), NewCompilation{
		Title:    "Weekend picks",
		Pinned:   true,
		EventIDs: []int64{1, 2},
	})
	require.NoError(t, err)
	require.Len(t, created.Events, 2)
	require.True(t, created.Pinned)
}

func TestCreateAllowsEmptyMembership(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.Create(context.Background(), NewCompilation{Title: "Coming soon"})
	require.NoError(t, err)
	require.Empty(t, created.Events)
}

func TestUpdateReplacesMembership(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.Create(context.Background(), NewCompilation{
		Title:    "Weekend picks",
		EventIDs: []int64{1, 2},
	})
	require.NoError(t, err)

	newMembers := []int64{2}
	updated, err := svc.Update(context.Background(), created.ID, Patch{EventIDs: &newMembers})
	require.NoError(t, err)
	require.Len(t, updated.Events, 1)
	require.Equal(t, int64(2), updated.Events[0].ID)
}

func TestUpdateLeavesAbsentFieldsAlone(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.Create(context.Background(), NewCompilation{Title: "Weekend picks", Pinned: true})
	require.NoError(t, err)

	title := "Updated picks"
	updated, err := svc.Update(context.Background(), created.ID, Patch{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "Updated picks", updated.Title)
	require.True(t, updated.Pinned)
}

func TestGetAnnotatesViews(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.Create(context.Background(), NewCompilation{
		Title:    "Weekend picks",
		EventIDs: []int64{1},
	})
	require.NoError(t, err)

	fetched, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, int64(7), fetched.Events[0].Views)
}

func TestDeleteUnknownNotFound(t *testing.T) {
	svc, _ := newTestService()

	err := svc.Delete(context.Background(), 99)
	require.True(t, domain.IsNotFound(err))
}
