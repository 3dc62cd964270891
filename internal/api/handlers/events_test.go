package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/gatherhub/server/internal/clock"
	"github.com/gatherhub/server/internal/domain"
	"github.com/gatherhub/server/internal/domain/events"
	"github.com/gatherhub/server/internal/stats"
)

// emptyEventRepo satisfies the events repository with no data; only the
// listing path is exercised here.
type emptyEventRepo struct{}

func (emptyEventRepo) Create(_ context.Context, event *events.Event) (*events.Event, error) {
	return event, nil
}
func (emptyEventRepo) Save(context.Context, *events.Event) error { return nil }
func (emptyEventRepo) GetByID(_ context.Context, id int64) (*events.Event, error) {
	return nil, domain.NotFoundf("event %d does not exist", id)
}
func (emptyEventRepo) GetByIDAndInitiator(_ context.Context, id, _ int64) (*events.Event, error) {
	return nil, domain.NotFoundf("event %d does not exist", id)
}
func (emptyEventRepo) GetByIDs(context.Context, []int64) ([]events.Event, error) {
	return nil, nil
}
func (emptyEventRepo) List(context.Context, events.Filters, events.Page) ([]events.Event, error) {
	return []events.Event{}, nil
}
func (emptyEventRepo) ListAdmin(context.Context, events.AdminFilters, events.Page) ([]events.Event, error) {
	return []events.Event{}, nil
}
func (emptyEventRepo) ListByInitiator(context.Context, int64, events.Page) ([]events.Event, error) {
	return []events.Event{}, nil
}

type passTx struct{}

func (passTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

type anyCategories struct{}

func (anyCategories) GetCategory(_ context.Context, id int64) (*events.Category, error) {
	return &events.Category{ID: id, Name: "concerts"}, nil
}

type anyLocations struct{}

func (anyLocations) PrepareLocation(_ context.Context, lat, lon float64) (events.Location, error) {
	return events.Location{ID: 1, Lat: lat, Lon: lon}, nil
}

type anyUsers struct{}

func (anyUsers) EnsureUser(context.Context, int64) error { return nil }

type capturingStats struct {
	hits chan stats.Hit
}

func (c *capturingStats) RecordHit(_ context.Context, hit stats.Hit) error {
	c.hits <- hit
	return nil
}

func (c *capturingStats) ViewCounts(_ context.Context, _, _ time.Time, uris []string, _ bool) (map[string]int64, error) {
	counts := make(map[string]int64, len(uris))
	for _, uri := range uris {
		counts[uri] = 0
	}
	return counts, nil
}

func TestListRecordsHitWithoutQueryString(t *testing.T) {
	statsClient := &capturingStats{hits: make(chan stats.Hit, 1)}
	service := events.NewService(
		emptyEventRepo{}, passTx{}, anyCategories{}, anyLocations{}, anyUsers{},
		statsClient, clock.NewSystem(), zerolog.Nop(), "gatherhub-main",
	)
	handler := NewEventsHandler(service, "test")

	req := httptest.NewRequest(http.MethodGet, "/events?text=concert&paid=true&sort=EVENT_DATE", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	select {
	case hit := <-statsClient.hits:
		require.Equal(t, "/events", hit.URI)
	case <-time.After(time.Second):
		t.Fatal("hit was not recorded")
	}
}
