package statserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/gatherhub/server/internal/clock"
	"github.com/gatherhub/server/internal/stats"
)

func newTestHandler() (*Handler, *fakeHitRepo) {
	repo := &fakeHitRepo{}
	service := NewService(repo, clock.NewFixed(testNow), zerolog.Nop())
	return NewHandler(service, "test"), repo
}

func TestRecordHitEndpoint(t *testing.T) {
	handler, repo := newTestHandler()

	body := `{"app":"gatherhub-main","uri":"/events/1","ip":"10.0.0.1","timestamp":"2025-06-01 11:00:00"}`
	request := httptest.NewRequest(http.MethodPost, "/hit", strings.NewReader(body))
	recorder := httptest.NewRecorder()

	handler.RecordHit(recorder, request)
	require.Equal(t, http.StatusCreated, recorder.Code)
	require.Len(t, repo.hits, 1)
	require.Equal(t, "/events/1", repo.hits[0].URI)
}

func TestRecordHitRejectsBadTimestamp(t *testing.T) {
	handler, _ := newTestHandler()

	body := `{"app":"gatherhub-main","uri":"/events/1","ip":"10.0.0.1","timestamp":"2025-06-01T11:00:00Z"}`
	request := httptest.NewRequest(http.MethodPost, "/hit", strings.NewReader(body))
	recorder := httptest.NewRecorder()

	handler.RecordHit(recorder, request)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestStatsEndpoint(t *testing.T) {
	handler, repo := newTestHandler()
	repo.hits = []HitRecord{
		{App: "gatherhub-main", URI: "/events/1", IP: "10.0.0.1", Timestamp: testNow.Add(-time.Hour)},
		{App: "gatherhub-main", URI: "/events/1", IP: "10.0.0.2", Timestamp: testNow.Add(-time.Hour)},
	}

	request := httptest.NewRequest(http.MethodGet,
		"/stats?start=2025-06-01+00%3A00%3A00&end=2025-06-01+12%3A00%3A00&unique=false", nil)
	recorder := httptest.NewRecorder()

	handler.Stats(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	var items []stats.ViewStat
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &items))
	require.Len(t, items, 1)
	require.Equal(t, int64(2), items[0].Hits)
}

func TestStatsEndpointRequiresRange(t *testing.T) {
	handler, _ := newTestHandler()

	request := httptest.NewRequest(http.MethodGet, "/stats", nil)
	recorder := httptest.NewRecorder()

	handler.Stats(recorder, request)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}
