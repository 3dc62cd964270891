package statserver

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/gatherhub/server/internal/clock"
	"github.com/gatherhub/server/internal/domain"
	"github.com/gatherhub/server/internal/stats"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeHitRepo struct {
	hits []HitRecord
}

func (r *fakeHitRepo) SaveHit(_ context.Context, hit HitRecord) error {
	r.hits = append(r.hits, hit)
	return nil
}

func (r *fakeHitRepo) ViewStats(_ context.Context, start, end time.Time, uris []string, unique bool) ([]stats.ViewStat, error) {
	seen := make(map[string]map[string]bool)
	counts := make(map[string]int64)
	for _, hit := range r.hits {
		if hit.Timestamp.Before(start) || hit.Timestamp.After(end) {
			continue
		}
		if len(uris) > 0 && !contains(uris, hit.URI) {
			continue
		}
		if unique {
			if seen[hit.URI] == nil {
				seen[hit.URI] = make(map[string]bool)
			}
			if seen[hit.URI][hit.IP] {
				continue
			}
			seen[hit.URI][hit.IP] = true
		}
		counts[hit.URI]++
	}

	result := []stats.ViewStat{}
	for uri, hits := range counts {
		result = append(result, stats.ViewStat{App: "gatherhub-main", URI: uri, Hits: hits})
	}
	return result, nil
}

func contains(items []string, value string) bool {
	for _, item := range items {
		if item == value {
			return true
		}
	}
	return false
}

func newTestService(repo *fakeHitRepo) *Service {
	return NewService(repo, clock.NewFixed(testNow), zerolog.Nop())
}

func TestRecordHitRequiresAppAndURI(t *testing.T) {
	svc := newTestService(&fakeHitRepo{})

	err := svc.RecordHit(context.Background(), HitRecord{URI: "/events/1", IP: "10.0.0.1", Timestamp: testNow})
	require.True(t, domain.IsValidation(err))

	err = svc.RecordHit(context.Background(), HitRecord{App: "gatherhub-main", IP: "10.0.0.1", Timestamp: testNow})
	require.True(t, domain.IsValidation(err))
}

func TestRecordHitStores(t *testing.T) {
	repo := &fakeHitRepo{}
	svc := newTestService(repo)

	err := svc.RecordHit(context.Background(), HitRecord{
		App:       "gatherhub-main",
		URI:       "/events/1",
		IP:        "10.0.0.1",
		Timestamp: testNow,
	})
	require.NoError(t, err)
	require.Len(t, repo.hits, 1)
}

func TestStatsRejectsEmptyRange(t *testing.T) {
	svc := newTestService(&fakeHitRepo{})

	_, err := svc.Stats(context.Background(), testNow, testNow, nil, false)
	require.True(t, domain.IsValidation(err))

	_, err = svc.Stats(context.Background(), testNow.Add(time.Hour), testNow, nil, false)
	require.True(t, domain.IsValidation(err))
}

func TestStatsRejectsFutureStart(t *testing.T) {
	svc := newTestService(&fakeHitRepo{})

	start := testNow.Add(time.Hour)
	_, err := svc.Stats(context.Background(), start, start.Add(time.Hour), nil, false)
	require.True(t, domain.IsValidation(err))
}

func TestStatsUniqueCountsDistinctIPs(t *testing.T) {
	repo := &fakeHitRepo{}
	svc := newTestService(repo)

	for _, ip := range []string{"10.0.0.1", "10.0.0.1", "10.0.0.2"} {
		require.NoError(t, svc.RecordHit(context.Background(), HitRecord{
			App:       "gatherhub-main",
			URI:       "/events/1",
			IP:        ip,
			Timestamp: testNow.Add(-time.Hour),
		}))
	}

	all, err := svc.Stats(context.Background(), testNow.Add(-2*time.Hour), testNow, nil, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, int64(3), all[0].Hits)

	unique, err := svc.Stats(context.Background(), testNow.Add(-2*time.Hour), testNow, nil, true)
	require.NoError(t, err)
	require.Len(t, unique, 1)
	require.Equal(t, int64(2), unique[0].Hits)
}
