package statserver

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/gatherhub/server/internal/clock"
	"github.com/gatherhub/server/internal/domain"
	"github.com/gatherhub/server/internal/metrics"
	"github.com/gatherhub/server/internal/stats"
)

// HitRecord is one stored page-view hit.
type HitRecord struct {
	ID        int64
	App       string
	URI       string
	IP        string
	Timestamp time.Time
}

// Repository is the persistence contract for hits. ViewStats groups by
// app and URI, ordered by hits descending; unique counts distinct IPs.
type Repository interface {
	SaveHit(ctx context.Context, hit HitRecord) error
	ViewStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]stats.ViewStat, error)
}

// Service records endpoint hits and serves aggregated view counts.
type Service struct {
	repo   Repository
	clock  clock.Clock
	logger zerolog.Logger
}

func NewService(repo Repository, clk clock.Clock, logger zerolog.Logger) *Service {
	return &Service{repo: repo, clock: clk, logger: logger}
}

func (s *Service) RecordHit(ctx context.Context, hit HitRecord) error {
	if hit.App == "" {
		return domain.Validationf("app", "must not be blank")
	}
	if hit.URI == "" {
		return domain.Validationf("uri", "must not be blank")
	}
	if err := s.repo.SaveHit(ctx, hit); err != nil {
		return err
	}
	metrics.StatHitsStored.Inc()
	s.logger.Debug().Str("app", hit.App).Str("uri", hit.URI).Msg("hit stored")
	return nil
}

// Stats returns aggregated view counts for the period. The period must be
// non-empty and must not start in the future.
func (s *Service) Stats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]stats.ViewStat, error) {
	if !start.Before(end) {
		return nil, domain.Validationf("start", "must be before end")
	}
	if start.After(s.clock.Now()) {
		return nil, domain.Validationf("start", "must not be in the future")
	}
	return s.repo.ViewStats(ctx, start, end, uris, unique)
}
