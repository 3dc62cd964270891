package categories

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gatherhub/server/internal/domain/events"
)

type Category struct {
	ID   int64
	Name string
}

// Repository is the persistence contract for categories. Delete returns
// domain.ConflictError when events still reference the category.
type Repository interface {
	Create(ctx context.Context, name string) (*Category, error)
	Save(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id int64) (*Category, error)
	List(ctx context.Context, page events.Page) ([]Category, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, name string) (*Category, error) {
	category, err := s.repo.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("category_id", category.ID).Str("name", name).Msg("category created")
	return category, nil
}

func (s *Service) Update(ctx context.Context, id int64, name string) (*Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = name
	if err := s.repo.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, page events.Page) ([]Category, error) {
	return s.repo.List(ctx, page)
}

func (s *Service) Get(ctx context.Context, id int64) (*Category, error) {
	return s.repo.GetByID(ctx, id)
}
