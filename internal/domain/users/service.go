package users

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gatherhub/server/internal/domain/events"
)

type User struct {
	ID    int64
	Name  string
	Email string
}

// Repository is the persistence contract for users. Create returns
// domain.ConflictError on a duplicate email.
type Repository interface {
	Create(ctx context.Context, name, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context, ids []int64, page events.Page) ([]User, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, name, email string) (*User, error) {
	user, err := s.repo.Create(ctx, name, email)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("user_id", user.ID).Msg("user created")
	return user, nil
}

// List returns the users with the given ids, or a page of all users when
// ids is empty.
func (s *Service) List(ctx context.Context, ids []int64, page events.Page) ([]User, error) {
	return s.repo.List(ctx, ids, page)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
