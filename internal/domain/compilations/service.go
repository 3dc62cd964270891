package compilations

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gatherhub/server/internal/domain/events"
)

// Compilation is a curated, admin-managed grouping of events.
type Compilation struct {
	ID     int64
	Title  string
	Pinned bool
	Events []events.Event
}

type NewCompilation struct {
	Title    string
	Pinned   bool
	EventIDs []int64
}

// Patch is a partial update: nil fields are left untouched.
type Patch struct {
	Title    *string
	Pinned   *bool
	EventIDs *[]int64
}

// Repository is the persistence contract for compilations.
type Repository interface {
	Create(ctx context.Context, compilation *Compilation) (*Compilation, error)
	Save(ctx context.Context, compilation *Compilation) error
	GetByID(ctx context.Context, id int64) (*Compilation, error)
	List(ctx context.Context, pinned *bool, page events.Page) ([]Compilation, error)
	Delete(ctx context.Context, id int64) error
}

// EventLoader resolves event ids into events for compilation membership.
type EventLoader interface {
	GetByIDs(ctx context.Context, ids []int64) ([]events.Event, error)
}

// ViewsLoader annotates events with view counts. The event service
// provides it; a nil loader leaves views at zero.
type ViewsLoader func(ctx context.Context, items []events.Event)

type Service struct {
	repo   Repository
	events EventLoader
	views  ViewsLoader
	logger zerolog.Logger
}

func NewService(repo Repository, loader EventLoader, views ViewsLoader, logger zerolog.Logger) *Service {
	return &Service{repo: repo, events: loader, views: views, logger: logger}
}

func (s *Service) Create(ctx context.Context, input NewCompilation) (*Compilation, error) {
	members, err := s.loadMembers(ctx, input.EventIDs)
	if err != nil {
		return nil, err
	}

	compilation := &Compilation{
		Title:  input.Title,
		Pinned: input.Pinned,
		Events: members,
	}
	created, err := s.repo.Create(ctx, compilation)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("compilation_id", created.ID).Msg("compilation created")
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, patch Patch) (*Compilation, error) {
	compilation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		compilation.Title = *patch.Title
	}
	if patch.Pinned != nil {
		compilation.Pinned = *patch.Pinned
	}
	if patch.EventIDs != nil {
		members, err := s.loadMembers(ctx, *patch.EventIDs)
		if err != nil {
			return nil, err
		}
		compilation.Events = members
	}

	if err := s.repo.Save(ctx, compilation); err != nil {
		return nil, err
	}
	s.annotate(ctx, compilation)
	return compilation, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, pinned *bool, page events.Page) ([]Compilation, error) {
	items, err := s.repo.List(ctx, pinned, page)
	if err != nil {
		return nil, err
	}
	for i := range items {
		s.annotate(ctx, &items[i])
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Compilation, error) {
	compilation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.annotate(ctx, compilation)
	return compilation, nil
}

func (s *Service) loadMembers(ctx context.Context, ids []int64) ([]events.Event, error) {
	if len(ids) == 0 {
		return []events.Event{}, nil
	}
	return s.events.GetByIDs(ctx, ids)
}

func (s *Service) annotate(ctx context.Context, compilation *Compilation) {
	if s.views == nil || len(compilation.Events) == 0 {
		return
	}
	s.views(ctx, compilation.Events)
}
