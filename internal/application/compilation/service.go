package compilation

import (
	"context"

	"github.com/dkomarev/afisha/internal/domain"
)

type Repo interface {
	Create(ctx context.Context, c *domain.Compilation) error
	GetByID(ctx context.Context, id string) (*domain.Compilation, error)
	Update(ctx context.Context, c *domain.Compilation) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, pinned *bool, from, size int) ([]*domain.Compilation, error)
}

type EventRepo interface {
	ExistAll(ctx context.Context, ids []string) (bool, error)
}

type Service struct {
	compilations Repo
	events       EventRepo
}

func New(compilations Repo, events EventRepo) *Service {
	return &Service{compilations: compilations, events: events}
}

// UpdatePatch is a merge patch over a compilation.
type UpdatePatch struct {
	Title    *string
	Pinned   *bool
	EventIDs *[]string
}

func (s *Service) Create(ctx context.Context, title string, pinned bool, eventIDs []string) (*domain.Compilation, error) {
	if err := s.checkEvents(ctx, eventIDs); err != nil {
		return nil, err
	}
	c, err := domain.NewCompilation(title, pinned, eventIDs)
	if err != nil {
		return nil, err
	}
	if err := s.compilations.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id string, p UpdatePatch) (*domain.Compilation, error) {
	c, err := s.compilations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Title != nil {
		if err := c.Retitle(*p.Title); err != nil {
			return nil, err
		}
	}
	if p.Pinned != nil {
		c.Pinned = *p.Pinned
	}
	if p.EventIDs != nil {
		if err := s.checkEvents(ctx, *p.EventIDs); err != nil {
			return nil, err
		}
		c.EventIDs = *p.EventIDs
	}
	if err := s.compilations.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.compilations.GetByID(ctx, id); err != nil {
		return err
	}
	return s.compilations.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Compilation, error) {
	return s.compilations.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, pinned *bool, from, size int) ([]*domain.Compilation, error) {
	if from < 0 || size < 0 {
		return nil, domain.ErrValidation("'from' and 'size' must not be negative")
	}
	if size == 0 {
		size = 10
	}
	return s.compilations.List(ctx, pinned, from, size)
}

func (s *Service) checkEvents(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	ok, err := s.events.ExistAll(ctx, ids)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound("some events from the compilation are not found")
	}
	return nil
}
