package category

import (
	"context"

	"github.com/dkomarev/afisha/internal/domain"
)

type Repo interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, from, size int) ([]*domain.Category, error)
	HasEvents(ctx context.Context, id string) (bool, error)
}

type Service struct {
	categories Repo
}

func New(categories Repo) *Service { return &Service{categories: categories} }

func (s *Service) Create(ctx context.Context, name string) (*domain.Category, error) {
	c, err := domain.NewCategory(name)
	if err != nil {
		return nil, err
	}
	// Name uniqueness is enforced by the store (unique index) and surfaces
	// as a conflict.
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id, name string) (*domain.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.Rename(name); err != nil {
		return nil, err
	}
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete refuses to remove a category that events still reference.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return err
	}
	used, err := s.categories.HasEvents(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return domain.ErrConflict("the category is not empty")
	}
	return s.categories.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Category, error) {
	return s.categories.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, from, size int) ([]*domain.Category, error) {
	if from < 0 || size < 0 {
		return nil, domain.ErrValidation("'from' and 'size' must not be negative")
	}
	if size == 0 {
		size = 10
	}
	return s.categories.List(ctx, from, size)
}
