package user

import (
	"context"

	"github.com/dkomarev/afisha/internal/domain"
)

type Repo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, ids []string, from, size int) ([]*domain.User, error)
	Delete(ctx context.Context, id string) error
}

type Service struct {
	users Repo
}

func New(users Repo) *Service { return &Service{users: users} }

func (s *Service) Create(ctx context.Context, name, email string) (*domain.User, error) {
	u, err := domain.NewUser(name, email)
	if err != nil {
		return nil, err
	}
	// Email uniqueness is a store-level unique index; violation surfaces as
	// a conflict.
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) List(ctx context.Context, ids []string, from, size int) ([]*domain.User, error) {
	if from < 0 || size < 0 {
		return nil, domain.ErrValidation("'from' and 'size' must not be negative")
	}
	if size == 0 {
		size = 10
	}
	return s.users.List(ctx, ids, from, size)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}
