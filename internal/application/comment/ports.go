package comment

import (
	"context"
	"time"

	"github.com/dkomarev/afisha/internal/domain"
)

type Clock interface {
	Now() time.Time
}

// AuthorFilter narrows an author's own comment listing.
type AuthorFilter struct {
	AuthorID string
	EventIDs []string
	Status   *domain.CommentStatus
	From     int
	Size     int
}

type Repo interface {
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	ExistsByAuthorAndEvent(ctx context.Context, authorID, eventID string) (bool, error)
	Create(ctx context.Context, c *domain.Comment) error
	Update(ctx context.Context, c *domain.Comment) error
	Delete(ctx context.Context, id string) error

	ListByAuthor(ctx context.Context, f AuthorFilter) ([]*domain.Comment, error)
	ListByStatus(ctx context.Context, status *domain.CommentStatus, from, size int) ([]*domain.Comment, error)
	ListApprovedByEvent(ctx context.Context, eventID string, from, size int) ([]*domain.Comment, error)
}

type EventRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Event, error)
}

type UserRepo interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type RequestRepo interface {
	// FindByRequesterAndEvent returns nil with no error when absent.
	FindByRequesterAndEvent(ctx context.Context, requesterID, eventID string) (*domain.Request, error)
}
