package request

import (
	"context"
	"time"

	"github.com/dkomarev/afisha/internal/domain"
)

type Clock interface {
	Now() time.Time
}

type Repo interface {
	GetByID(ctx context.Context, id string) (*domain.Request, error)
	ListByRequester(ctx context.Context, requesterID string) ([]*domain.Request, error)
	Update(ctx context.Context, r *domain.Request) error

	WithTx(ctx context.Context, fn func(tr TxRepo) error) error
}

// TxRepo is the transactional view used by admission: the event row is
// locked so the capacity check and the insert share one snapshot.
type TxRepo interface {
	GetEventForUpdate(ctx context.Context, eventID string) (*domain.Event, error)
	ExistsByRequesterAndEvent(ctx context.Context, requesterID, eventID string) (bool, error)
	CountConfirmed(ctx context.Context, eventID string) (int, error)
	Insert(ctx context.Context, r *domain.Request) error
}

type UserRepo interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}
