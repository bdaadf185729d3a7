package event

import (
	"context"
	"time"

	"github.com/dkomarev/afisha/internal/domain"
)

type Clock interface {
	Now() time.Time
}

// AdminFilter narrows the admin event search. Nil/empty fields are skipped.
type AdminFilter struct {
	InitiatorIDs []string
	States       []domain.EventState
	CategoryIDs  []string
	RangeStart   *time.Time
	RangeEnd     *time.Time
	From         int
	Size         int
}

// PublicFilter narrows the public event search over published events.
type PublicFilter struct {
	Text        string
	CategoryIDs []string
	Paid        *bool
	RangeStart  *time.Time
	RangeEnd    *time.Time
	From        int
	Size        int
}

type EventRepo interface {
	Create(ctx context.Context, e *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	ListByInitiator(ctx context.Context, initiatorID string, from, size int) ([]*domain.Event, error)
	Search(ctx context.Context, f AdminFilter) ([]*domain.Event, error)
	SearchPublic(ctx context.Context, f PublicFilter) ([]*domain.Event, error)

	WithTx(ctx context.Context, fn func(tr TxEventRepo) error) error
}

// TxEventRepo is the transactional view used by lifecycle transitions and
// batch request resolution. GetByIDForUpdate takes a row lock on the event
// so the capacity read and the status writes see one consistent snapshot.
type TxEventRepo interface {
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Event, error)
	Update(ctx context.Context, e *domain.Event) error

	CountConfirmed(ctx context.Context, eventID string) (int, error)
	GetRequestsByIDs(ctx context.Context, ids []string) ([]*domain.Request, error)
	UpdateRequests(ctx context.Context, reqs []*domain.Request) error

	InsertOutbox(ctx context.Context, msg OutboxMessage) error
}

type RequestRepo interface {
	ListByEvent(ctx context.Context, eventID string) ([]*domain.Request, error)
	// ConfirmedCounts groups request rows by event; events without confirmed
	// requests are absent from the result.
	ConfirmedCounts(ctx context.Context, eventIDs []string) (map[string]int, error)
}

type CategoryRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	ExistAll(ctx context.Context, ids []string) (bool, error)
}

type UserRepo interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// StatsReader talks to the external analytics service. Both calls are
// best-effort from the caller's point of view: Views errors degrade to
// zeroes, Hit errors are logged and dropped.
type StatsReader interface {
	Views(ctx context.Context, uris []string, end time.Time) (map[string]int64, error)
	Hit(ctx context.Context, uri, ip string, at time.Time) error
}

type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, val any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, routingKey, messageID string, body []byte) error
}

type OutboxMessage struct {
	MessageID  string
	RoutingKey string
	Body       []byte
	CreatedAt  time.Time
}
