package request

import (
	"context"

	"github.com/dkomarev/afisha/internal/domain"
)

// Service is the admission engine for participation requests.
type Service struct {
	requests Repo
	users    UserRepo
	clock    Clock
}

func New(requests Repo, users UserRepo, clock Clock) *Service {
	return &Service{requests: requests, users: users, clock: clock}
}

// Create admits a participation request. Checks run in a fixed order and
// the first failure wins; the initial status is computed from the event
// snapshot taken before validation, so moderated events start PENDING even
// while capacity remains.
func (s *Service) Create(ctx context.Context, requesterID, eventID string) (*domain.Request, error) {
	if _, err := s.users.GetByID(ctx, requesterID); err != nil {
		return nil, err
	}

	var out *domain.Request
	err := s.requests.WithTx(ctx, func(tr TxRepo) error {
		ev, err := tr.GetEventForUpdate(ctx, eventID)
		if err != nil {
			return err
		}
		if ev.InitiatorID == requesterID {
			return domain.ErrConflict("initiator cannot request own event")
		}
		if ev.State != domain.StatePublished {
			return domain.ErrConflict("cannot request participation in an unpublished event")
		}
		exists, err := tr.ExistsByRequesterAndEvent(ctx, requesterID, eventID)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrConflict("a request for this event already exists")
		}
		if ev.ParticipantLimit > 0 {
			confirmed, err := tr.CountConfirmed(ctx, eventID)
			if err != nil {
				return err
			}
			if confirmed >= ev.ParticipantLimit {
				return domain.ErrConflict("the participant limit has been reached")
			}
		}

		out = domain.NewRequest(requesterID, ev, s.clock.Now())
		return tr.Insert(ctx, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) ListForRequester(ctx context.Context, requesterID string) ([]*domain.Request, error) {
	if _, err := s.users.GetByID(ctx, requesterID); err != nil {
		return nil, err
	}
	return s.requests.ListByRequester(ctx, requesterID)
}

// Cancel sets the requester's own request to CANCELED.
func (s *Service) Cancel(ctx context.Context, requesterID, requestID string) (*domain.Request, error) {
	r, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if r.RequesterID != requesterID {
		return nil, domain.ErrForbidden("only the requester can cancel the request")
	}
	if err := r.Cancel(); err != nil {
		return nil, err
	}
	if err := s.requests.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}
