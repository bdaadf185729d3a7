package event

import (
	"context"
	"fmt"

	"github.com/dkomarev/afisha/internal/domain"
)

type ResolveCmd struct {
	InitiatorID string
	EventID     string
	RequestIDs  []string
	// Status is the desired outcome: CONFIRMED or REJECTED.
	Status domain.RequestStatus
}

type ResolveResult struct {
	Confirmed []*domain.Request
	Rejected  []*domain.Request
}

// ResolveRequests confirms or rejects a batch of pending requests.
//
// Capacity is read once, up front, inside the same transaction that writes
// the statuses, with the event row locked. Checking per item against
// interleaved re-reads could reject a request that would have fit; checking
// once lets the batch degrade to partial confirmation instead of failing
// outright whenever at least one slot exists.
func (s *Service) ResolveRequests(ctx context.Context, cmd ResolveCmd) (ResolveResult, error) {
	if cmd.Status != domain.RequestConfirmed && cmd.Status != domain.RequestRejected {
		return ResolveResult{}, domain.ErrValidation("status must be CONFIRMED or REJECTED")
	}
	if len(cmd.RequestIDs) == 0 {
		return ResolveResult{}, domain.ErrValidation("request ids are required")
	}

	var res ResolveResult
	err := s.events.WithTx(ctx, func(tr TxEventRepo) error {
		ev, err := tr.GetByIDForUpdate(ctx, cmd.EventID)
		if err != nil {
			return err
		}
		if ev.InitiatorID != cmd.InitiatorID {
			return domain.ErrForbidden("only the initiator can resolve requests")
		}

		requests, err := tr.GetRequestsByIDs(ctx, cmd.RequestIDs)
		if err != nil {
			return err
		}
		byID := make(map[string]*domain.Request, len(requests))
		for _, r := range requests {
			byID[r.ID] = r
		}

		// Pre-validate the whole batch before any mutation.
		ordered := make([]*domain.Request, 0, len(cmd.RequestIDs))
		for _, id := range cmd.RequestIDs {
			r, ok := byID[id]
			if !ok || r.EventID != ev.ID {
				return domain.ErrNotFound(fmt.Sprintf("request %s not found for event", id))
			}
			if r.Status != domain.RequestPending {
				return domain.ErrConflict(fmt.Sprintf("request %s must have status PENDING", id))
			}
			ordered = append(ordered, r)
		}

		confirmed, err := tr.CountConfirmed(ctx, ev.ID)
		if err != nil {
			return err
		}
		free := len(ordered)
		if ev.ParticipantLimit > 0 {
			free = ev.ParticipantLimit - confirmed
		}
		if free <= 0 {
			return domain.ErrConflict("the participant limit has been reached")
		}

		// Allocate in the order supplied by the caller.
		for _, r := range ordered {
			if cmd.Status == domain.RequestRejected || free <= 0 {
				r.Status = domain.RequestRejected
				res.Rejected = append(res.Rejected, r)
				continue
			}
			r.Status = domain.RequestConfirmed
			res.Confirmed = append(res.Confirmed, r)
			free--
		}

		return tr.UpdateRequests(ctx, ordered)
	})
	if err != nil {
		return ResolveResult{}, err
	}
	return res, nil
}

// EventRequests lists the participation requests for an initiator's event.
func (s *Service) EventRequests(ctx context.Context, initiatorID, eventID string) ([]*domain.Request, error) {
	ev, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev.InitiatorID != initiatorID {
		return nil, domain.ErrForbidden("only the initiator can view event requests")
	}
	return s.requests.ListByEvent(ctx, eventID)
}
