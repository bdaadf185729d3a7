package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dkomarev/afisha/internal/domain"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
)

type StateAction string

const (
	SendToReview StateAction = "SEND_TO_REVIEW"
	CancelReview StateAction = "CANCEL_REVIEW"
	PublishEvent StateAction = "PUBLISH_EVENT"
	RejectEvent  StateAction = "REJECT_EVENT"
)

// UpdateCmd is the single change-set shape shared by the owner and admin
// update paths; the Actor decides which permission gates apply.
type UpdateCmd struct {
	Actor   Actor
	EventID string

	Patch       domain.EventPatch
	StateAction *StateAction
}

// Update applies a merge patch and an optional lifecycle transition in one
// transaction. Owners may edit only pending or canceled events and may only
// toggle the review state; admins may edit any state and publish or reject.
func (s *Service) Update(ctx context.Context, cmd UpdateCmd) (*domain.Event, error) {
	if cmd.StateAction != nil {
		switch *cmd.StateAction {
		case SendToReview, CancelReview:
			if cmd.Actor.Admin {
				return nil, domain.ErrValidation("review actions are owner actions")
			}
		case PublishEvent, RejectEvent:
			if !cmd.Actor.Admin {
				return nil, domain.ErrForbidden("only admin can publish or reject events")
			}
		default:
			return nil, domain.ErrValidation("unknown state action")
		}
	}

	if cmd.Patch.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *cmd.Patch.CategoryID); err != nil {
			return nil, err
		}
	}

	var out *domain.Event
	err := s.events.WithTx(ctx, func(tr TxEventRepo) error {
		ev, err := tr.GetByIDForUpdate(ctx, cmd.EventID)
		if err != nil {
			return err
		}

		if !cmd.Actor.Admin {
			if ev.InitiatorID != cmd.Actor.ID {
				return domain.ErrForbidden("only the initiator can change the event")
			}
			if !ev.Editable() {
				return domain.ErrConflict("only pending or canceled events can be changed")
			}
		}

		now := s.clock.Now()
		if err := ev.ApplyPatch(cmd.Patch, now); err != nil {
			return err
		}

		var routingKey string
		if cmd.StateAction != nil {
			switch *cmd.StateAction {
			case SendToReview:
				if err := ev.SendToReview(); err != nil {
					return err
				}
			case CancelReview:
				if err := ev.CancelReview(); err != nil {
					return err
				}
				routingKey = "event.canceled"
			case PublishEvent:
				if err := ev.Publish(now); err != nil {
					return err
				}
				routingKey = "event.published"
			case RejectEvent:
				if err := ev.Reject(); err != nil {
					return err
				}
				routingKey = "event.canceled"
			}
		}

		if err := tr.Update(ctx, ev); err != nil {
			return err
		}
		if routingKey != "" {
			if err := s.insertStateOutbox(ctx, tr, ev, routingKey, now); err != nil {
				return err
			}
		}
		out = ev
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		key := cacheKeyEventDetails(out.ID)
		if err := s.cache.Delete(ctx, key); err != nil {
			zlog.Warn().Err(err).Str("key", key).Msg("cache invalidate failed")
		}
	}
	return out, nil
}

func (s *Service) insertStateOutbox(ctx context.Context, tr TxEventRepo, ev *domain.Event, routingKey string, now time.Time) error {
	messageID := uuid.NewString()
	env := DomainEventEnvelope[EventStatePayload]{
		Version:    EventVersion,
		Producer:   EventProducer,
		MessageID:  messageID,
		TraceID:    TraceIDFromContext(ctx),
		OccurredAt: now,
		Payload: EventStatePayload{
			EventID:          ev.ID,
			InitiatorID:      ev.InitiatorID,
			CategoryID:       ev.CategoryID,
			Title:            ev.Title,
			EventDate:        ev.EventDate,
			ParticipantLimit: ev.ParticipantLimit,
			State:            string(ev.State),
			PublishedOn:      ev.PublishedOn,
		},
	}
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return tr.InsertOutbox(ctx, OutboxMessage{
		MessageID:  messageID,
		RoutingKey: routingKey,
		Body:       body,
		CreatedAt:  now.UTC(),
	})
}
