package event

import (
	"context"

	"github.com/dkomarev/afisha/internal/domain"
	zlog "github.com/rs/zerolog/log"
)

// GetForInitiator returns an event to its owner. No caching here: the
// organizer view needs strict consistency.
func (s *Service) GetForInitiator(ctx context.Context, initiatorID, eventID string) (*domain.Event, error) {
	ev, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev.InitiatorID != initiatorID {
		return nil, domain.ErrForbidden("only the initiator can view this event")
	}
	return ev, nil
}

func (s *Service) ListByInitiator(ctx context.Context, initiatorID string, from, size int) ([]*domain.Event, error) {
	if _, err := s.users.GetByID(ctx, initiatorID); err != nil {
		return nil, err
	}
	from, size, err := normalizePage(from, size)
	if err != nil {
		return nil, err
	}
	return s.events.ListByInitiator(ctx, initiatorID, from, size)
}

// GetPublic returns a published event and registers a view hit with the
// stats collaborator. Only the stored row is cached; occupancy figures are
// recomputed on every read so confirmed counts never go stale.
func (s *Service) GetPublic(ctx context.Context, eventID, clientIP string) (*domain.Event, error) {
	ev, err := s.getPublicCached(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if s.stats != nil {
		if err := s.stats.Hit(ctx, eventURI(ev.ID), clientIP, s.clock.Now()); err != nil {
			zlog.Warn().Err(err).Str("event_id", ev.ID).Msg("stats hit failed")
		}
	}
	return ev, nil
}

func (s *Service) getPublicCached(ctx context.Context, eventID string) (*domain.Event, error) {
	key := cacheKeyEventDetails(eventID)
	if s.cache != nil {
		var cached domain.Event
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			zlog.Warn().Err(err).Str("key", key).Msg("cache get failed")
		} else if found {
			return &cached, nil
		}
	}

	ev, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev.State != domain.StatePublished {
		return nil, domain.ErrNotFound("event not found or is not published")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, ev, s.ttlDetails); err != nil {
			zlog.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}
	return ev, nil
}

func normalizePage(from, size int) (int, int, error) {
	if from < 0 || size < 0 {
		return 0, 0, domain.ErrValidation("'from' and 'size' must not be negative")
	}
	if size == 0 {
		size = 10
	}
	if size > 100 {
		size = 100
	}
	return from, size, nil
}
