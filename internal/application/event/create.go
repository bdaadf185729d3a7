package event

import (
	"context"
	"time"

	"github.com/dkomarev/afisha/internal/domain"
)

type CreateCmd struct {
	InitiatorID string
	CategoryID  string

	Title       string
	Annotation  string
	Description string
	Location    domain.Location

	Paid              bool
	ParticipantLimit  int
	RequestModeration bool
	EventDate         time.Time
}

func (s *Service) Create(ctx context.Context, cmd CreateCmd) (*domain.Event, error) {
	if _, err := s.users.GetByID(ctx, cmd.InitiatorID); err != nil {
		return nil, err
	}
	if _, err := s.categories.GetByID(ctx, cmd.CategoryID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	e, err := domain.NewEvent(
		cmd.InitiatorID, cmd.CategoryID,
		cmd.Title, cmd.Annotation, cmd.Description, cmd.Location,
		cmd.Paid, cmd.ParticipantLimit, cmd.RequestModeration,
		cmd.EventDate, now,
	)
	if err != nil {
		return nil, err
	}
	if err := s.events.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}
