package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Lead times between "now" and an event's scheduled date. Authoring
// (create/edit) and going live intentionally use different thresholds.
const (
	AuthorLeadTime  = 2 * time.Hour
	PublishLeadTime = 1 * time.Hour
)

type Location struct {
	Lat float64
	Lon float64
}

type Event struct {
	ID          string
	InitiatorID string
	CategoryID  string

	Title       string
	Annotation  string
	Description string
	Location    Location

	Paid              bool
	ParticipantLimit  int // 0 = unlimited
	RequestModeration bool

	State       EventState
	EventDate   time.Time
	CreatedOn   time.Time
	PublishedOn *time.Time
}

func NewEvent(initiatorID, categoryID, title, annotation, description string, loc Location, paid bool, limit int, moderation bool, eventDate, now time.Time) (*Event, error) {
	initiatorID = strings.TrimSpace(initiatorID)
	categoryID = strings.TrimSpace(categoryID)
	title = strings.TrimSpace(title)
	annotation = strings.TrimSpace(annotation)
	description = strings.TrimSpace(description)

	if initiatorID == "" {
		return nil, ErrValidation("initiator id is required")
	}
	if categoryID == "" {
		return nil, ErrValidation("category id is required")
	}
	if title == "" || len(title) > 120 {
		return nil, ErrValidation("title is required and must be <= 120 chars")
	}
	if annotation == "" || len(annotation) > 2000 {
		return nil, ErrValidation("annotation is required and must be <= 2000 chars")
	}
	if description == "" || len(description) > 7000 {
		return nil, ErrValidation("description is required and must be <= 7000 chars")
	}
	if limit < 0 {
		return nil, ErrValidation("participant limit must be >= 0 (0 means unlimited)")
	}
	if err := validateEventDate(eventDate, now); err != nil {
		return nil, err
	}

	return &Event{
		ID:                uuid.NewString(),
		InitiatorID:       initiatorID,
		CategoryID:        categoryID,
		Title:             title,
		Annotation:        annotation,
		Description:       description,
		Location:          loc,
		Paid:              paid,
		ParticipantLimit:  limit,
		RequestModeration: moderation,
		State:             StatePending,
		EventDate:         eventDate.UTC(),
		CreatedOn:         now.UTC(),
	}, nil
}

func validateEventDate(eventDate, now time.Time) error {
	if eventDate.IsZero() {
		return ErrValidation("event date is required")
	}
	if eventDate.Before(now.Add(AuthorLeadTime)) {
		return ErrValidation("event date must be at least 2 hours ahead")
	}
	return nil
}

// Editable reports whether the initiator may still change the event.
func (e *Event) Editable() bool {
	return e.State == StatePending || e.State == StateCanceled
}

func (e *Event) SendToReview() error {
	if e.State == StatePublished {
		return ErrConflict("published event cannot be sent to review")
	}
	e.State = StatePending
	return nil
}

func (e *Event) CancelReview() error {
	if e.State == StatePublished {
		return ErrConflict("published event cannot be canceled by review action")
	}
	e.State = StateCanceled
	return nil
}

// Publish moves a pending event live. publishedOn is captured exactly once.
func (e *Event) Publish(now time.Time) error {
	if e.State != StatePending {
		return ErrConflict("only pending events can be published")
	}
	if now.Add(PublishLeadTime).After(e.EventDate) {
		return ErrConflict("less than 1 hour between publish time and event date")
	}
	t := now.UTC()
	e.State = StatePublished
	e.PublishedOn = &t
	return nil
}

func (e *Event) Reject() error {
	if e.State == StatePublished {
		return ErrConflict("published event cannot be rejected")
	}
	e.State = StateCanceled
	return nil
}

// EventPatch is a merge patch: nil fields are left untouched. Category
// changes are resolved by the caller before the patch is applied.
type EventPatch struct {
	Title             *string
	Annotation        *string
	Description       *string
	Location          *Location
	Paid              *bool
	ParticipantLimit  *int
	RequestModeration *bool
	EventDate         *time.Time
	CategoryID        *string
}

func (e *Event) ApplyPatch(p EventPatch, now time.Time) error {
	if p.EventDate != nil {
		if err := validateEventDate(*p.EventDate, now); err != nil {
			return err
		}
		e.EventDate = p.EventDate.UTC()
	}
	if p.Title != nil {
		v := strings.TrimSpace(*p.Title)
		if v == "" || len(v) > 120 {
			return ErrValidation("title must be non-empty and <= 120 chars")
		}
		e.Title = v
	}
	if p.Annotation != nil {
		v := strings.TrimSpace(*p.Annotation)
		if v == "" || len(v) > 2000 {
			return ErrValidation("annotation must be non-empty and <= 2000 chars")
		}
		e.Annotation = v
	}
	if p.Description != nil {
		v := strings.TrimSpace(*p.Description)
		if v == "" || len(v) > 7000 {
			return ErrValidation("description must be non-empty and <= 7000 chars")
		}
		e.Description = v
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Paid != nil {
		e.Paid = *p.Paid
	}
	if p.ParticipantLimit != nil {
		if *p.ParticipantLimit < 0 {
			return ErrValidation("participant limit must be >= 0 (0 means unlimited)")
		}
		e.ParticipantLimit = *p.ParticipantLimit
	}
	if p.RequestModeration != nil {
		e.RequestModeration = *p.RequestModeration
	}
	if p.CategoryID != nil {
		v := strings.TrimSpace(*p.CategoryID)
		if v == "" {
			return ErrValidation("category id must be non-empty")
		}
		e.CategoryID = v
	}
	return nil
}
