package domain

import (
	"time"

	"github.com/google/uuid"
)

// Request is a user's application to attend an event. Requester and event
// are fixed at creation; only the status moves.
type Request struct {
	ID          string
	RequesterID string
	EventID     string
	Status      RequestStatus
	Created     time.Time
}

// NewRequest computes the initial status from the event snapshot taken
// before validation: unlimited or unmoderated events auto-confirm,
// moderated events always start pending even while capacity remains.
func NewRequest(requesterID string, ev *Event, now time.Time) *Request {
	status := RequestPending
	if ev.ParticipantLimit == 0 || !ev.RequestModeration {
		status = RequestConfirmed
	}
	return &Request{
		ID:          uuid.NewString(),
		RequesterID: requesterID,
		EventID:     ev.ID,
		Status:      status,
		Created:     now.UTC(),
	}
}

// Cancel is the only backwards transition a requester may make, and only
// out of a non-terminal status.
func (r *Request) Cancel() error {
	switch r.Status {
	case RequestPending, RequestConfirmed:
		r.Status = RequestCanceled
		return nil
	default:
		return ErrConflict("only pending or confirmed requests can be canceled")
	}
}
