package event

import (
	"context"
	"strings"
	"time"
)

const (
	EventVersion  = 1
	EventProducer = "afisha-main"
)

// DomainEventEnvelope is the stable contract for domain events emitted via
// the outbox. Consumers rely on version/producer/message_id/occurred_at.
type DomainEventEnvelope[T any] struct {
	Version    int       `json:"version"`
	Producer   string    `json:"producer"`
	MessageID  string    `json:"message_id"`
	TraceID    string    `json:"trace_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    T         `json:"payload"`
}

// EventStatePayload is the business payload for event.published and
// event.canceled routing keys.
type EventStatePayload struct {
	EventID          string     `json:"event_id"`
	InitiatorID      string     `json:"initiator_id"`
	CategoryID       string     `json:"category_id"`
	Title            string     `json:"title"`
	EventDate        time.Time  `json:"event_date"`
	ParticipantLimit int        `json:"participant_limit"`
	State            string     `json:"state"`
	PublishedOn      *time.Time `json:"published_on,omitempty"`
}

// ---- trace id plumbing ----
// If the transport layer stores a request id in context, it shows up as
// trace_id on emitted events; otherwise the field is omitted.

type ctxKey string

const ctxRequestID ctxKey = "request_id"

func WithRequestID(ctx context.Context, id string) context.Context {
	id = strings.TrimSpace(id)
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxRequestID, id)
}

func TraceIDFromContext(ctx context.Context) string {
	if v := ctx.Value(ctxRequestID); v != nil {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
