package dto

import "time"

type LocationDTO struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type CreateEventReq struct {
	CategoryID  string      `json:"category_id"`
	Title       string      `json:"title"`
	Annotation  string      `json:"annotation"`
	Description string      `json:"description"`
	Location    LocationDTO `json:"location"`

	Paid              bool      `json:"paid"`
	ParticipantLimit  int       `json:"participant_limit"`
	RequestModeration *bool     `json:"request_moderation"`
	EventDate         time.Time `json:"event_date"`
}

// UpdateEventReq is a merge patch: absent fields stay untouched.
// state_action is SEND_TO_REVIEW / CANCEL_REVIEW for owners and
// PUBLISH_EVENT / REJECT_EVENT for admins.
type UpdateEventReq struct {
	CategoryID  *string      `json:"category_id"`
	Title       *string      `json:"title"`
	Annotation  *string      `json:"annotation"`
	Description *string      `json:"description"`
	Location    *LocationDTO `json:"location"`

	Paid              *bool      `json:"paid"`
	ParticipantLimit  *int       `json:"participant_limit"`
	RequestModeration *bool      `json:"request_moderation"`
	EventDate         *time.Time `json:"event_date"`

	StateAction *string `json:"state_action"`
}

// EventResp is the stable API response model. confirmed_requests and views
// are recomputed per read, never stored.
type EventResp struct {
	ID          string `json:"id"`
	InitiatorID string `json:"initiator_id"`
	CategoryID  string `json:"category_id"`

	Title       string      `json:"title"`
	Annotation  string      `json:"annotation"`
	Description string      `json:"description"`
	Location    LocationDTO `json:"location"`

	Paid bool `json:"paid"`
	// 0 means unlimited
	ParticipantLimit  int  `json:"participant_limit"`
	RequestModeration bool `json:"request_moderation"`

	State       string     `json:"state"`
	EventDate   time.Time  `json:"event_date"`
	CreatedOn   time.Time  `json:"created_on"`
	PublishedOn *time.Time `json:"published_on,omitempty"`

	ConfirmedRequests int   `json:"confirmed_requests"`
	Views             int64 `json:"views"`
}

type ResolveRequestsReq struct {
	RequestIDs []string `json:"request_ids"`
	Status     string   `json:"status"`
}

type ResolveRequestsResp struct {
	Confirmed []RequestResp `json:"confirmed_requests"`
	Rejected  []RequestResp `json:"rejected_requests"`
}
