package dto

import (
	"github.com/dkomarev/afisha/internal/application/event"
	"github.com/dkomarev/afisha/internal/domain"
)

func FromEvent(e *domain.Event, occ event.Occupancy) EventResp {
	return EventResp{
		ID:                e.ID,
		InitiatorID:       e.InitiatorID,
		CategoryID:        e.CategoryID,
		Title:             e.Title,
		Annotation:        e.Annotation,
		Description:       e.Description,
		Location:          LocationDTO{Lat: e.Location.Lat, Lon: e.Location.Lon},
		Paid:              e.Paid,
		ParticipantLimit:  e.ParticipantLimit,
		RequestModeration: e.RequestModeration,
		State:             string(e.State),
		EventDate:         e.EventDate,
		CreatedOn:         e.CreatedOn,
		PublishedOn:       e.PublishedOn,
		ConfirmedRequests: occ.ConfirmedRequests,
		Views:             occ.Views,
	}
}

func FromEvents(events []*domain.Event, occ map[string]event.Occupancy) []EventResp {
	out := make([]EventResp, 0, len(events))
	for _, e := range events {
		out = append(out, FromEvent(e, occ[e.ID]))
	}
	return out
}

func FromEnriched(items []event.EnrichedEvent) []EventResp {
	out := make([]EventResp, 0, len(items))
	for _, it := range items {
		out = append(out, FromEvent(it.Event, it.Occupancy))
	}
	return out
}

func FromRequest(r *domain.Request) RequestResp {
	return RequestResp{
		ID:          r.ID,
		RequesterID: r.RequesterID,
		EventID:     r.EventID,
		Status:      string(r.Status),
		Created:     r.Created,
	}
}

func FromRequests(reqs []*domain.Request) []RequestResp {
	out := make([]RequestResp, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, FromRequest(r))
	}
	return out
}

func FromComment(c *domain.Comment) CommentResp {
	return CommentResp{
		ID:        c.ID,
		AuthorID:  c.AuthorID,
		EventID:   c.EventID,
		Text:      c.Text,
		Status:    string(c.Status),
		CreatedOn: c.CreatedOn,
	}
}

func FromComments(cs []*domain.Comment) []CommentResp {
	out := make([]CommentResp, 0, len(cs))
	for _, c := range cs {
		out = append(out, FromComment(c))
	}
	return out
}

func FromCategory(c *domain.Category) CategoryResp {
	return CategoryResp{ID: c.ID, Name: c.Name}
}

func FromCategories(cs []*domain.Category) []CategoryResp {
	out := make([]CategoryResp, 0, len(cs))
	for _, c := range cs {
		out = append(out, FromCategory(c))
	}
	return out
}

func FromUser(u *domain.User) UserResp {
	return UserResp{ID: u.ID, Name: u.Name, Email: u.Email}
}

func FromUsers(us []*domain.User) []UserResp {
	out := make([]UserResp, 0, len(us))
	for _, u := range us {
		out = append(out, FromUser(u))
	}
	return out
}

func FromCompilation(c *domain.Compilation) CompilationResp {
	ids := c.EventIDs
	if ids == nil {
		ids = []string{}
	}
	return CompilationResp{ID: c.ID, Title: c.Title, Pinned: c.Pinned, EventIDs: ids}
}

func FromCompilations(cs []*domain.Compilation) []CompilationResp {
	out := make([]CompilationResp, 0, len(cs))
	for _, c := range cs {
		out = append(out, FromCompilation(c))
	}
	return out
}
