package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dkomarev/afisha/internal/application/event"
	"github.com/dkomarev/afisha/internal/domain"
	"github.com/dkomarev/afisha/internal/transport/http/dto"
	"github.com/dkomarev/afisha/internal/transport/http/response"
	"github.com/dkomarev/afisha/internal/transport/http/validate"
)

type EventsHandler struct {
	svc *event.Service
}

func NewEventsHandler(svc *event.Service) *EventsHandler {
	return &EventsHandler{svc: svc}
}

// Create handles POST /users/{user_id}/events.
func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if !sameUser(w, r, userID) {
		return
	}

	var req dto.CreateEventReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, r, domain.ErrValidation("invalid JSON body"))
		return
	}

	// Moderation defaults to on when the field is absent.
	moderation := true
	if req.RequestModeration != nil {
		moderation = *req.RequestModeration
	}

	ev, err := h.svc.Create(r.Context(), event.CreateCmd{
		InitiatorID:       userID,
		CategoryID:        req.CategoryID,
		Title:             req.Title,
		Annotation:        req.Annotation,
		Description:       req.Description,
		Location:          domain.Location{Lat: req.Location.Lat, Lon: req.Location.Lon},
		Paid:              req.Paid,
		ParticipantLimit:  req.ParticipantLimit,
		RequestModeration: moderation,
		EventDate:         req.EventDate,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusCreated, dto.FromEvent(ev, event.Occupancy{}))
}

// ListMine handles GET /users/{user_id}/events.
func (h *EventsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if !sameUser(w, r, userID) {
		return
	}
	q := r.URL.Query()

	events, err := h.svc.ListByInitiator(r.Context(), userID, intParam(q.Get("from"), 0), intParam(q.Get("size"), 0))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	occ, err := h.occupancyFor(r, events)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.FromEvents(events, occ))
}

// GetMine handles GET /users/{user_id}/events/{event_id}.
func (h *EventsHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if !sameUser(w, r, userID) {
		return
	}

	ev, err := h.svc.GetForInitiator(r.Context(), userID, chi.URLParam(r, "event_id"))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	occ, err := h.svc.Occupancy(r.Context(), []string{ev.ID})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.FromEvent(ev, occ[ev.ID]))
}

// UpdateMine handles PATCH /users/{user_id}/events/{event_id}.
func (h *EventsHandler) UpdateMine(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if !sameUser(w, r, userID) {
		return
	}
	h.update(w, r, event.Actor{ID: userID})
}

// UpdateAdmin handles PATCH /admin/events/{event_id}.
func (h *EventsHandler) UpdateAdmin(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, event.Actor{Admin: true})
}

func (h *EventsHandler) update(w http.ResponseWriter, r *http.Request, actor event.Actor) {
	var req dto.UpdateEventReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, r, domain.ErrValidation("invalid JSON body"))
		return
	}

	patch := domain.EventPatch{
		Title:             req.Title,
		Annotation:        req.Annotation,
		Description:       req.Description,
		Paid:              req.Paid,
		ParticipantLimit:  req.ParticipantLimit,
		RequestModeration: req.RequestModeration,
		EventDate:         req.EventDate,
		CategoryID:        req.CategoryID,
	}
	if req.Location != nil {
		patch.Location = &domain.Location{Lat: req.Location.Lat, Lon: req.Location.Lon}
	}

	var action *event.StateAction
	if req.StateAction != nil {
		a := event.StateAction(*req.StateAction)
		action = &a
	}

	ev, err := h.svc.Update(r.Context(), event.UpdateCmd{
		Actor:       actor,
		EventID:     chi.URLParam(r, "event_id"),
		Patch:       patch,
		StateAction: action,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	occ, err := h.svc.Occupancy(r.Context(), []string{ev.ID})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.FromEvent(ev, occ[ev.ID]))
}

// EventRequests handles GET /users/{user_id}/events/{event_id}/requests.
func (h *EventsHandler) EventRequests(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if !sameUser(w, r, userID) {
		return
	}

	reqs, err := h.svc.EventRequests(r.Context(), userID, chi.URLParam(r, "event_id"))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.FromRequests(reqs))
}

// ResolveRequests handles PATCH /users/{user_id}/events/{event_id}/requests.
func (h *EventsHandler) ResolveRequests(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if !sameUser(w, r, userID) {
		return
	}

	var req dto.ResolveRequestsReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, r, domain.ErrValidation("invalid JSON body"))
		return
	}

	res, err := h.svc.ResolveRequests(r.Context(), event.ResolveCmd{
		InitiatorID: userID,
		EventID:     chi.URLParam(r, "event_id"),
		RequestIDs:  req.RequestIDs,
		Status:      domain.RequestStatus(req.Status),
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ResolveRequestsResp{
		Confirmed: dto.FromRequests(res.Confirmed),
		Rejected:  dto.FromRequests(res.Rejected),
	})
}

// SearchAdmin handles GET /admin/events.
func (h *EventsHandler) SearchAdmin(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	rangeStart, err := timeParam(q.Get("range_start"), "range_start")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	rangeEnd, err := timeParam(q.Get("range_end"), "range_end")
	if err != nil {
		response.Err(w, r, err)
		return
	}

	var states []domain.EventState
	for _, s := range csvParam(q.Get("states")) {
		st := domain.EventState(s)
		if !st.Valid() {
			response.Err(w, r, domain.ErrValidationMeta("invalid query param", map[string]string{
				"states": "unknown event state: " + s,
			}))
			return
		}
		states = append(states, st)
	}

	events, err := h.svc.SearchAdmin(r.Context(), event.AdminFilter{
		InitiatorIDs: csvParam(q.Get("users")),
		States:       states,
		CategoryIDs:  csvParam(q.Get("categories")),
		RangeStart:   rangeStart,
		RangeEnd:     rangeEnd,
		From:         intParam(q.Get("from"), 0),
		Size:         intParam(q.Get("size"), 0),
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	occ, err := h.occupancyFor(r, events)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.FromEvents(events, occ))
}

// SearchPublic handles GET /events.
func (h *EventsHandler) SearchPublic(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sort := event.SortByDate
	switch q.Get("sort") {
	case "", string(event.SortByDate):
	case string(event.SortByViews):
		sort = event.SortByViews
	default:
		response.Err(w, r, domain.ErrValidationMeta("invalid query param", map[string]string{
			"sort": "must be one of: EVENT_DATE, VIEWS",
		}))
		return
	}

	rangeStart, err := timeParam(q.Get("range_start"), "range_start")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	rangeEnd, err := timeParam(q.Get("range_end"), "range_end")
	if err != nil {
		response.Err(w, r, err)
		return
	}

	onlyAvailable := false
	if v := boolParam(q.Get("only_available")); v != nil {
		onlyAvailable = *v
	}

	items, err := h.svc.SearchPublic(r.Context(), event.PublicSearchQuery{
		Filter: event.PublicFilter{
			Text:        q.Get("text"),
			CategoryIDs: csvParam(q.Get("categories")),
			Paid:        boolParam(q.Get("paid")),
			RangeStart:  rangeStart,
			RangeEnd:    rangeEnd,
			From:        intParam(q.Get("from"), 0),
			Size:        intParam(q.Get("size"), 0),
		},
		OnlyAvailable: onlyAvailable,
		Sort:          sort,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.FromEnriched(items))
}

// GetPublic handles GET /events/{event_id}.
func (h *EventsHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	ev, err := h.svc.GetPublic(r.Context(), chi.URLParam(r, "event_id"), r.RemoteAddr)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	occ, err := h.svc.Occupancy(r.Context(), []string{ev.ID})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.FromEvent(ev, occ[ev.ID]))
}

func (h *EventsHandler) occupancyFor(r *http.Request, events []*domain.Event) (map[string]event.Occupancy, error) {
	ids := make([]string, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.ID)
	}
	return h.svc.Occupancy(r.Context(), ids)
}
