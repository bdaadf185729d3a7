package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dkomarev/afisha/internal/application/request"
	"github.com/dkomarev/afisha/internal/domain"
	"github.com/dkomarev/afisha/internal/transport/http/dto"
	"github.com/dkomarev/afisha/internal/transport/http/response"
)

type RequestsHandler struct {
	svc *request.Service
}

func NewRequestsHandler(svc *request.Service) *RequestsHandler {
	return &RequestsHandler{svc: svc}
}

// Create handles POST /users/{user_id}/requests?event_id=...
func (h *RequestsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if !sameUser(w, r, userID) {
		return
	}
	eventID := strings.TrimSpace(r.URL.Query().Get("event_id"))
	if eventID == "" {
		response.Err(w, r, domain.ErrValidation("event_id query param is required"))
		return
	}

	req, err := h.svc.Create(r.Context(), userID, eventID)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusCreated, dto.FromRequest(req))
}

// List handles GET /users/{user_id}/requests.
func (h *RequestsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if !sameUser(w, r, userID) {
		return
	}

	reqs, err := h.svc.ListForRequester(r.Context(), userID)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.FromRequests(reqs))
}

// Cancel handles PATCH /users/{user_id}/requests/{request_id}/cancel.
func (h *RequestsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if !sameUser(w, r, userID) {
		return
	}

	req, err := h.svc.Cancel(r.Context(), userID, chi.URLParam(r, "request_id"))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.FromRequest(req))
}
