package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dkomarev/afisha/internal/application/comment"
	"github.com/dkomarev/afisha/internal/domain"
	"github.com/dkomarev/afisha/internal/transport/http/dto"
	"github.com/dkomarev/afisha/internal/transport/http/response"
	"github.com/dkomarev/afisha/internal/transport/http/validate"
)

type CommentsHandler struct {
	svc *comment.Service
}

func NewCommentsHandler(svc *comment.Service) *CommentsHandler {
	return &CommentsHandler{svc: svc}
}

// Create handles POST /users/{user_id}/comments?event_id=...
func (h *CommentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if !sameUser(w, r, userID) {
		return
	}
	eventID := strings.TrimSpace(r.URL.Query().Get("event_id"))
	if eventID == "" {
		response.Err(w, r, domain.ErrValidation("event_id query param is required"))
		return
	}

	var req dto.CreateCommentReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, r, domain.ErrValidation("invalid JSON body"))
		return
	}

	c, err := h.svc.Create(r.Context(), userID, eventID, req.Text)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusCreated, dto.FromComment(c))
}

// ListMine handles GET /users/{user_id}/comments.
func (h *CommentsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if !sameUser(w, r, userID) {
		return
	}
	q := r.URL.Query()

	var status *domain.CommentStatus
	if s := strings.TrimSpace(q.Get("status")); s != "" {
		st := domain.CommentStatus(s)
		if !st.Valid() {
			response.Err(w, r, domain.ErrValidationMeta("invalid query param", map[string]string{
				"status": "unknown comment status: " + s,
			}))
			return
		}
		status = &st
	}

	cs, err := h.svc.ListByAuthor(r.Context(), comment.AuthorFilter{
		AuthorID: userID,
		EventIDs: csvParam(q.Get("events")),
		Status:   status,
		From:     intParam(q.Get("from"), 0),
		Size:     intParam(q.Get("size"), 0),
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.FromComments(cs))
}

// Update handles PATCH /users/{user_id}/comments/{comment_id}.
func (h *CommentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if !sameUser(w, r, userID) {
		return
	}

	var req dto.UpdateCommentReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, r, domain.ErrValidation("invalid JSON body"))
		return
	}

	c, err := h.svc.Update(r.Context(), userID, chi.URLParam(r, "comment_id"), req.Text)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.FromComment(c))
}

// Delete handles DELETE /users/{user_id}/comments/{comment_id}.
func (h *CommentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if !sameUser(w, r, userID) {
		return
	}

	if err := h.svc.Delete(r.Context(), userID, chi.URLParam(r, "comment_id")); err != nil {
		response.Err(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListAdmin handles GET /admin/comments?status=...
func (h *CommentsHandler) ListAdmin(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var status *domain.CommentStatus
	if s := strings.TrimSpace(q.Get("status")); s != "" {
		st := domain.CommentStatus(s)
		if !st.Valid() {
			response.Err(w, r, domain.ErrValidationMeta("invalid query param", map[string]string{
				"status": "unknown comment status: " + s,
			}))
			return
		}
		status = &st
	}

	cs, err := h.svc.ListForAdmin(r.Context(), status, intParam(q.Get("from"), 0), intParam(q.Get("size"), 0))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.FromComments(cs))
}

// Moderate handles PATCH /admin/comments/{comment_id}.
func (h *CommentsHandler) Moderate(w http.ResponseWriter, r *http.Request) {
	var req dto.ModerateCommentReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, r, domain.ErrValidation("invalid JSON body"))
		return
	}

	c, err := h.svc.Moderate(r.Context(), chi.URLParam(r, "comment_id"), req.Approve)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.FromComment(c))
}

// ListPublic handles GET /events/{event_id}/comments.
func (h *CommentsHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cs, err := h.svc.ListPublic(r.Context(), chi.URLParam(r, "event_id"),
		intParam(q.Get("from"), 0), intParam(q.Get("size"), 0))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.FromComments(cs))
}
