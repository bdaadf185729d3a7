package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dkomarev/afisha/internal/application/compilation"
	"github.com/dkomarev/afisha/internal/domain"
	"github.com/dkomarev/afisha/internal/transport/http/dto"
	"github.com/dkomarev/afisha/internal/transport/http/response"
	"github.com/dkomarev/afisha/internal/transport/http/validate"
)

type CompilationsHandler struct {
	svc *compilation.Service
}

func NewCompilationsHandler(svc *compilation.Service) *CompilationsHandler {
	return &CompilationsHandler{svc: svc}
}

// Create handles POST /admin/compilations.
func (h *CompilationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCompilationReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, r, domain.ErrValidation("invalid JSON body"))
		return
	}

	c, err := h.svc.Create(r.Context(), req.Title, req.Pinned, req.EventIDs)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusCreated, dto.FromCompilation(c))
}

// Update handles PATCH /admin/compilations/{comp_id}.
func (h *CompilationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateCompilationReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, r, domain.ErrValidation("invalid JSON body"))
		return
	}

	c, err := h.svc.Update(r.Context(), chi.URLParam(r, "comp_id"), compilation.UpdatePatch{
		Title:    req.Title,
		Pinned:   req.Pinned,
		EventIDs: req.EventIDs,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.FromCompilation(c))
}

// Delete handles DELETE /admin/compilations/{comp_id}.
func (h *CompilationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "comp_id")); err != nil {
		response.Err(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /compilations?pinned=...
func (h *CompilationsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cs, err := h.svc.List(r.Context(), boolParam(q.Get("pinned")),
		intParam(q.Get("from"), 0), intParam(q.Get("size"), 0))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.FromCompilations(cs))
}

// Get handles GET /compilations/{comp_id}.
func (h *CompilationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Get(r.Context(), chi.URLParam(r, "comp_id"))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.FromCompilation(c))
}
