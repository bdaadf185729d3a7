package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dkomarev/afisha/internal/application/category"
	"github.com/dkomarev/afisha/internal/domain"
	"github.com/dkomarev/afisha/internal/transport/http/dto"
	"github.com/dkomarev/afisha/internal/transport/http/response"
	"github.com/dkomarev/afisha/internal/transport/http/validate"
)

type CategoriesHandler struct {
	svc *category.Service
}

func NewCategoriesHandler(svc *category.Service) *CategoriesHandler {
	return &CategoriesHandler{svc: svc}
}

// Create handles POST /admin/categories.
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CategoryReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, r, domain.ErrValidation("invalid JSON body"))
		return
	}

	c, err := h.svc.Create(r.Context(), req.Name)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusCreated, dto.FromCategory(c))
}

// Update handles PATCH /admin/categories/{cat_id}.
func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.CategoryReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, r, domain.ErrValidation("invalid JSON body"))
		return
	}

	c, err := h.svc.Update(r.Context(), chi.URLParam(r, "cat_id"), req.Name)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.FromCategory(c))
}

// Delete handles DELETE /admin/categories/{cat_id}.
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "cat_id")); err != nil {
		response.Err(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /categories.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cs, err := h.svc.List(r.Context(), intParam(q.Get("from"), 0), intParam(q.Get("size"), 0))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.FromCategories(cs))
}

// Get handles GET /categories/{cat_id}.
func (h *CategoriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Get(r.Context(), chi.URLParam(r, "cat_id"))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.FromCategory(c))
}
