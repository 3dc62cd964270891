package handlers

import (
	"net/http"

	"github.com/gatherhub/server/internal/api/problem"
	"github.com/gatherhub/server/internal/domain/categories"
)

// AdminCategoriesHandler manages the category catalogue.
type AdminCategoriesHandler struct {
	Service *categories.Service
	Env     string
}

func NewAdminCategoriesHandler(service *categories.Service, env string) *AdminCategoriesHandler {
	return &AdminCategoriesHandler{Service: service, Env: env}
}

// Create handles POST /admin/categories.
func (h *AdminCategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body newCategoryRequest
	if err := decodeBody(r, &body); err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	category, err := h.Service.Create(r.Context(), body.Name)
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusCreated, categoryDTO{ID: category.ID, Name: category.Name})
}

// Update handles PATCH /admin/categories/{catId}.
func (h *AdminCategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "catId")
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	var body newCategoryRequest
	if err := decodeBody(r, &body); err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	category, err := h.Service.Update(r.Context(), id, body.Name)
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, categoryDTO{ID: category.ID, Name: category.Name})
}

// Delete handles DELETE /admin/categories/{catId}. Categories still
// referenced by events cannot be removed.
func (h *AdminCategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "catId")
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
