package handlers

import (
	"net/http"

	"github.com/gatherhub/server/internal/api/problem"
	"github.com/gatherhub/server/internal/domain/categories"
)

// CategoriesHandler serves the public category catalogue.
type CategoriesHandler struct {
	Service *categories.Service
	Env     string
}

func NewCategoriesHandler(service *categories.Service, env string) *CategoriesHandler {
	return &CategoriesHandler{Service: service, Env: env}
}

// List handles GET /categories.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	items, err := h.Service.List(r.Context(), page)
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	result := make([]categoryDTO, 0, len(items))
	for _, item := range items {
		result = append(result, categoryDTO{ID: item.ID, Name: item.Name})
	}
	writeJSON(w, http.StatusOK, result)
}

// Get handles GET /categories/{catId}.
func (h *CategoriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "catId")
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	category, err := h.Service.Get(r.Context(), id)
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, categoryDTO{ID: category.ID, Name: category.Name})
}
