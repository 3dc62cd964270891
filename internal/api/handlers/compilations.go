package handlers

import (
	"net/http"

	"github.com/gatherhub/server/internal/api/problem"
	"github.com/gatherhub/server/internal/domain/compilations"
)

// CompilationsHandler serves the public compilation catalogue.
type CompilationsHandler struct {
	Service *compilations.Service
	Env     string
}

func NewCompilationsHandler(service *compilations.Service, env string) *CompilationsHandler {
	return &CompilationsHandler{Service: service, Env: env}
}

// List handles GET /compilations.
func (h *CompilationsHandler) List(w http.ResponseWriter, r *http.Request) {
	pinned, err := parseBoolParam(r.URL.Query().Get("pinned"), "pinned")
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}
	page, err := parsePage(r)
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	items, err := h.Service.List(r.Context(), pinned, page)
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	result := make([]compilationDTO, 0, len(items))
	for i := range items {
		result = append(result, toCompilationDTO(&items[i]))
	}
	writeJSON(w, http.StatusOK, result)
}

// Get handles GET /compilations/{compId}.
func (h *CompilationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "compId")
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	compilation, err := h.Service.Get(r.Context(), id)
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, toCompilationDTO(compilation))
}
