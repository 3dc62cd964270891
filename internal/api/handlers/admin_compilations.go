package handlers

import (
	"net/http"

	"github.com/gatherhub/server/internal/api/problem"
	"github.com/gatherhub/server/internal/domain/compilations"
)

// AdminCompilationsHandler manages curated event compilations.
type AdminCompilationsHandler struct {
	Service *compilations.Service
	Env     string
}

func NewAdminCompilationsHandler(service *compilations.Service, env string) *AdminCompilationsHandler {
	return &AdminCompilationsHandler{Service: service, Env: env}
}

// Create handles POST /admin/compilations.
func (h *AdminCompilationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body newCompilationRequest
	if err := decodeBody(r, &body); err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	compilation, err := h.Service.Create(r.Context(), compilations.NewCompilation{
		Title:    body.Title,
		Pinned:   body.Pinned,
		EventIDs: body.Events,
	})
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusCreated, toCompilationDTO(compilation))
}

// Update handles PATCH /admin/compilations/{compId}.
func (h *AdminCompilationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "compId")
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	var body updateCompilationRequest
	if err := decodeBody(r, &body); err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	compilation, err := h.Service.Update(r.Context(), id, compilations.Patch{
		Title:    body.Title,
		Pinned:   body.Pinned,
		EventIDs: body.Events,
	})
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, toCompilationDTO(compilation))
}

// Delete handles DELETE /admin/compilations/{compId}.
func (h *AdminCompilationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "compId")
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
