package handlers

import (
	"net/http"

	"github.com/gatherhub/server/internal/api/problem"
	"github.com/gatherhub/server/internal/domain/users"
)

// AdminUsersHandler manages user accounts.
type AdminUsersHandler struct {
	Service *users.Service
	Env     string
}

func NewAdminUsersHandler(service *users.Service, env string) *AdminUsersHandler {
	return &AdminUsersHandler{Service: service, Env: env}
}

// Create handles POST /admin/users.
func (h *AdminUsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body newUserRequest
	if err := decodeBody(r, &body); err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	user, err := h.Service.Create(r.Context(), body.Name, body.Email)
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusCreated, toUserDTO(user))
}

// List handles GET /admin/users. With ids present the page parameters are
// ignored and exactly those users are returned.
func (h *AdminUsersHandler) List(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDList(r.URL.Query()["ids"], "ids")
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}
	page, err := parsePage(r)
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	items, err := h.Service.List(r.Context(), ids, page)
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	result := make([]userDTO, 0, len(items))
	for i := range items {
		result = append(result, toUserDTO(&items[i]))
	}
	writeJSON(w, http.StatusOK, result)
}

// Delete handles DELETE /admin/users/{userId}.
func (h *AdminUsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId")
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
