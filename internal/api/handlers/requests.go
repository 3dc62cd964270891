package handlers

import (
	"net/http"

	"github.com/gatherhub/server/internal/api/problem"
	"github.com/gatherhub/server/internal/domain"
	"github.com/gatherhub/server/internal/domain/requests"
)

// RequestsHandler serves a user's own participation requests.
type RequestsHandler struct {
	Service *requests.Service
	Env     string
}

func NewRequestsHandler(service *requests.Service, env string) *RequestsHandler {
	return &RequestsHandler{Service: service, Env: env}
}

// Create handles POST /users/{userId}/requests?eventId=N.
func (h *RequestsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	eventID, err := queryID(r, "eventId")
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	request, err := h.Service.Create(r.Context(), userID, eventID)
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusCreated, toRequestDTO(*request))
}

// List handles GET /users/{userId}/requests.
func (h *RequestsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	items, err := h.Service.ListByRequester(r.Context(), userID)
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, toRequestList(items))
}

// Cancel handles PATCH /users/{userId}/requests/{requestId}/cancel.
func (h *RequestsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}
	requestID, err := pathID(r, "requestId")
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	request, err := h.Service.Cancel(r.Context(), userID, requestID)
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTO(*request))
}

func queryID(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, domain.Validationf(name, "is required")
	}
	ids, err := parseIDList([]string{raw}, name)
	if err != nil || len(ids) != 1 || ids[0] <= 0 {
		return 0, domain.Validationf(name, "must be a positive integer")
	}
	return ids[0], nil
}
