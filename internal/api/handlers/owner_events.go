package handlers

import (
	"net/http"

	"github.com/gatherhub/server/internal/api/problem"
	"github.com/gatherhub/server/internal/domain/events"
	"github.com/gatherhub/server/internal/domain/requests"
)

// OwnerEventsHandler serves the event endpoints scoped to the owning user.
type OwnerEventsHandler struct {
	Events   *events.Service
	Requests *requests.Service
	Env      string
}

func NewOwnerEventsHandler(eventService *events.Service, requestService *requests.Service, env string) *OwnerEventsHandler {
	return &OwnerEventsHandler{Events: eventService, Requests: requestService, Env: env}
}

// Create handles POST /users/{userId}/events.
func (h *OwnerEventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	var body newEventRequest
	if err := decodeBody(r, &body); err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	event, err := h.Events.Create(r.Context(), userID, body.toDraft())
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusCreated, toEventFull(event))
}

// List handles GET /users/{userId}/events.
func (h *OwnerEventsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}
	page, err := parsePage(r)
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	items, err := h.Events.ListByInitiator(r.Context(), userID, page)
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, toEventShortList(items))
}

// Get handles GET /users/{userId}/events/{eventId}.
func (h *OwnerEventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, eventID, err := ownerEventIDs(r)
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	event, err := h.Events.GetByInitiator(r.Context(), userID, eventID)
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, toEventFull(event))
}

// Update handles PATCH /users/{userId}/events/{eventId}.
func (h *OwnerEventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, eventID, err := ownerEventIDs(r)
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	var body updateEventRequest
	if err := decodeBody(r, &body); err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	event, err := h.Events.UpdateByOwner(r.Context(), userID, eventID, body.toPatch())
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, toEventFull(event))
}

// ListRequests handles GET /users/{userId}/events/{eventId}/requests.
func (h *OwnerEventsHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	userID, eventID, err := ownerEventIDs(r)
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	items, err := h.Requests.ListByEvent(r.Context(), userID, eventID)
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, toRequestList(items))
}

// ModerateRequests handles PATCH /users/{userId}/events/{eventId}/requests.
func (h *OwnerEventsHandler) ModerateRequests(w http.ResponseWriter, r *http.Request) {
	userID, eventID, err := ownerEventIDs(r)
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	var body moderationRequest
	if err := decodeBody(r, &body); err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	result, err := h.Requests.ConfirmBatch(r.Context(), userID, eventID, body.RequestIDs, requests.Status(body.Status))
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, moderationResultDTO{
		ConfirmedRequests: toRequestList(result.Confirmed),
		RejectedRequests:  toRequestList(result.Rejected),
	})
}

func ownerEventIDs(r *http.Request) (int64, int64, error) {
	userID, err := pathID(r, "userId")
	if err != nil {
		return 0, 0, err
	}
	eventID, err := pathID(r, "eventId")
	if err != nil {
		return 0, 0, err
	}
	return userID, eventID, nil
}
