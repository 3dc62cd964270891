package handlers

import (
	"net/http"

	"github.com/gatherhub/server/internal/api/problem"
	"github.com/gatherhub/server/internal/domain"
	"github.com/gatherhub/server/internal/domain/events"
)

// AdminEventsHandler serves event moderation and search for administrators.
type AdminEventsHandler struct {
	Service *events.Service
	Env     string
}

func NewAdminEventsHandler(service *events.Service, env string) *AdminEventsHandler {
	return &AdminEventsHandler{Service: service, Env: env}
}

// List handles GET /admin/events.
func (h *AdminEventsHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, page, err := parseAdminFilters(r)
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	items, err := h.Service.ListAdmin(r.Context(), filters, page)
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, toEventFullList(items))
}

// Update handles PATCH /admin/events/{eventId}.
func (h *AdminEventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "eventId")
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	var body updateEventRequest
	if err := decodeBody(r, &body); err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	event, err := h.Service.UpdateByAdmin(r.Context(), eventID, body.toPatch())
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, toEventFull(event))
}

func parseAdminFilters(r *http.Request) (events.AdminFilters, events.Page, error) {
	query := r.URL.Query()

	userIDs, err := parseIDList(query["users"], "users")
	if err != nil {
		return events.AdminFilters{}, events.Page{}, err
	}
	categories, err := parseIDList(query["categories"], "categories")
	if err != nil {
		return events.AdminFilters{}, events.Page{}, err
	}

	var states []events.State
	for _, raw := range query["states"] {
		state, ok := events.ParseState(raw)
		if !ok {
			return events.AdminFilters{}, events.Page{}, domain.Validationf("states", "unknown state %q", raw)
		}
		states = append(states, state)
	}

	rangeStart, err := parseTimeParam(query.Get("rangeStart"), "rangeStart")
	if err != nil {
		return events.AdminFilters{}, events.Page{}, err
	}
	rangeEnd, err := parseTimeParam(query.Get("rangeEnd"), "rangeEnd")
	if err != nil {
		return events.AdminFilters{}, events.Page{}, err
	}

	page, err := parsePage(r)
	if err != nil {
		return events.AdminFilters{}, events.Page{}, err
	}

	return events.AdminFilters{
		Users:      userIDs,
		States:     states,
		Categories: categories,
		RangeStart: rangeStart,
		RangeEnd:   rangeEnd,
	}, page, nil
}
