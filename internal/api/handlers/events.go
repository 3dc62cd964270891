package handlers

import (
	"net/http"

	"github.com/gatherhub/server/internal/api/middleware"
	"github.com/gatherhub/server/internal/api/problem"
	"github.com/gatherhub/server/internal/domain"
	"github.com/gatherhub/server/internal/domain/events"
)

// EventsHandler serves the public event catalogue.
type EventsHandler struct {
	Service *events.Service
	Env     string
}

func NewEventsHandler(service *events.Service, env string) *EventsHandler {
	return &EventsHandler{Service: service, Env: env}
}

// List handles GET /events.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, page, err := parseEventFilters(r)
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	items, err := h.Service.List(r.Context(), filters, page, r.URL.Path, middleware.ClientIP(r))
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, toEventShortList(items))
}

// Get handles GET /events/{eventId}. Only published events are visible.
func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "eventId")
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	event, err := h.Service.GetPublished(r.Context(), eventID, r.URL.Path, middleware.ClientIP(r))
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, toEventFull(event))
}

func parseEventFilters(r *http.Request) (events.Filters, events.Page, error) {
	query := r.URL.Query()

	categories, err := parseIDList(query["categories"], "categories")
	if err != nil {
		return events.Filters{}, events.Page{}, err
	}
	paid, err := parseBoolParam(query.Get("paid"), "paid")
	if err != nil {
		return events.Filters{}, events.Page{}, err
	}
	rangeStart, err := parseTimeParam(query.Get("rangeStart"), "rangeStart")
	if err != nil {
		return events.Filters{}, events.Page{}, err
	}
	rangeEnd, err := parseTimeParam(query.Get("rangeEnd"), "rangeEnd")
	if err != nil {
		return events.Filters{}, events.Page{}, err
	}
	onlyAvailable, err := parseBoolParam(query.Get("onlyAvailable"), "onlyAvailable")
	if err != nil {
		return events.Filters{}, events.Page{}, err
	}

	sort := events.SortEventDate
	if raw := query.Get("sort"); raw != "" {
		switch events.Sort(raw) {
		case events.SortEventDate, events.SortViews:
			sort = events.Sort(raw)
		default:
			return events.Filters{}, events.Page{}, domain.Validationf("sort", "must be EVENT_DATE or VIEWS")
		}
	}

	page, err := parsePage(r)
	if err != nil {
		return events.Filters{}, events.Page{}, err
	}

	filters := events.Filters{
		Text:       query.Get("text"),
		Categories: categories,
		Paid:       paid,
		RangeStart: rangeStart,
		RangeEnd:   rangeEnd,
		Sort:       sort,
	}
	if onlyAvailable != nil {
		filters.OnlyAvailable = *onlyAvailable
	}
	return filters, page, nil
}
