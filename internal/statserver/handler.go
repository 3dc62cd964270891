package statserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gatherhub/server/internal/api/problem"
	"github.com/gatherhub/server/internal/domain"
	"github.com/gatherhub/server/internal/stats"
)

// Handler serves the hit-recording and aggregation endpoints.
type Handler struct {
	Service *Service
	Env     string
}

func NewHandler(service *Service, env string) *Handler {
	return &Handler{Service: service, Env: env}
}

type hitPayload struct {
	App       string `json:"app"`
	URI       string `json:"uri"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
}

// RecordHit handles POST /hit.
func (h *Handler) RecordHit(w http.ResponseWriter, r *http.Request) {
	var payload hitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		problem.WriteError(w, r, domain.Validationf("body", "malformed JSON: %v", err), h.Env)
		return
	}

	timestamp, err := time.Parse(stats.TimeLayout, payload.Timestamp)
	if err != nil {
		problem.WriteError(w, r, domain.Validationf("timestamp", "must use the format %s", stats.TimeLayout), h.Env)
		return
	}

	hit := HitRecord{
		App:       payload.App,
		URI:       payload.URI,
		IP:        payload.IP,
		Timestamp: timestamp.UTC(),
	}
	if err := h.Service.RecordHit(r.Context(), hit); err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// Stats handles GET /stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	start, err := parseWireTime(query.Get("start"), "start")
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}
	end, err := parseWireTime(query.Get("end"), "end")
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	unique := false
	if raw := query.Get("unique"); raw != "" {
		unique, err = strconv.ParseBool(raw)
		if err != nil {
			problem.WriteError(w, r, domain.Validationf("unique", "must be true or false"), h.Env)
			return
		}
	}

	items, err := h.Service.Stats(r.Context(), start, end, query["uris"], unique)
	if err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(items)
}

func parseWireTime(raw, name string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, domain.Validationf(name, "is required")
	}
	parsed, err := time.Parse(stats.TimeLayout, raw)
	if err != nil {
		return time.Time{}, domain.Validationf(name, "must use the format %s", stats.TimeLayout)
	}
	return parsed.UTC(), nil
}
