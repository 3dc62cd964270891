package problem

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/gatherhub/server/internal/domain"
)

const contentType = "application/problem+json"

const (
	TypeValidation   = "https://gatherhub.dev/problems/validation-error"
	TypeNotFound     = "https://gatherhub.dev/problems/not-found"
	TypeConflict     = "https://gatherhub.dev/problems/conflict"
	TypeUnauthorized = "https://gatherhub.dev/problems/unauthorized"
	TypeServerError  = "https://gatherhub.dev/problems/server-error"
)

type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

func Write(w http.ResponseWriter, r *http.Request, status int, typ, title string, err error, env string) {
	details := ProblemDetails{
		Type:   typ,
		Title:  title,
		Status: status,
	}

	if err != nil {
		if status < 500 || env == "development" || env == "test" {
			details.Detail = err.Error()
		} else {
			details.Detail = http.StatusText(status)
		}
	}
	if r != nil {
		details.Instance = r.URL.Path
	}

	if err != nil && r != nil {
		logger := zerolog.Ctx(r.Context())
		event := logger.Warn()
		if status >= 500 {
			event = logger.Error()
		}
		event.
			Err(err).
			Int("status", status).
			Str("path", r.URL.Path).
			Str("method", r.Method).
			Msg(title)
	}

	writeDetails(w, details)
}

// WriteError maps a domain error to its problem response.
func WriteError(w http.ResponseWriter, r *http.Request, err error, env string) {
	switch {
	case domain.IsValidation(err):
		Write(w, r, http.StatusBadRequest, TypeValidation, "Invalid request", err, env)
	case domain.IsNotFound(err):
		Write(w, r, http.StatusNotFound, TypeNotFound, "Not found", err, env)
	case domain.IsConflict(err):
		Write(w, r, http.StatusConflict, TypeConflict, "Conflict", err, env)
	default:
		Write(w, r, http.StatusInternalServerError, TypeServerError, "Server error", err, env)
	}
}

func writeDetails(w http.ResponseWriter, details ProblemDetails) {
	payload, err := json.Marshal(details)
	if err != nil {
		fallback := fmt.Sprintf("{\"type\":\"about:blank\",\"title\":\"%s\",\"status\":500}", http.StatusText(http.StatusInternalServerError))
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(fallback))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(details.Status)
	_, _ = w.Write(payload)
}
