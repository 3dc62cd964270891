package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/gatherhub/server/internal/domain"
	"github.com/gatherhub/server/internal/domain/events"
)

// timeLayout is the wire format for all API timestamps.
const timeLayout = "2006-01-02 15:04:05"

var validate = validator.New(validator.WithRequiredStructEnabled())

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// decodeBody reads a JSON body into dst and runs the struct validation tags.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Validationf("body", "must not be empty")
		}
		return domain.Validationf("body", "malformed JSON: %v", err)
	}
	if err := validate.Struct(dst); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(invalid) > 0 {
			first := invalid[0]
			return domain.Validationf(fieldName(first), "failed on %q", first.Tag())
		}
		return domain.Validationf("body", "%v", err)
	}
	return nil
}

func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return "body"
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func pathID(r *http.Request, key string) (int64, error) {
	raw := r.PathValue(key)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Validationf(key, "must be a positive integer")
	}
	return id, nil
}

// parsePage reads from/size query parameters with the defaults 0 and 10.
func parsePage(r *http.Request) (events.Page, error) {
	page := events.Page{From: 0, Size: 10}
	query := r.URL.Query()

	if raw := query.Get("from"); raw != "" {
		from, err := strconv.Atoi(raw)
		if err != nil || from < 0 {
			return events.Page{}, domain.Validationf("from", "must be a non-negative integer")
		}
		page.From = from
	}
	if raw := query.Get("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			return events.Page{}, domain.Validationf("size", "must be a positive integer")
		}
		page.Size = size
	}
	return page, nil
}

func parseTimeParam(query string, name string) (*time.Time, error) {
	if query == "" {
		return nil, nil
	}
	parsed, err := time.Parse(timeLayout, query)
	if err != nil {
		return nil, domain.Validationf(name, "must use the format %s", timeLayout)
	}
	parsed = parsed.UTC()
	return &parsed, nil
}

func parseIDList(values []string, name string) ([]int64, error) {
	ids := make([]int64, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, domain.Validationf(name, "must contain integers")
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func parseBoolParam(query string, name string) (*bool, error) {
	if query == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(query)
	if err != nil {
		return nil, domain.Validationf(name, "must be true or false")
	}
	return &value, nil
}
