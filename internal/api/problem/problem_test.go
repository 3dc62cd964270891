package problem

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gatherhub/server/internal/domain"
)

func TestWriteErrorMapsDomainErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"validation", domain.Validationf("eventDate", "too soon"), http.StatusBadRequest, TypeValidation},
		{"not found", domain.NotFoundf("event 7 does not exist"), http.StatusNotFound, TypeNotFound},
		{"conflict", domain.Conflictf("already published"), http.StatusConflict, TypeConflict},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, TypeServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/events/7", nil)

			WriteError(recorder, request, tc.err, "test")

			require.Equal(t, tc.wantStatus, recorder.Code)
			require.Equal(t, "application/problem+json", recorder.Header().Get("Content-Type"))

			var details ProblemDetails
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &details))
			require.Equal(t, tc.wantType, details.Type)
			require.Equal(t, tc.wantStatus, details.Status)
			require.Equal(t, "/events/7", details.Instance)
		})
	}
}

func TestWriteHidesServerDetailInProduction(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/events", nil)

	WriteError(recorder, request, fmt.Errorf("pool exhausted"), "production")

	var details ProblemDetails
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &details))
	require.NotContains(t, details.Detail, "pool exhausted")
}

func TestWriteExposesClientErrorDetail(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/events", nil)

	WriteError(recorder, request, domain.Validationf("size", "must be positive"), "production")

	var details ProblemDetails
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &details))
	require.Contains(t, details.Detail, "size")
}
