package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gatherhub/server/internal/auth"
)

func TestAdminAuthRejectsMissingToken(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour, "gatherhub")
	handler := AdminAuth(manager, "test")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/admin/events", nil))
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAdminAuthRejectsNonAdminRole(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour, "gatherhub")
	token, err := manager.Generate("someone", "viewer")
	require.NoError(t, err)

	handler := AdminAuth(manager, "test")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest("GET", "/admin/events", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestAdminAuthAcceptsAdminToken(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour, "gatherhub")
	token, err := manager.Generate("admin", auth.RoleAdmin)
	require.NoError(t, err)

	called := false
	handler := AdminAuth(manager, "test")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest("GET", "/admin/events", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	require.True(t, called)
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestClientIPPrefersForwardedHeader(t *testing.T) {
	request := httptest.NewRequest("GET", "/events", nil)
	request.RemoteAddr = "192.0.2.10:4242"
	require.Equal(t, "192.0.2.10", ClientIP(request))

	request.Header.Set("X-Forwarded-For", "203.0.113.5, 192.0.2.10")
	require.Equal(t, "203.0.113.5", ClientIP(request))
}
