package handlers

import (
	"errors"
	"net/http"

	"github.com/gatherhub/server/internal/api/problem"
	"github.com/gatherhub/server/internal/auth"
)

// AdminAuthHandler exchanges admin credentials for a bearer token.
type AdminAuthHandler struct {
	Login *auth.AdminLogin
	Env   string
}

func NewAdminAuthHandler(login *auth.AdminLogin, env string) *AdminAuthHandler {
	return &AdminAuthHandler{Login: login, Env: env}
}

// Authenticate handles POST /admin/auth/login.
func (h *AdminAuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := decodeBody(r, &body); err != nil {
		problem.WriteError(w, r, err, h.Env)
		return
	}

	token, err := h.Login.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			problem.Write(w, r, http.StatusUnauthorized,
				problem.TypeUnauthorized, "Invalid credentials", err, h.Env)
			return
		}
		problem.WriteError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}
